package boards

import (
	"github.com/inhies/go-bytesize"

	"boardcode-go/bsp"
	"boardcode-go/types"
)

const NucleoL432KC = "NUCLEO-L432KC"

// Nucleo-32 with the ST-Link virtual COM port on USART2 and the user LED (LD3)
// on PB3. SPI1/I2C1 sit on the Arduino Nano headers.
var nucleoL432KC = types.BoardDescriptor{
	Name:   NucleoL432KC,
	MCU:    "STM32L432KC",
	Family: types.FamilySTM32L4,
	Flash:  256 * bytesize.KB,
	RAM:    64 * bytesize.KB,
	Pins: []types.PinDescriptor{
		{Name: "LED_USER", Port: "GPIOB", Pin: 3, Function: types.FuncLED, ActiveHigh: true, Description: "LD3 green"},
		{Name: "DEBUG_TX", Port: "GPIOA", Pin: 2, Function: types.FuncDebugTX, AltFunc: 7, ActiveHigh: true, Description: "USART2_TX, VCP"},
		{Name: "DEBUG_RX", Port: "GPIOA", Pin: 15, Function: types.FuncDebugRX, AltFunc: 3, ActiveHigh: true, Description: "USART2_RX, VCP"},
		{Name: "SPI1_SCK", Port: "GPIOA", Pin: 5, Function: types.FuncSPISCK, AltFunc: 5, ActiveHigh: true},
		{Name: "SPI1_MISO", Port: "GPIOA", Pin: 6, Function: types.FuncSPIMISO, AltFunc: 5, ActiveHigh: true},
		{Name: "SPI1_MOSI", Port: "GPIOA", Pin: 7, Function: types.FuncSPIMOSI, AltFunc: 5, ActiveHigh: true},
		{Name: "I2C1_SCL", Port: "GPIOB", Pin: 6, Function: types.FuncI2CSCL, AltFunc: 4, ActiveHigh: true},
		{Name: "I2C1_SDA", Port: "GPIOB", Pin: 7, Function: types.FuncI2CSDA, AltFunc: 4, ActiveHigh: true},
	},
	Clock: &types.ClockDescriptor{
		HSI:    16_000_000,
		LSI:    32_000,
		SYSCLK: 80_000_000,
		HCLK:   80_000_000,
		PCLK1:  80_000_000,
		PCLK2:  80_000_000,
	},
	MCUData: &bsp.Extras{
		DebugUART:    types.PeriphUSART2,
		HasDebugUART: true,
		DebugTX:      "DEBUG_TX",
		DebugRX:      "DEBUG_RX",
		FlashBase:    0x08000000,
	},
}

func init() { bsp.RegisterBoard(&nucleoL432KC) }
