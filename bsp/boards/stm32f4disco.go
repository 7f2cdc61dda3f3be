package boards

import (
	"github.com/inhies/go-bytesize"

	"boardcode-go/bsp"
	"boardcode-go/types"
)

const STM32F4Discovery = "STM32F4-Discovery"

var stm32F4Discovery = types.BoardDescriptor{
	Name:   STM32F4Discovery,
	MCU:    "STM32F407VGT6",
	Family: types.FamilySTM32F4,
	Flash:  1 * bytesize.MB,
	RAM:    192 * bytesize.KB,
	Pins: []types.PinDescriptor{
		{Name: "LED_GREEN", Port: "GPIOD", Pin: 12, Function: types.FuncLED, ActiveHigh: true, Description: "LD4"},
		{Name: "LED_ORANGE", Port: "GPIOD", Pin: 13, Function: types.FuncLED, ActiveHigh: true, Description: "LD3"},
		{Name: "LED_RED", Port: "GPIOD", Pin: 14, Function: types.FuncLED, ActiveHigh: true, Description: "LD5"},
		{Name: "LED_BLUE", Port: "GPIOD", Pin: 15, Function: types.FuncLED, ActiveHigh: true, Description: "LD6"},
		{Name: "BUTTON_USER", Port: "GPIOA", Pin: 0, Function: types.FuncButton, ActiveHigh: true, Description: "B1"},
		{Name: "UART2_TX", Port: "GPIOA", Pin: 2, Function: types.FuncUARTTX, AltFunc: 7, ActiveHigh: true},
		{Name: "UART2_RX", Port: "GPIOA", Pin: 3, Function: types.FuncUARTRX, AltFunc: 7, ActiveHigh: true},
		{Name: "SPI1_SCK", Port: "GPIOA", Pin: 5, Function: types.FuncSPISCK, AltFunc: 5, ActiveHigh: true},
		{Name: "SPI1_MISO", Port: "GPIOA", Pin: 6, Function: types.FuncSPIMISO, AltFunc: 5, ActiveHigh: true},
		{Name: "SPI1_MOSI", Port: "GPIOA", Pin: 7, Function: types.FuncSPIMOSI, AltFunc: 5, ActiveHigh: true},
		{Name: "I2C1_SCL", Port: "GPIOB", Pin: 8, Function: types.FuncI2CSCL, AltFunc: 4, ActiveHigh: true},
		{Name: "I2C1_SDA", Port: "GPIOB", Pin: 9, Function: types.FuncI2CSDA, AltFunc: 4, ActiveHigh: true},
	},
	Clock: &types.ClockDescriptor{
		HSI:    16_000_000,
		HSE:    8_000_000,
		LSI:    32_000,
		SYSCLK: 168_000_000,
		HCLK:   168_000_000,
		PCLK1:  42_000_000,
		PCLK2:  84_000_000,
	},
	MCUData: &bsp.Extras{
		DebugUART:    types.PeriphUSART2,
		HasDebugUART: true,
		DebugTX:      "UART2_TX",
		DebugRX:      "UART2_RX",
		FlashBase:    0x08000000,
	},
}

func init() { bsp.RegisterBoard(&stm32F4Discovery) }
