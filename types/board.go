package types

import "github.com/inhies/go-bytesize"

// MCUFamily identifies an STM32 product line.
type MCUFamily uint8

const (
	FamilySTM32L4 MCUFamily = iota
	FamilySTM32F4
	FamilySTM32H7
	FamilySTM32G4
	FamilySTM32WB55
	FamilyUnknown
)

var familyNames = [...]string{"STM32L4xx", "STM32F4xx", "STM32H7xx", "STM32G4xx", "STM32WB55", "unknown"}

func (f MCUFamily) String() string {
	if int(f) < len(familyNames) {
		return familyNames[f]
	}
	return "unknown"
}

// PinFunction tags what a board pin is wired to.
type PinFunction uint8

const (
	FuncLED PinFunction = iota
	FuncButton
	FuncUARTTX
	FuncUARTRX
	FuncSPISCK
	FuncSPIMISO
	FuncSPIMOSI
	FuncSPICS
	FuncI2CSCL
	FuncI2CSDA
	FuncDebugTX
	FuncDebugRX
	FuncCustom
)

var functionNames = [...]string{
	"led", "button", "uart_tx", "uart_rx", "spi_sck", "spi_miso", "spi_mosi",
	"spi_cs", "i2c_scl", "i2c_sda", "debug_tx", "debug_rx", "custom",
}

func (f PinFunction) String() string {
	if int(f) < len(functionNames) {
		return functionNames[f]
	}
	return "unknown"
}

// ParsePinFunction maps a function name back to its tag.
func ParsePinFunction(s string) (PinFunction, bool) {
	for i, n := range functionNames {
		if n == s {
			return PinFunction(i), true
		}
	}
	return 0, false
}

// PinDescriptor is one row of a board pin table.
type PinDescriptor struct {
	Name        string      // e.g. "LED_USER"
	Port        string      // e.g. "GPIOB"
	Pin         uint16      // 0..15
	Function    PinFunction
	AltFunc     uint8 // AF selector, meaningful for alternate-function pins
	ActiveHigh  bool
	Description string
}

// ClockDescriptor holds oscillator and target bus frequencies in Hz.
type ClockDescriptor struct {
	HSI, HSE, LSI, LSE         uint32
	SYSCLK, HCLK, PCLK1, PCLK2 uint32
	HSEBypass, LSEBypass       bool
}

// BoardDescriptor describes one MCU + PCB combination.
// Pins is in source order; instance lookups depend on it.
type BoardDescriptor struct {
	Name   string
	MCU    string
	Family MCUFamily
	Flash  bytesize.ByteSize
	RAM    bytesize.ByteSize
	Pins   []PinDescriptor
	Clock  *ClockDescriptor

	// MCUData carries family/board specific extras (e.g. debug UART selection).
	MCUData any
}
