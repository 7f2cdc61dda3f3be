package types

// Peripheral is the closed set of clock-gated peripherals known to the RCC HAL.
// Whether a given one exists depends on the MCU family.
type Peripheral uint8

const (
	PeriphGPIOA Peripheral = iota
	PeriphGPIOB
	PeriphGPIOC
	PeriphGPIOD
	PeriphGPIOE
	PeriphGPIOF
	PeriphGPIOG
	PeriphGPIOH
	PeriphGPIOI

	PeriphUSART1
	PeriphUSART2
	PeriphUSART3
	PeriphUART4
	PeriphUART5

	PeriphSPI1
	PeriphSPI2
	PeriphSPI3

	PeriphI2C1
	PeriphI2C2
	PeriphI2C3

	PeriphTIM1
	PeriphTIM2
	PeriphTIM3
	PeriphTIM4
	PeriphTIM5
	PeriphTIM6
	PeriphTIM7
	PeriphTIM8

	PeriphADC1
	PeriphADC2
	PeriphADC3

	PeriphDMA1
	PeriphDMA2

	PeriphCount
)

var periphNames = [...]string{
	"GPIOA", "GPIOB", "GPIOC", "GPIOD", "GPIOE", "GPIOF", "GPIOG", "GPIOH", "GPIOI",
	"USART1", "USART2", "USART3", "UART4", "UART5",
	"SPI1", "SPI2", "SPI3",
	"I2C1", "I2C2", "I2C3",
	"TIM1", "TIM2", "TIM3", "TIM4", "TIM5", "TIM6", "TIM7", "TIM8",
	"ADC1", "ADC2", "ADC3",
	"DMA1", "DMA2",
}

func (p Peripheral) String() string {
	if int(p) < len(periphNames) {
		return periphNames[p]
	}
	return "unknown"
}

// GPIOPeripheral returns the clock gate for the GPIO port with the given index.
func GPIOPeripheral(portIndex uint8) (Peripheral, bool) {
	if portIndex > uint8(PeriphGPIOI-PeriphGPIOA) {
		return 0, false
	}
	return PeriphGPIOA + Peripheral(portIndex), true
}

// Bus is a peripheral clock domain.
type Bus uint8

const (
	BusAHB1 Bus = iota
	BusAHB2
	BusAHB3
	BusAPB1
	BusAPB2
)

func (b Bus) String() string {
	switch b {
	case BusAHB1:
		return "AHB1"
	case BusAHB2:
		return "AHB2"
	case BusAHB3:
		return "AHB3"
	case BusAPB1:
		return "APB1"
	case BusAPB2:
		return "APB2"
	default:
		return "unknown"
	}
}
