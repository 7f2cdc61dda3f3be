//go:build stm32f4disco

package boards

const Selected = STM32F4Discovery
