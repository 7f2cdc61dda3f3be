//go:build !stm32f4disco

package boards

// Selected is the board the firmware is built for.
const Selected = NucleoL432KC
