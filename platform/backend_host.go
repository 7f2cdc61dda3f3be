//go:build !stm32

package platform

import "boardcode-go/hal/regs"

// Off target, registers live in a model that starts at reset values of zero.
func defaultBus() regs.Bus { return regs.NewModel() }
