//go:build stm32

package platform

import "boardcode-go/hal/regs"

func defaultBus() regs.Bus { return regs.MMIO{} }
