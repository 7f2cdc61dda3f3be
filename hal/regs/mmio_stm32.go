//go:build stm32

package regs

import (
	"runtime/volatile"
	"unsafe"
)

// MMIO accesses the real memory-mapped register file.
type MMIO struct{}

func (MMIO) Read(addr uint32) uint32 {
	return volatile.LoadUint32((*uint32)(unsafe.Pointer(uintptr(addr))))
}

func (MMIO) Write(addr, v uint32) {
	volatile.StoreUint32((*uint32)(unsafe.Pointer(uintptr(addr))), v)
}
