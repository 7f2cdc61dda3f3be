// Package regs is the register access boundary of the HAL. Drivers never touch
// memory directly; they go through a Bus so that the same driver code runs
// against MMIO on the target and against a Model on the host.
package regs

// Bus reads and writes 32-bit peripheral registers by absolute address.
type Bus interface {
	Read(addr uint32) uint32
	Write(addr, v uint32)
}

// SetBits performs a read-modify-write setting every bit in mask.
func SetBits(b Bus, addr, mask uint32) {
	b.Write(addr, b.Read(addr)|mask)
}

// ClearBits performs a read-modify-write clearing every bit in mask.
func ClearBits(b Bus, addr, mask uint32) {
	b.Write(addr, b.Read(addr)&^mask)
}

// HasBits reports whether all bits in mask are set. An empty mask is never set.
func HasBits(b Bus, addr, mask uint32) bool {
	return mask != 0 && b.Read(addr)&mask == mask
}

// ReplaceBits writes v into the field selected by mask (v already shifted).
func ReplaceBits(b Bus, addr, mask, v uint32) {
	b.Write(addr, b.Read(addr)&^mask|v&mask)
}
