package regs

import "sync"

// Model is an addressable register store used in place of the memory-mapped
// register file on the host. It is a pure value store: no address validation,
// no alignment checks, no side-effecting reads. Never-written addresses read 0.
//
// A Model is constructed per test (or per host run) and injected; there is no
// package-level instance.
type Model struct {
	mu      sync.Mutex
	mem     map[uint32]uint32
	written map[uint32]bool
}

func NewModel() *Model {
	return &Model{
		mem:     make(map[uint32]uint32),
		written: make(map[uint32]bool),
	}
}

func (m *Model) Read(addr uint32) uint32 {
	m.mu.Lock()
	v := m.mem[addr]
	m.mu.Unlock()
	return v
}

func (m *Model) Write(addr, v uint32) {
	m.mu.Lock()
	m.mem[addr] = v
	m.written[addr] = true
	m.mu.Unlock()
}

// SetBit is an atomic read-modify-write with respect to other Model calls.
func (m *Model) SetBit(addr, mask uint32) {
	m.mu.Lock()
	m.mem[addr] |= mask
	m.written[addr] = true
	m.mu.Unlock()
}

// ClearBit is the counterpart of SetBit.
func (m *Model) ClearBit(addr, mask uint32) {
	m.mu.Lock()
	m.mem[addr] &^= mask
	m.written[addr] = true
	m.mu.Unlock()
}

// WasWritten reports whether addr has been written since the last Reset.
func (m *Model) WasWritten(addr uint32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.written[addr]
}

// IsBitSet reports whether every bit of mask is set at addr. An empty mask is
// never set.
func (m *Model) IsBitSet(addr, mask uint32) bool {
	return HasBits(m, addr, mask)
}

// Value is Read under the name tests use for assertions.
func (m *Model) Value(addr uint32) uint32 { return m.Read(addr) }

// Written returns the addresses written since the last Reset, unordered.
func (m *Model) Written() []uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]uint32, 0, len(m.written))
	for a := range m.written {
		out = append(out, a)
	}
	return out
}

// Reset clears all values and written flags.
func (m *Model) Reset() {
	m.mu.Lock()
	clear(m.mem)
	clear(m.written)
	m.mu.Unlock()
}
