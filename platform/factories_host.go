//go:build !stm32

package platform

import (
	"sync"

	"tinygo.org/x/drivers"

	"boardcode-go/periph"
)

// ----------------------------- I²C (host) ------------------------------------

// HostI2C implements tinygo drivers.I2C for host-side tests. It records the
// last transaction and returns zeros.
type HostI2C struct {
	mu     sync.Mutex
	LastTx struct {
		Addr uint16
		W    []byte
		Rn   int
	}
}

func (h *HostI2C) Tx(addr uint16, w, r []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.LastTx.Addr = addr
	h.LastTx.W = append([]byte(nil), w...)
	h.LastTx.Rn = len(r)
	clear(r)
	return nil
}

// ----------------------------- SPI (host) ------------------------------------

// HostSPI implements tinygo drivers.SPI as a loopback: MISO echoes MOSI.
type HostSPI struct {
	mu  sync.Mutex
	Out []byte
}

func (h *HostSPI) Tx(w, r []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Out = append(h.Out, w...)
	copy(r, w)
	return nil
}

func (h *HostSPI) Transfer(b byte) (byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Out = append(h.Out, b)
	return b, nil
}

type hostI2CFactory map[string]drivers.I2C

func (f hostI2CFactory) ByID(id string) (drivers.I2C, bool) {
	b, ok := f[id]
	return b, ok
}

type hostSPIFactory map[string]drivers.SPI

func (f hostSPIFactory) ByID(id string) (drivers.SPI, bool) {
	b, ok := f[id]
	return b, ok
}

// DefaultI2CFactory creates inert host buses "i2c1".."i2c3".
func DefaultI2CFactory() periph.I2CFactory {
	return hostI2CFactory{"i2c1": &HostI2C{}, "i2c2": &HostI2C{}, "i2c3": &HostI2C{}}
}

// DefaultSPIFactory creates loopback host buses "spi1".."spi3".
func DefaultSPIFactory() periph.SPIFactory {
	return hostSPIFactory{"spi1": &HostSPI{}, "spi2": &HostSPI{}, "spi3": &HostSPI{}}
}
