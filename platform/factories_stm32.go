//go:build stm32

package platform

import (
	"tinygo.org/x/drivers"

	"boardcode-go/periph"
)

// On target builds the buses are "not configured" until a board provides
// machine-level instances through WithI2CFactory / WithSPIFactory.
func DefaultI2CFactory() periph.I2CFactory { return noI2CFactory{} }
func DefaultSPIFactory() periph.SPIFactory { return noSPIFactory{} }

type noI2CFactory struct{}

func (noI2CFactory) ByID(string) (drivers.I2C, bool) { return nil, false }

type noSPIFactory struct{}

func (noSPIFactory) ByID(string) (drivers.SPI, bool) { return nil, false }
