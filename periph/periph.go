// Package periph brings serial buses up on top of the BSP: function pins are
// resolved by instance and configured, the peripheral clock is enabled, and
// the bus itself comes from a platform factory as a tinygo drivers bus.
package periph

import (
	"strconv"

	"tinygo.org/x/drivers"

	"boardcode-go/bsp"
	"boardcode-go/errcode"
	"boardcode-go/types"
)

// Board is the part of the BSP bus bring-up needs.
type Board interface {
	PinConfigByFunction(fn types.PinFunction, instance int) (types.PinDescriptor, error)
	ConfigurePin(d *types.PinDescriptor) error
	RCC() bsp.RCC
}

// I2CFactory yields a bus by id ("i2c1", "i2c2", ...).
type I2CFactory interface {
	ByID(id string) (drivers.I2C, bool)
}

// SPIFactory yields a bus by id ("spi1", ...).
type SPIFactory interface {
	ByID(id string) (drivers.SPI, bool)
}

var (
	i2cPeriphs = []types.Peripheral{types.PeriphI2C1, types.PeriphI2C2, types.PeriphI2C3}
	spiPeriphs = []types.Peripheral{types.PeriphSPI1, types.PeriphSPI2, types.PeriphSPI3}
)

func pinsUp(op string, b Board, instance int, fns ...types.PinFunction) error {
	for _, fn := range fns {
		d, err := b.PinConfigByFunction(fn, instance)
		if err != nil {
			return errcode.Wrap(op, errcode.PinNotFound, -2, err)
		}
		if err := b.ConfigurePin(&d); err != nil {
			return errcode.Wrap(op, errcode.ConfigFailed, -2, err)
		}
	}
	return nil
}

func controller(op string, list []types.Peripheral, instance int) (types.Peripheral, error) {
	if instance < 0 || instance >= len(list) {
		return 0, &errcode.E{C: errcode.PeripheralNotPresent, Op: op, Status: -3, Msg: "instance " + strconv.Itoa(instance)}
	}
	return list[instance], nil
}

func clockUp(op string, b Board, p types.Peripheral) error {
	if err := b.RCC().Enable(p); err != nil {
		return errcode.Wrap(op, errcode.ClockFailed, -3, err)
	}
	return nil
}

// OpenI2C brings up the instance-th I2C controller of the board (0 = I2C1).
func OpenI2C(b Board, instance int, f I2CFactory) (drivers.I2C, error) {
	const op = "periph_open_i2c"
	if b == nil || f == nil {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: op, Status: -1}
	}
	p, err := controller(op, i2cPeriphs, instance)
	if err != nil {
		return nil, err
	}
	if err := pinsUp(op, b, instance, types.FuncI2CSCL, types.FuncI2CSDA); err != nil {
		return nil, err
	}
	if err := clockUp(op, b, p); err != nil {
		return nil, err
	}
	id := "i2c" + strconv.Itoa(instance+1)
	bus, ok := f.ByID(id)
	if !ok {
		return nil, &errcode.E{C: errcode.Unsupported, Op: op, Status: -4, Msg: id}
	}
	return bus, nil
}

// OpenSPI brings up the instance-th SPI controller of the board (0 = SPI1).
// Chip selects are left to the caller.
func OpenSPI(b Board, instance int, f SPIFactory) (drivers.SPI, error) {
	const op = "periph_open_spi"
	if b == nil || f == nil {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: op, Status: -1}
	}
	p, err := controller(op, spiPeriphs, instance)
	if err != nil {
		return nil, err
	}
	if err := pinsUp(op, b, instance, types.FuncSPISCK, types.FuncSPIMISO, types.FuncSPIMOSI); err != nil {
		return nil, err
	}
	if err := clockUp(op, b, p); err != nil {
		return nil, err
	}
	id := "spi" + strconv.Itoa(instance+1)
	bus, ok := f.ByID(id)
	if !ok {
		return nil, &errcode.E{C: errcode.Unsupported, Op: op, Status: -4, Msg: id}
	}
	return bus, nil
}
