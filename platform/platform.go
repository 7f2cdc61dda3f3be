// Package platform assembles the register backend, the HAL drivers, the BSP
// and the kernel for one board.
package platform

import (
	"go.uber.org/zap"

	"boardcode-go/bsp"
	"boardcode-go/hal/gpio"
	"boardcode-go/hal/rcc"
	"boardcode-go/hal/regs"
	"boardcode-go/periph"
	"boardcode-go/rtos"
	"boardcode-go/types"
)

// System is everything an application needs, wired for one board.
type System struct {
	Board  *types.BoardDescriptor
	Bus    regs.Bus
	RCC    *rcc.Controller
	GPIO   *gpio.Driver
	BSP    *bsp.BSP
	Kernel *rtos.Kernel
	Hub    *rtos.Hub
	I2C    periph.I2CFactory
	SPI    periph.SPIFactory
}

type options struct {
	log  *zap.Logger
	bus  regs.Bus
	i2c  periph.I2CFactory
	spi  periph.SPIFactory
	qLen int
}

type Option func(*options)

func WithLogger(l *zap.Logger) Option { return func(o *options) { o.log = l } }

// WithBus replaces the build's default register backend, e.g. with a
// regs.Model a test keeps a handle on.
func WithBus(b regs.Bus) Option { return func(o *options) { o.bus = b } }

func WithI2CFactory(f periph.I2CFactory) Option { return func(o *options) { o.i2c = f } }
func WithSPIFactory(f periph.SPIFactory) Option { return func(o *options) { o.spi = f } }

// Open looks board up in the registry and wires a System for it. The BSP is
// created but not initialised.
func Open(board string, opts ...Option) (*System, error) {
	o := options{log: zap.NewNop(), qLen: 4}
	for _, fn := range opts {
		fn(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if o.bus == nil {
		o.bus = defaultBus()
	}
	if o.i2c == nil {
		o.i2c = DefaultI2CFactory()
	}
	if o.spi == nil {
		o.spi = DefaultSPIFactory()
	}

	d, err := bsp.LookupBoard(board)
	if err != nil {
		return nil, err
	}
	rc, err := rcc.New(o.bus, d.Family, rcc.WithLogger(o.log.Named("rcc")))
	if err != nil {
		return nil, err
	}
	g, err := gpio.New(o.bus, d.Family, rc, gpio.WithLogger(o.log.Named("gpio")))
	if err != nil {
		return nil, err
	}
	clock := rtos.NewClock()
	k := rtos.NewKernel(rtos.WithClock(clock), rtos.WithLogger(o.log.Named("rtos")))
	b, err := bsp.New(d, g, rc, clock, bsp.WithLogger(o.log.Named("bsp")))
	if err != nil {
		return nil, err
	}
	return &System{
		Board:  d,
		Bus:    o.bus,
		RCC:    rc,
		GPIO:   g,
		BSP:    b,
		Kernel: k,
		Hub:    rtos.NewHub(o.qLen),
		I2C:    o.i2c,
		SPI:    o.spi,
	}, nil
}
