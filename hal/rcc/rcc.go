// Package rcc implements the portable peripheral clock interface for STM32
// families on top of a register bus.
package rcc

import (
	"go.uber.org/zap"

	"boardcode-go/errcode"
	"boardcode-go/hal/regs"
	"boardcode-go/types"
)

// Controller gates peripheral clocks and reports bus frequencies.
// Frequencies are the targets recorded by Configure; programming the clock
// tree itself is owned by the runtime/vendor layer.
type Controller struct {
	bus    regs.Bus
	layout *Layout
	clk    types.ClockDescriptor
	log    *zap.Logger
}

type Option func(*Controller)

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a controller for family f. Families without an RCC map
// fail with errcode.Unsupported.
func New(b regs.Bus, f types.MCUFamily, opts ...Option) (*Controller, error) {
	l, ok := LayoutFor(f)
	if !ok {
		return nil, &errcode.E{C: errcode.Unsupported, Op: "rcc_new", Msg: f.String()}
	}
	c := &Controller{bus: b, layout: l, log: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Controller) Layout() *Layout { return c.layout }

func (c *Controller) notPresent(op string, p types.Peripheral) error {
	return &errcode.E{C: errcode.PeripheralNotPresent, Op: op, Msg: p.String()}
}

// Configure records the clock targets used for frequency queries.
func (c *Controller) Configure(clk types.ClockDescriptor) error {
	if clk.SYSCLK == 0 || clk.HCLK == 0 || clk.PCLK1 == 0 || clk.PCLK2 == 0 {
		return &errcode.E{C: errcode.InvalidParams, Op: "rcc_configure", Msg: "zero bus frequency"}
	}
	if clk.HCLK > clk.SYSCLK || clk.PCLK1 > clk.HCLK || clk.PCLK2 > clk.HCLK {
		return &errcode.E{C: errcode.InvalidParams, Op: "rcc_configure", Msg: "bus faster than its parent"}
	}
	c.clk = clk
	c.log.Debug("clock configured",
		zap.Uint32("sysclk_hz", clk.SYSCLK),
		zap.Uint32("hclk_hz", clk.HCLK),
		zap.Uint32("pclk1_hz", clk.PCLK1),
		zap.Uint32("pclk2_hz", clk.PCLK2))
	return nil
}

// Enable turns on p's clock. Enabling an enabled peripheral is a no-op.
func (c *Controller) Enable(p types.Peripheral) error {
	g, ok := c.layout.gate(p)
	if !ok {
		return c.notPresent("rcc_enable", p)
	}
	regs.SetBits(c.bus, c.layout.Base+g.en, 1<<g.enBit)
	c.log.Debug("peripheral clock enabled", zap.Stringer("periph", p))
	return nil
}

// Disable turns off p's clock. Disabling a disabled peripheral is a no-op.
func (c *Controller) Disable(p types.Peripheral) error {
	g, ok := c.layout.gate(p)
	if !ok {
		return c.notPresent("rcc_disable", p)
	}
	regs.ClearBits(c.bus, c.layout.Base+g.en, 1<<g.enBit)
	c.log.Debug("peripheral clock disabled", zap.Stringer("periph", p))
	return nil
}

func (c *Controller) IsEnabled(p types.Peripheral) (bool, error) {
	g, ok := c.layout.gate(p)
	if !ok {
		return false, c.notPresent("rcc_is_enabled", p)
	}
	return regs.HasBits(c.bus, c.layout.Base+g.en, 1<<g.enBit), nil
}

// Reset pulses p's reset line (assert then release).
func (c *Controller) Reset(p types.Peripheral) error {
	g, ok := c.layout.gate(p)
	if !ok {
		return c.notPresent("rcc_reset", p)
	}
	addr := c.layout.Base + g.rst
	regs.SetBits(c.bus, addr, 1<<g.rstBit)
	regs.ClearBits(c.bus, addr, 1<<g.rstBit)
	return nil
}

func (c *Controller) SysClockFreq() uint32 { return c.clk.SYSCLK }
func (c *Controller) HCLKFreq() uint32     { return c.clk.HCLK }
func (c *Controller) PCLK1Freq() uint32    { return c.clk.PCLK1 }
func (c *Controller) PCLK2Freq() uint32    { return c.clk.PCLK2 }

// BusFreq returns the frequency of a clock domain.
func (c *Controller) BusFreq(b types.Bus) (uint32, error) {
	switch b {
	case types.BusAHB1, types.BusAHB2, types.BusAHB3:
		return c.clk.HCLK, nil
	case types.BusAPB1:
		return c.clk.PCLK1, nil
	case types.BusAPB2:
		return c.clk.PCLK2, nil
	default:
		return 0, &errcode.E{C: errcode.InvalidParams, Op: "rcc_bus_freq", Msg: b.String()}
	}
}

// PeripheralFreq returns the kernel clock of p, or 0 while p is disabled.
// Timers on a divided APB run at twice the bus clock.
func (c *Controller) PeripheralFreq(p types.Peripheral) (uint32, error) {
	g, ok := c.layout.gate(p)
	if !ok {
		return 0, c.notPresent("rcc_periph_freq", p)
	}
	if !regs.HasBits(c.bus, c.layout.Base+g.en, 1<<g.enBit) {
		return 0, nil
	}
	f, err := c.BusFreq(g.bus)
	if err != nil {
		return 0, err
	}
	if isTimer(p) && (g.bus == types.BusAPB1 || g.bus == types.BusAPB2) && f < c.clk.HCLK {
		f *= 2
	}
	return f, nil
}

// Present lists the peripherals this family provides, in id order.
func (c *Controller) Present() []types.Peripheral {
	var out []types.Peripheral
	for p := types.Peripheral(0); p < types.PeriphCount; p++ {
		if c.layout.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

func isTimer(p types.Peripheral) bool {
	return p >= types.PeriphTIM1 && p <= types.PeriphTIM8
}
