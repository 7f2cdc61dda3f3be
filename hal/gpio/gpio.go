// Package gpio implements the portable GPIO interface for STM32 GPIO ports
// (the MODER/OTYPER/OSPEEDR/PUPDR/IDR/ODR/AFR register block shared by the
// L4 and F4 families).
package gpio

import (
	"go.uber.org/zap"

	"boardcode-go/errcode"
	"boardcode-go/hal/regs"
	"boardcode-go/types"
)

// Register offsets within a port block.
const (
	offMODER   = 0x00
	offOTYPER  = 0x04
	offOSPEEDR = 0x08
	offPUPDR   = 0x0C
	offIDR     = 0x10
	offODR     = 0x14
	offAFRL    = 0x20
	offAFRH    = 0x24
)

// MODER field values.
const (
	moderInput  = 0b00
	moderOutput = 0b01
	moderAF     = 0b10
	moderAnalog = 0b11
)

// ClockGate is the slice of the RCC HAL the GPIO driver needs.
type ClockGate interface {
	Enable(p types.Peripheral) error
	Disable(p types.Peripheral) error
}

type portMap struct {
	base   uint32
	stride uint32
	count  uint8
	// MODER value a pin returns to on deinit.
	resetMode uint32
}

func portMapFor(f types.MCUFamily) (portMap, bool) {
	switch f {
	case types.FamilySTM32L4:
		return portMap{base: 0x48000000, stride: 0x400, count: 8, resetMode: moderAnalog}, true
	case types.FamilySTM32F4:
		return portMap{base: 0x40020000, stride: 0x400, count: 9, resetMode: moderInput}, true
	default:
		return portMap{}, false
	}
}

// Driver is the register-level GPIO driver for one MCU.
type Driver struct {
	bus   regs.Bus
	gate  ClockGate
	pm    portMap
	ports []types.Port
	log   *zap.Logger
}

type Option func(*Driver)

func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.log = l
		}
	}
}

// New creates the driver and its port handles. The handles exist from here on;
// their clocks are not enabled.
func New(b regs.Bus, f types.MCUFamily, gate ClockGate, opts ...Option) (*Driver, error) {
	pm, ok := portMapFor(f)
	if !ok {
		return nil, &errcode.E{C: errcode.Unsupported, Op: "gpio_new", Msg: f.String()}
	}
	d := &Driver{bus: b, gate: gate, pm: pm, log: zap.NewNop()}
	for _, o := range opts {
		o(d)
	}
	d.ports = make([]types.Port, pm.count)
	for i := uint8(0); i < pm.count; i++ {
		d.ports[i] = types.Port{
			Name:  "GPIO" + string(rune('A'+i)),
			Index: i,
			Base:  pm.base + uint32(i)*pm.stride,
		}
	}
	return d, nil
}

// Port returns the shared handle for a port name such as "GPIOB".
func (d *Driver) Port(name string) (*types.Port, error) {
	for i := range d.ports {
		if d.ports[i].Name == name {
			return &d.ports[i], nil
		}
	}
	return nil, &errcode.E{C: errcode.PortNotFound, Op: "gpio_port", Msg: name}
}

// PortByIndex returns the handle for index i (0 = GPIOA).
func (d *Driver) PortByIndex(i int) (*types.Port, error) {
	if i < 0 || i >= len(d.ports) {
		return nil, &errcode.E{C: errcode.PortNotFound, Op: "gpio_port_by_index"}
	}
	return &d.ports[i], nil
}

// Ports returns copies of all port handles.
func (d *Driver) Ports() []types.Port {
	return append([]types.Port(nil), d.ports...)
}

func check(op string, p *types.Port, pin uint16) error {
	if p == nil {
		return &errcode.E{C: errcode.InvalidParams, Op: op, Msg: "nil port"}
	}
	if pin > types.MaxPin {
		return &errcode.E{C: errcode.InvalidPin, Op: op}
	}
	return nil
}

func (d *Driver) EnablePortClock(p *types.Port) error {
	if p == nil {
		return &errcode.E{C: errcode.InvalidParams, Op: "gpio_enable_clock", Msg: "nil port"}
	}
	id, ok := types.GPIOPeripheral(p.Index)
	if !ok {
		return &errcode.E{C: errcode.PortNotFound, Op: "gpio_enable_clock", Msg: p.Name}
	}
	return d.gate.Enable(id)
}

func (d *Driver) DisablePortClock(p *types.Port) error {
	if p == nil {
		return &errcode.E{C: errcode.InvalidParams, Op: "gpio_disable_clock", Msg: "nil port"}
	}
	id, ok := types.GPIOPeripheral(p.Index)
	if !ok {
		return &errcode.E{C: errcode.PortNotFound, Op: "gpio_disable_clock", Msg: p.Name}
	}
	return d.gate.Disable(id)
}

func moderFor(m types.Mode) (uint32, bool) {
	switch m {
	case types.ModeInput, types.ModeITRising, types.ModeITFalling, types.ModeITRisingFalling:
		return moderInput, true
	case types.ModeOutputPP, types.ModeOutputOD:
		return moderOutput, true
	case types.ModeAFPP, types.ModeAFOD:
		return moderAF, true
	case types.ModeAnalog:
		return moderAnalog, true
	default:
		return 0, false
	}
}

// Init applies cfg to one pin of p.
func (d *Driver) Init(p *types.Port, cfg types.GPIOConfig) error {
	if err := check("gpio_init", p, cfg.Pin); err != nil {
		return err
	}
	moder, ok := moderFor(cfg.Mode)
	if !ok || cfg.Pull > types.PullDown || cfg.Speed > types.SpeedVeryHigh || cfg.Alternate > 15 {
		return &errcode.E{C: errcode.InvalidParams, Op: "gpio_init", Msg: "bad mode/pull/speed/af"}
	}
	pin := uint32(cfg.Pin)
	two := pin * 2

	if moder == moderAF {
		afr, shift := uint32(offAFRL), pin*4
		if pin >= 8 {
			afr, shift = offAFRH, (pin-8)*4
		}
		regs.ReplaceBits(d.bus, p.Base+afr, 0xF<<shift, uint32(cfg.Alternate)<<shift)
	}
	if moder == moderOutput || moder == moderAF {
		regs.ReplaceBits(d.bus, p.Base+offOSPEEDR, 0b11<<two, uint32(cfg.Speed)<<two)
		if cfg.Mode == types.ModeOutputOD || cfg.Mode == types.ModeAFOD {
			regs.SetBits(d.bus, p.Base+offOTYPER, 1<<pin)
		} else {
			regs.ClearBits(d.bus, p.Base+offOTYPER, 1<<pin)
		}
	}
	if moder != moderAnalog {
		regs.ReplaceBits(d.bus, p.Base+offPUPDR, 0b11<<two, uint32(cfg.Pull)<<two)
	}
	regs.ReplaceBits(d.bus, p.Base+offMODER, 0b11<<two, moder<<two)

	d.log.Debug("pin configured",
		zap.String("port", p.Name),
		zap.Uint16("pin", cfg.Pin),
		zap.Stringer("mode", cfg.Mode),
		zap.Stringer("pull", cfg.Pull))
	return nil
}

// Deinit returns a pin to its reset configuration.
func (d *Driver) Deinit(p *types.Port, pin uint16) error {
	if err := check("gpio_deinit", p, pin); err != nil {
		return err
	}
	n := uint32(pin)
	two := n * 2
	regs.ReplaceBits(d.bus, p.Base+offMODER, 0b11<<two, d.pm.resetMode<<two)
	regs.ClearBits(d.bus, p.Base+offOTYPER, 1<<n)
	regs.ClearBits(d.bus, p.Base+offOSPEEDR, 0b11<<two)
	regs.ClearBits(d.bus, p.Base+offPUPDR, 0b11<<two)
	if n < 8 {
		regs.ClearBits(d.bus, p.Base+offAFRL, 0xF<<(n*4))
	} else {
		regs.ClearBits(d.bus, p.Base+offAFRH, 0xF<<((n-8)*4))
	}
	return nil
}

// ReadPin returns the output latch for output pins and the input level otherwise.
func (d *Driver) ReadPin(p *types.Port, pin uint16) (types.PinState, error) {
	if err := check("gpio_read", p, pin); err != nil {
		return types.PinReset, err
	}
	n := uint32(pin)
	reg := uint32(offIDR)
	if (d.bus.Read(p.Base+offMODER)>>(n*2))&0b11 == moderOutput {
		reg = offODR
	}
	return types.StateOf(d.bus.Read(p.Base+reg)&(1<<n) != 0), nil
}

func (d *Driver) WritePin(p *types.Port, pin uint16, s types.PinState) error {
	if err := check("gpio_write", p, pin); err != nil {
		return err
	}
	d.writeMask(p, 1<<pin, s)
	return nil
}

func (d *Driver) TogglePin(p *types.Port, pin uint16) error {
	if err := check("gpio_toggle", p, pin); err != nil {
		return err
	}
	d.toggleMask(p, 1<<pin)
	return nil
}

// WritePins drives every pin in mask to s.
func (d *Driver) WritePins(p *types.Port, mask uint16, s types.PinState) error {
	if p == nil {
		return &errcode.E{C: errcode.InvalidParams, Op: "gpio_write_pins", Msg: "nil port"}
	}
	d.writeMask(p, mask, s)
	return nil
}

// TogglePins inverts every pin in mask.
func (d *Driver) TogglePins(p *types.Port, mask uint16) error {
	if p == nil {
		return &errcode.E{C: errcode.InvalidParams, Op: "gpio_toggle_pins", Msg: "nil port"}
	}
	d.toggleMask(p, mask)
	return nil
}

func (d *Driver) writeMask(p *types.Port, mask uint16, s types.PinState) {
	if s == types.PinSet {
		regs.SetBits(d.bus, p.Base+offODR, uint32(mask))
	} else {
		regs.ClearBits(d.bus, p.Base+offODR, uint32(mask))
	}
}

func (d *Driver) toggleMask(p *types.Port, mask uint16) {
	addr := p.Base + offODR
	d.bus.Write(addr, d.bus.Read(addr)^uint32(mask))
}

// ReadPort returns the 16 input levels of p.
func (d *Driver) ReadPort(p *types.Port) (uint16, error) {
	if p == nil {
		return 0, &errcode.E{C: errcode.InvalidParams, Op: "gpio_read_port", Msg: "nil port"}
	}
	return uint16(d.bus.Read(p.Base + offIDR)), nil
}

// WritePort replaces the whole output register of p.
func (d *Driver) WritePort(p *types.Port, v uint16) error {
	if p == nil {
		return &errcode.E{C: errcode.InvalidParams, Op: "gpio_write_port", Msg: "nil port"}
	}
	d.bus.Write(p.Base+offODR, uint32(v))
	return nil
}
