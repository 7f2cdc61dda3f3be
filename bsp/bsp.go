// Package bsp is the board support layer: static board tables, pin lookup by
// name or function, and application of pin configuration through the GPIO and
// RCC HAL.
//
// The BSP applies no locking around hardware read-modify-write sequences. A
// port or peripheral clock register is assumed to be touched by one task at a
// time (init runs before the scheduler starts).
package bsp

import (
	"context"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"boardcode-go/errcode"
	"boardcode-go/types"
)

// GPIO is the portable GPIO HAL as consumed by the BSP and applications.
type GPIO interface {
	Port(name string) (*types.Port, error)
	Init(p *types.Port, cfg types.GPIOConfig) error
	Deinit(p *types.Port, pin uint16) error
	ReadPin(p *types.Port, pin uint16) (types.PinState, error)
	WritePin(p *types.Port, pin uint16, s types.PinState) error
	TogglePin(p *types.Port, pin uint16) error
	EnablePortClock(p *types.Port) error
	DisablePortClock(p *types.Port) error
}

// RCC is the portable clock-control HAL as consumed by the BSP.
type RCC interface {
	Configure(clk types.ClockDescriptor) error
	Enable(p types.Peripheral) error
	Disable(p types.Peripheral) error
	IsEnabled(p types.Peripheral) (bool, error)
	PeripheralFreq(p types.Peripheral) (uint32, error)
	SysClockFreq() uint32
}

// Clock provides the millisecond tick and blocking delay.
type Clock interface {
	Tick() uint32
	Sleep(ms uint32)
}

// Extras is the MCU/board specific part of a board table (BoardDescriptor.MCUData).
type Extras struct {
	// DebugUART is the USART behind the debug console; zero value with
	// HasDebugUART false means the board has none.
	DebugUART    types.Peripheral
	HasDebugUART bool
	DebugTX      string // pin names in the board table
	DebugRX      string
	FlashBase    uint32
}

// Status codes returned (through errcode.E) by the init paths.
const (
	StatusHAL       = -1
	StatusClock     = -2
	StatusDebugUART = -3
)

// Status codes for ConfigurePin, one per failing step.
const (
	StatusNilPin       = -1
	StatusPortNotFound = -2
	StatusPortClock    = -3
	StatusGPIOInit     = -4
)

// BSP binds one board table to HAL implementations.
type BSP struct {
	board *types.BoardDescriptor
	gpio  GPIO
	rcc   RCC
	clock Clock
	log   *zap.Logger

	// Bookkeeping for Deinit only; hardware access is not serialised.
	mu      sync.Mutex
	ports   map[string]*types.Port
	periphs map[types.Peripheral]struct{}
}

type Option func(*BSP)

func WithLogger(l *zap.Logger) Option {
	return func(b *BSP) {
		if l != nil {
			b.log = l
		}
	}
}

// New binds board to the given HAL. The board table is copied.
func New(board *types.BoardDescriptor, gpio GPIO, rcc RCC, clock Clock, opts ...Option) (*BSP, error) {
	if board == nil || gpio == nil || rcc == nil || clock == nil {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "bsp_new", Msg: "missing board or HAL"}
	}
	b := &BSP{
		board:   clone(board),
		gpio:    gpio,
		rcc:     rcc,
		clock:   clock,
		log:     zap.NewNop(),
		ports:   make(map[string]*types.Port),
		periphs: make(map[types.Peripheral]struct{}),
	}
	for _, o := range opts {
		o(b)
	}
	b.log = b.log.With(zap.String("board", b.board.Name))
	return b, nil
}

// Init checks the board table against the HAL, records the clock targets and
// brings up the debug UART. Errors carry StatusHAL, StatusClock or
// StatusDebugUART and are meant to halt start-up.
func (b *BSP) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errcode.Wrap("bsp_init", errcode.InitFailed, StatusHAL, err)
	}
	for _, p := range b.board.Pins {
		if p.Pin > types.MaxPin {
			return &errcode.E{C: errcode.InvalidPin, Op: "bsp_init", Status: StatusHAL, Msg: p.Name}
		}
		if _, err := b.gpio.Port(p.Port); err != nil {
			return errcode.Wrap("bsp_init", errcode.PortNotFound, StatusHAL, err)
		}
	}

	if b.board.Clock == nil {
		return &errcode.E{C: errcode.ClockFailed, Op: "bsp_init", Status: StatusClock, Msg: "board has no clock table"}
	}
	if err := b.rcc.Configure(*b.board.Clock); err != nil {
		return errcode.Wrap("bsp_init", errcode.ClockFailed, StatusClock, err)
	}

	if err := b.InitDebugUART(); err != nil {
		return errcode.Wrap("bsp_init", errcode.InitFailed, StatusDebugUART, err)
	}

	b.log.Info("bsp initialised",
		zap.String("mcu", b.board.MCU),
		zap.Stringer("family", b.board.Family),
		zap.Uint32("sysclk_hz", b.rcc.SysClockFreq()))
	return nil
}

// InitDebugUART enables the debug USART clock and configures its pins.
// Boards without a debug UART, or whose table lacks either pin, are skipped.
func (b *BSP) InitDebugUART() error {
	x, ok := b.board.MCUData.(*Extras)
	if !ok || x == nil || !x.HasDebugUART {
		return nil
	}
	if err := b.rcc.Enable(x.DebugUART); err != nil {
		return err
	}
	b.track(nil, x.DebugUART)

	tx, errTX := b.PinConfig(x.DebugTX)
	rx, errRX := b.PinConfig(x.DebugRX)
	if errTX != nil || errRX != nil {
		b.log.Warn("debug uart pins missing from board table",
			zap.String("tx", x.DebugTX), zap.String("rx", x.DebugRX))
		return nil
	}
	if err := b.ConfigurePin(&tx); err != nil {
		return err
	}
	return b.ConfigurePin(&rx)
}

// Config returns a copy of the board table.
func (b *BSP) Config() types.BoardDescriptor { return *clone(b.board) }

// Pins returns the pin table in source order.
func (b *BSP) Pins() []types.PinDescriptor {
	return append([]types.PinDescriptor(nil), b.board.Pins...)
}

// PinConfig returns the pin with exactly this name.
func (b *BSP) PinConfig(name string) (types.PinDescriptor, error) {
	for _, p := range b.board.Pins {
		if p.Name == name {
			return p, nil
		}
	}
	return types.PinDescriptor{}, &errcode.E{C: errcode.PinNotFound, Op: "bsp_get_pin_config", Msg: name}
}

// PinConfigByFunction returns the instance-th pin (0-based, table order)
// tagged with fn.
func (b *BSP) PinConfigByFunction(fn types.PinFunction, instance int) (types.PinDescriptor, error) {
	if instance >= 0 {
		seen := 0
		for _, p := range b.board.Pins {
			if p.Function != fn {
				continue
			}
			if seen == instance {
				return p, nil
			}
			seen++
		}
	}
	return types.PinDescriptor{}, &errcode.E{C: errcode.PinNotFound, Op: "bsp_get_pin_config_by_function", Msg: fn.String()}
}

// PolicyFor derives the GPIO configuration the BSP applies for a pin's function.
func PolicyFor(d types.PinDescriptor) types.GPIOConfig {
	cfg := types.GPIOConfig{
		Pin:       d.Pin,
		Mode:      types.ModeInput,
		Pull:      types.PullNone,
		Speed:     types.SpeedLow,
		Alternate: d.AltFunc,
	}
	switch d.Function {
	case types.FuncLED:
		cfg.Mode = types.ModeOutputPP
	case types.FuncDebugTX, types.FuncUARTTX, types.FuncSPISCK, types.FuncSPIMOSI,
		types.FuncI2CSCL, types.FuncI2CSDA:
		cfg.Mode = types.ModeAFPP
		cfg.Speed = types.SpeedHigh
	case types.FuncDebugRX, types.FuncUARTRX, types.FuncSPIMISO:
		cfg.Mode = types.ModeAFPP
		cfg.Pull = types.PullUp
	case types.FuncButton:
		if d.ActiveHigh {
			cfg.Pull = types.PullDown
		} else {
			cfg.Pull = types.PullUp
		}
	}
	return cfg
}

// ConfigurePin resolves the pin's port, enables the port clock and applies
// PolicyFor(*d). A failing step is reported with its own status; nothing
// already applied is rolled back.
func (b *BSP) ConfigurePin(d *types.PinDescriptor) error {
	const op = "bsp_configure_pin"
	if d == nil {
		return &errcode.E{C: errcode.InvalidParams, Op: op, Status: StatusNilPin, Msg: "nil descriptor"}
	}
	port, err := b.gpio.Port(d.Port)
	if err != nil {
		return errcode.Wrap(op, errcode.PortNotFound, StatusPortNotFound, err)
	}
	if err := b.gpio.EnablePortClock(port); err != nil {
		return errcode.Wrap(op, errcode.ClockFailed, StatusPortClock, err)
	}
	b.track(port, 0)

	cfg := PolicyFor(*d)
	if err := b.gpio.Init(port, cfg); err != nil {
		return errcode.Wrap(op, errcode.ConfigFailed, StatusGPIOInit, err)
	}
	b.log.Debug("pin applied",
		zap.String("pin", d.Name),
		zap.Stringer("function", d.Function),
		zap.Stringer("mode", cfg.Mode))
	return nil
}

func (b *BSP) track(port *types.Port, p types.Peripheral) {
	b.mu.Lock()
	if port != nil {
		b.ports[port.Name] = port
	} else {
		b.periphs[p] = struct{}{}
	}
	b.mu.Unlock()
}

// Deinit disables every clock this BSP enabled. All failures are reported.
func (b *BSP) Deinit() error {
	b.mu.Lock()
	ports := b.ports
	periphs := b.periphs
	b.ports = make(map[string]*types.Port)
	b.periphs = make(map[types.Peripheral]struct{})
	b.mu.Unlock()

	var err error
	for _, p := range ports {
		err = multierr.Append(err, b.gpio.DisablePortClock(p))
	}
	for p := range periphs {
		err = multierr.Append(err, b.rcc.Disable(p))
	}
	return err
}

func (b *BSP) MCUFamily() types.MCUFamily { return b.board.Family }
func (b *BSP) MCUName() string            { return b.board.MCU }
func (b *BSP) BoardName() string          { return b.board.Name }

// DelayMS blocks for ms milliseconds. It cannot be cancelled.
func (b *BSP) DelayMS(ms uint32) { b.clock.Sleep(ms) }

// Tick returns the millisecond tick count.
func (b *BSP) Tick() uint32 { return b.clock.Tick() }

func (b *BSP) GPIO() GPIO { return b.gpio }
func (b *BSP) RCC() RCC   { return b.rcc }
