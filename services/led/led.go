// Package led drives a board LED resolved through the BSP by function.
package led

import (
	"go.uber.org/zap"

	"boardcode-go/bsp"
	"boardcode-go/types"
)

// Board is what the controller needs from the BSP.
type Board interface {
	PinConfigByFunction(fn types.PinFunction, instance int) (types.PinDescriptor, error)
	ConfigurePin(d *types.PinDescriptor) error
	GPIO() bsp.GPIO
}

// Controller switches one LED. It hides the pin polarity: On always lights
// the LED. A nil *Controller is valid and every call on it is a no-op.
type Controller struct {
	gpio       bsp.GPIO
	port       *types.Port
	pin        uint16
	name       string
	activeHigh bool
	log        *zap.Logger
}

type Option func(*Controller)

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// New resolves the instance-th LED of the board, configures its pin and
// leaves it off.
func New(b Board, instance int, opts ...Option) (*Controller, error) {
	d, err := b.PinConfigByFunction(types.FuncLED, instance)
	if err != nil {
		return nil, err
	}
	if err := b.ConfigurePin(&d); err != nil {
		return nil, err
	}
	port, err := b.GPIO().Port(d.Port)
	if err != nil {
		return nil, err
	}
	c := &Controller{
		gpio:       b.GPIO(),
		port:       port,
		pin:        d.Pin,
		name:       d.Name,
		activeHigh: d.ActiveHigh,
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	if err := c.Off(); err != nil {
		return nil, err
	}
	c.log.Info("led ready", zap.String("pin", d.Name), zap.String("port", d.Port), zap.Uint16("n", d.Pin))
	return c, nil
}

func (c *Controller) level(on bool) types.PinState {
	return types.StateOf(on == c.activeHigh)
}

func (c *Controller) Set(on bool) error {
	if c == nil || c.port == nil {
		return nil
	}
	return c.gpio.WritePin(c.port, c.pin, c.level(on))
}

func (c *Controller) On() error  { return c.Set(true) }
func (c *Controller) Off() error { return c.Set(false) }

func (c *Controller) Toggle() error {
	if c == nil || c.port == nil {
		return nil
	}
	return c.gpio.TogglePin(c.port, c.pin)
}

// IsOn reads the pin back and reports whether the LED is lit.
func (c *Controller) IsOn() (bool, error) {
	if c == nil || c.port == nil {
		return false, nil
	}
	s, err := c.gpio.ReadPin(c.port, c.pin)
	if err != nil {
		return false, err
	}
	return (s == types.PinSet) == c.activeHigh, nil
}

func (c *Controller) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}
