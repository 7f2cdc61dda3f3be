// Package blink is the LED blink task.
package blink

import (
	"context"

	"go.uber.org/zap"

	"boardcode-go/rtos"
	"boardcode-go/services/config"
)

type LED interface {
	On() error
	Off() error
	Toggle() error
}

// Delayer is the kernel's cancellable task delay.
type Delayer interface {
	Delay(ctx context.Context, ms uint32) error
}

type Task struct {
	led    LED
	k      Delayer
	period uint32
	toggle bool
	hub    *rtos.Hub
	log    *zap.Logger
}

type Option func(*Task)

func WithLogger(l *zap.Logger) Option {
	return func(t *Task) {
		if l != nil {
			t.log = l
		}
	}
}

// WithHub lets the task follow config.TopicApp updates.
func WithHub(h *rtos.Hub) Option { return func(t *Task) { t.hub = h } }

func New(led LED, k Delayer, app config.App, opts ...Option) *Task {
	t := &Task{led: led, k: k, log: zap.NewNop()}
	t.apply(app)
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *Task) apply(a config.App) {
	t.period = a.BlinkPeriodMS
	if t.period == 0 {
		t.period = config.Defaults().BlinkPeriodMS
	}
	t.toggle = a.ToggleMode
}

// Run blinks until ctx is done. In toggle mode the LED changes state every
// period; otherwise it is on for half a period and off for the other half.
func (t *Task) Run(ctx context.Context) error {
	var updates <-chan rtos.Message
	if t.hub != nil {
		sub := t.hub.Subscribe(config.TopicApp)
		defer sub.Close()
		updates = sub.C()
	}
	defer t.led.Off()

	for {
		select {
		case m := <-updates:
			if a, ok := m.Payload.(config.App); ok {
				t.apply(a)
				t.log.Debug("blink reconfigured", zap.Uint32("period_ms", t.period), zap.Bool("toggle", t.toggle))
			}
		default:
		}

		if t.toggle {
			if err := t.led.Toggle(); err != nil {
				t.log.Warn("led toggle failed", zap.Error(err))
			}
			if err := t.k.Delay(ctx, t.period); err != nil {
				return err
			}
			continue
		}

		if err := t.led.On(); err != nil {
			t.log.Warn("led on failed", zap.Error(err))
		}
		if err := t.k.Delay(ctx, t.period/2); err != nil {
			return err
		}
		if err := t.led.Off(); err != nil {
			t.log.Warn("led off failed", zap.Error(err))
		}
		if err := t.k.Delay(ctx, t.period-t.period/2); err != nil {
			return err
		}
	}
}
