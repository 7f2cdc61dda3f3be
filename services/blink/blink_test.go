package blink

import (
	"context"
	"errors"
	"testing"

	"boardcode-go/rtos"
	"boardcode-go/services/config"
)

type fakeLED struct{ calls []string }

func (l *fakeLED) record(c string) error {
	l.calls = append(l.calls, c)
	return nil
}

func (l *fakeLED) On() error     { return l.record("on") }
func (l *fakeLED) Off() error    { return l.record("off") }
func (l *fakeLED) Toggle() error { return l.record("toggle") }

// stepDelayer records delays and cancels the task after n of them.
type stepDelayer struct {
	n      int
	delays []uint32
	cancel context.CancelFunc
	onStep func(i int)
}

func (d *stepDelayer) Delay(ctx context.Context, ms uint32) error {
	d.delays = append(d.delays, ms)
	if d.onStep != nil {
		d.onStep(len(d.delays))
	}
	if len(d.delays) >= d.n {
		d.cancel()
	}
	return ctx.Err()
}

func run(t *testing.T, task *Task, d *stepDelayer) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	if err := task.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v", err)
	}
}

func TestToggleMode(t *testing.T) {
	led := &fakeLED{}
	d := &stepDelayer{n: 3}
	app := config.Defaults()
	app.BlinkPeriodMS = 500
	run(t, New(led, d, app), d)

	want := []string{"toggle", "toggle", "toggle", "off"}
	if len(led.calls) != len(want) {
		t.Fatalf("calls = %v", led.calls)
	}
	for i := range want {
		if led.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", led.calls, want)
		}
	}
	for _, ms := range d.delays {
		if ms != 500 {
			t.Fatalf("delays = %v", d.delays)
		}
	}
}

func TestOnOffModeSplitsPeriod(t *testing.T) {
	led := &fakeLED{}
	d := &stepDelayer{n: 2}
	app := config.Defaults()
	app.ToggleMode = false
	app.BlinkPeriodMS = 301
	run(t, New(led, d, app), d)

	if d.delays[0] != 150 || d.delays[1] != 151 {
		t.Fatalf("delays = %v", d.delays)
	}
	if led.calls[0] != "on" || led.calls[1] != "off" {
		t.Fatalf("calls = %v", led.calls)
	}
}

func TestFollowsConfigUpdates(t *testing.T) {
	h := rtos.NewHub(2)
	led := &fakeLED{}
	d := &stepDelayer{n: 3}
	d.onStep = func(i int) {
		if i == 1 {
			a := config.Defaults()
			a.BlinkPeriodMS = 100
			config.Publish(h, a)
		}
	}
	run(t, New(led, d, config.Defaults(), WithHub(h)), d)

	if d.delays[0] != 500 || d.delays[1] != 100 {
		t.Fatalf("delays = %v", d.delays)
	}
}
