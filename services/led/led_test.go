package led_test

import (
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"boardcode-go/bsp"
	"boardcode-go/bsp/boards"
	"boardcode-go/errcode"
	"boardcode-go/hal/gpio"
	"boardcode-go/hal/rcc"
	"boardcode-go/hal/regs"
	"boardcode-go/services/led"
	"boardcode-go/types"
)

type nopClock struct{}

func (nopClock) Tick() uint32 { return 0 }
func (nopClock) Sleep(uint32) {}

func newBoard(t *testing.T, d *types.BoardDescriptor) (*bsp.BSP, *regs.Model) {
	t.Helper()
	m := regs.NewModel()
	rc, _ := rcc.New(m, d.Family)
	g, _ := gpio.New(m, d.Family, rc)
	b, err := bsp.New(d, g, rc, nopClock{})
	if err != nil {
		t.Fatal(err)
	}
	return b, m
}

const l4GPIOBODR = 0x48000400 + 0x14

func TestActiveHighLED(t *testing.T) {
	d, _ := bsp.LookupBoard(boards.NucleoL432KC)
	b, m := newBoard(t, d)
	c, err := led.New(b, 0, led.WithLogger(zaptest.NewLogger(t)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Name() != "LED_USER" {
		t.Fatalf("name = %q", c.Name())
	}
	if err := c.On(); err != nil {
		t.Fatal(err)
	}
	if !m.IsBitSet(l4GPIOBODR, 1<<3) {
		t.Fatal("PB3 not driven high")
	}
	if on, _ := c.IsOn(); !on {
		t.Fatal("IsOn = false after On")
	}
	_ = c.Toggle()
	if on, _ := c.IsOn(); on || m.IsBitSet(l4GPIOBODR, 1<<3) {
		t.Fatal("toggle did not switch the LED off")
	}
}

func TestActiveLowLED(t *testing.T) {
	d, _ := bsp.LookupBoard(boards.NucleoL432KC)
	d.Pins[0].ActiveHigh = false
	b, m := newBoard(t, d)
	c, err := led.New(b, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !m.IsBitSet(l4GPIOBODR, 1<<3) {
		t.Fatal("active-low LED must idle high (off)")
	}
	_ = c.On()
	if m.IsBitSet(l4GPIOBODR, 1<<3) {
		t.Fatal("active-low LED on must drive low")
	}
	if on, _ := c.IsOn(); !on {
		t.Fatal("IsOn = false")
	}
}

func TestMissingLED(t *testing.T) {
	d, _ := bsp.LookupBoard(boards.NucleoL432KC)
	b, _ := newBoard(t, d)
	if _, err := led.New(b, 2); !errors.Is(err, errcode.PinNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestNilControllerIsNoOp(t *testing.T) {
	var c *led.Controller
	if c.On() != nil || c.Off() != nil || c.Toggle() != nil {
		t.Fatal("nil controller returned an error")
	}
	if on, err := c.IsOn(); on || err != nil {
		t.Fatal("nil controller reports lit")
	}
}
