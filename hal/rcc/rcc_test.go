package rcc

import (
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"boardcode-go/errcode"
	"boardcode-go/hal/regs"
	"boardcode-go/types"
)

const (
	l4AHB2ENR = 0x40021000 + 0x4C
	l4APB1RST = 0x40021000 + 0x38
	f4AHB1ENR = 0x40023800 + 0x30
)

var l4Clock = types.ClockDescriptor{HSI: 16_000_000, SYSCLK: 80_000_000, HCLK: 80_000_000, PCLK1: 80_000_000, PCLK2: 80_000_000}
var f4Clock = types.ClockDescriptor{HSE: 8_000_000, SYSCLK: 168_000_000, HCLK: 168_000_000, PCLK1: 42_000_000, PCLK2: 84_000_000}

func newL4(t *testing.T) (*Controller, *regs.Model) {
	t.Helper()
	m := regs.NewModel()
	c, err := New(m, types.FamilySTM32L4, WithLogger(zaptest.NewLogger(t)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Configure(l4Clock); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	return c, m
}

func TestEnableSetsGPIOBBitOnL4(t *testing.T) {
	c, m := newL4(t)
	if err := c.Enable(types.PeriphGPIOB); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if !m.IsBitSet(l4AHB2ENR, 1<<1) {
		t.Fatalf("AHB2ENR = %#x, GPIOBEN not set", m.Value(l4AHB2ENR))
	}
	on, err := c.IsEnabled(types.PeriphGPIOB)
	if err != nil || !on {
		t.Fatalf("IsEnabled = %v, %v", on, err)
	}
}

func TestEnableDisableIdempotent(t *testing.T) {
	c, m := newL4(t)
	_ = c.Enable(types.PeriphGPIOA)
	once := m.Value(l4AHB2ENR)
	_ = c.Enable(types.PeriphGPIOA)
	if m.Value(l4AHB2ENR) != once {
		t.Fatalf("second enable changed state: %#x -> %#x", once, m.Value(l4AHB2ENR))
	}
	_ = c.Disable(types.PeriphGPIOA)
	_ = c.Disable(types.PeriphGPIOA)
	if m.Value(l4AHB2ENR) != 0 {
		t.Fatalf("after double disable = %#x", m.Value(l4AHB2ENR))
	}
}

func TestAbsentPeripheralFails(t *testing.T) {
	c, m := newL4(t)
	for name, err := range map[string]error{
		"enable":  c.Enable(types.PeriphGPIOI),
		"disable": c.Disable(types.PeriphADC2),
		"reset":   c.Reset(types.PeriphADC3),
		"bogus":   c.Enable(types.PeriphCount),
	} {
		if !errors.Is(err, errcode.PeripheralNotPresent) {
			t.Fatalf("%s: err = %v", name, err)
		}
	}
	if _, err := c.IsEnabled(types.PeriphGPIOI); !errors.Is(err, errcode.PeripheralNotPresent) {
		t.Fatalf("IsEnabled err = %v", err)
	}
	if len(m.Written()) != 0 {
		t.Fatal("failed operations must not touch registers")
	}
}

func TestResetPulsesLine(t *testing.T) {
	c, m := newL4(t)
	if err := c.Reset(types.PeriphUSART2); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if !m.WasWritten(l4APB1RST) {
		t.Fatal("reset register never written")
	}
	if m.IsBitSet(l4APB1RST, 1<<17) {
		t.Fatal("reset left asserted")
	}
}

func TestFrequencies(t *testing.T) {
	m := regs.NewModel()
	c, err := New(m, types.FamilySTM32F4)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Configure(f4Clock); err != nil {
		t.Fatal(err)
	}
	if c.SysClockFreq() != 168_000_000 || c.HCLKFreq() != 168_000_000 ||
		c.PCLK1Freq() != 42_000_000 || c.PCLK2Freq() != 84_000_000 {
		t.Fatal("bus frequency getters wrong")
	}

	f, err := c.PeripheralFreq(types.PeriphUSART2)
	if err != nil || f != 0 {
		t.Fatalf("disabled USART2 freq = %d, %v", f, err)
	}
	_ = c.Enable(types.PeriphUSART2)
	if f, _ := c.PeripheralFreq(types.PeriphUSART2); f != 42_000_000 {
		t.Fatalf("USART2 = %d", f)
	}
	_ = c.Enable(types.PeriphTIM2)
	if f, _ := c.PeripheralFreq(types.PeriphTIM2); f != 84_000_000 {
		t.Fatalf("TIM2 = %d, want doubled APB1", f)
	}
	_ = c.Enable(types.PeriphGPIOI)
	if !m.IsBitSet(f4AHB1ENR, 1<<8) {
		t.Fatal("GPIOIEN not set on F4")
	}
	if f, _ := c.PeripheralFreq(types.PeriphGPIOI); f != 168_000_000 {
		t.Fatalf("GPIOI = %d", f)
	}
	if _, err := c.BusFreq(types.Bus(99)); !errors.Is(err, errcode.InvalidParams) {
		t.Fatalf("bad bus err = %v", err)
	}
}

func TestConfigureRejectsInconsistentTree(t *testing.T) {
	c, _ := newL4(t)
	bad := l4Clock
	bad.PCLK1 = 100_000_000
	if err := c.Configure(bad); !errors.Is(err, errcode.InvalidParams) {
		t.Fatalf("err = %v", err)
	}
	if c.PCLK1Freq() != 80_000_000 {
		t.Fatal("rejected config must not replace the previous one")
	}
}

func TestUnsupportedFamily(t *testing.T) {
	if _, err := New(regs.NewModel(), types.FamilySTM32H7); !errors.Is(err, errcode.Unsupported) {
		t.Fatalf("err = %v", err)
	}
}

func TestPresentListsFamilyPeripherals(t *testing.T) {
	c, _ := newL4(t)
	got := c.Present()
	for _, p := range got {
		if p == types.PeriphGPIOI || p == types.PeriphADC2 {
			t.Fatalf("%v listed on L4", p)
		}
	}
	if len(got) == 0 || got[0] != types.PeriphGPIOA {
		t.Fatalf("Present = %v", got)
	}
}
