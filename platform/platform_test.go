//go:build !stm32

package platform

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"boardcode-go/bsp/boards"
	"boardcode-go/errcode"
	"boardcode-go/hal/regs"
	"boardcode-go/periph"
	"boardcode-go/types"
)

func TestOpenWiresBoard(t *testing.T) {
	m := regs.NewModel()
	sys, err := Open(boards.STM32F4Discovery, WithBus(m), WithLogger(zaptest.NewLogger(t)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if sys.BSP.MCUFamily() != types.FamilySTM32F4 || sys.Bus != m {
		t.Fatal("system not wired to the requested board and bus")
	}
	if err := sys.BSP.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if f, _ := sys.RCC.PeripheralFreq(types.PeriphUSART2); f != 42_000_000 {
		t.Fatalf("debug USART2 clock = %d", f)
	}
	if _, err := sys.GPIO.Port("GPIOI"); err != nil {
		t.Fatalf("F4 has GPIOI: %v", err)
	}
}

func TestOpenUnknownBoard(t *testing.T) {
	if _, err := Open("NO-SUCH-BOARD"); !errors.Is(err, errcode.UnknownBoard) {
		t.Fatalf("err = %v", err)
	}
}

func TestHostBusesThroughPeriph(t *testing.T) {
	sys, err := Open(boards.NucleoL432KC)
	if err != nil {
		t.Fatal(err)
	}
	i2c, err := periph.OpenI2C(sys.BSP, 0, sys.I2C)
	if err != nil {
		t.Fatalf("OpenI2C: %v", err)
	}
	r := []byte{0xFF, 0xFF}
	if err := i2c.Tx(0x38, []byte{0xAC}, r); err != nil {
		t.Fatal(err)
	}
	h := i2c.(*HostI2C)
	if h.LastTx.Addr != 0x38 || h.LastTx.Rn != 2 || r[0] != 0 {
		t.Fatalf("last tx = %+v, r = %v", h.LastTx, r)
	}

	spi, err := periph.OpenSPI(sys.BSP, 0, sys.SPI)
	if err != nil {
		t.Fatalf("OpenSPI: %v", err)
	}
	if b, _ := spi.Transfer(0x5A); b != 0x5A {
		t.Fatalf("loopback = %#x", b)
	}
}
