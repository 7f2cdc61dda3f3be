package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/inhies/go-bytesize"
	"gopkg.in/yaml.v2"

	"boardcode-go/bsp"
	"boardcode-go/bsp/boards"
	"boardcode-go/errcode"
	"boardcode-go/types"
)

const (
	hexExtFlash = ":020000040800F2\n"
	hexExtSRAM  = ":020000042000DA\n"
	hexData4    = ":04000000DEADBEEFC4\n"
	hexEOF      = ":00000001FF\n"
)

func TestCheckImageFits(t *testing.T) {
	d, _ := bsp.LookupBoard(boards.NucleoL432KC)
	fit, err := checkImage(d, strings.NewReader(hexExtFlash+hexData4+hexEOF))
	if err != nil {
		t.Fatalf("checkImage: %v", err)
	}
	if fit.Used != bytesize.ByteSize(4) || fit.Base != 0x08000000 || fit.Capacity != d.Flash {
		t.Fatalf("fit = %+v", fit)
	}
}

func TestCheckImageOutsideFlash(t *testing.T) {
	d, _ := bsp.LookupBoard(boards.NucleoL432KC)
	_, err := checkImage(d, strings.NewReader(hexExtSRAM+hexData4+hexEOF))
	if !errors.Is(err, errcode.ConfigFailed) {
		t.Fatalf("err = %v", err)
	}
}

func TestCheckImageGarbage(t *testing.T) {
	d, _ := bsp.LookupBoard(boards.NucleoL432KC)
	if _, err := checkImage(d, strings.NewReader("not a hex file\n")); !errors.Is(err, errcode.InvalidParams) {
		t.Fatalf("err = %v", err)
	}
}

func TestYAMLReport(t *testing.T) {
	d, _ := bsp.LookupBoard(boards.STM32F4Discovery)
	var buf bytes.Buffer
	if err := writeYAML(&buf, []boardReport{newReport(d)}); err != nil {
		t.Fatal(err)
	}
	var back []boardReport
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("yaml: %v\n%s", err, buf.String())
	}
	r := back[0]
	if r.Name != "STM32F4-Discovery" || r.Clock["sysclk"] != 168_000_000 || len(r.Pins) != 12 {
		t.Fatalf("report = %+v", r)
	}
	if r.Pins[0].Pin != "PD12" || r.Pins[4].Function != types.FuncButton.String() {
		t.Fatalf("pins = %+v", r.Pins[:5])
	}
}

func TestDryRunLED(t *testing.T) {
	d, writes, err := dryRun(boards.NucleoL432KC, "led")
	if err != nil {
		t.Fatalf("dryRun: %v", err)
	}
	if d.Name != "LED_USER" {
		t.Fatalf("pin = %+v", d)
	}
	got := map[uint32]uint32{}
	for _, w := range writes {
		got[w.Addr] = w.Value
	}
	if got[0x4002104C] != 1<<1 {
		t.Fatalf("AHB2ENR = %#x", got[0x4002104C])
	}
	if got[0x48000400] != 0b01<<6 {
		t.Fatalf("GPIOB MODER = %#x", got[0x48000400])
	}
	for i := 1; i < len(writes); i++ {
		if writes[i-1].Addr >= writes[i].Addr {
			t.Fatal("writes not sorted by address")
		}
	}
}

func TestWriteDryRunFixedWidth(t *testing.T) {
	var buf bytes.Buffer
	d := types.PinDescriptor{Name: "LED_USER", Port: "GPIOB", Pin: 3, Function: types.FuncLED}
	writeDryRun(&buf, d, []regWrite{{Addr: 0x14, Value: 0x8}, {Addr: 0x48000400, Value: 0x40}})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{"  [0x00000014] = 0x00000008", "  [0x48000400] = 0x00000040"}
	if len(lines) != 3 || lines[1] != want[0] || lines[2] != want[1] {
		t.Fatalf("output:\n%s", buf.String())
	}
}

func TestDryRunBadQuery(t *testing.T) {
	if _, _, err := dryRun(boards.NucleoL432KC, "laser"); !errors.Is(err, errcode.InvalidParams) {
		t.Fatalf("err = %v", err)
	}
	if _, _, err := dryRun(boards.NucleoL432KC, "led:x"); !errors.Is(err, errcode.InvalidParams) {
		t.Fatalf("err = %v", err)
	}
	if _, _, err := dryRun(boards.NucleoL432KC, "button"); !errors.Is(err, errcode.PinNotFound) {
		t.Fatalf("err = %v", err)
	}
}
