package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/inhies/go-bytesize"
	"github.com/marcinbor85/gohex"
	"gopkg.in/yaml.v2"

	"boardcode-go/bsp"
	"boardcode-go/errcode"
	"boardcode-go/types"
)

type pinReport struct {
	Name     string `yaml:"name"`
	Pin      string `yaml:"pin"`
	Function string `yaml:"function"`
	AF       uint8  `yaml:"af,omitempty"`
	Active   string `yaml:"active"`
	Note     string `yaml:"note,omitempty"`
}

type boardReport struct {
	Name      string            `yaml:"name"`
	MCU       string            `yaml:"mcu"`
	Family    string            `yaml:"family"`
	Flash     string            `yaml:"flash"`
	RAM       string            `yaml:"ram"`
	Clock     map[string]uint32 `yaml:"clock_hz,omitempty"`
	DebugUART string            `yaml:"debug_uart,omitempty"`
	Pins      []pinReport       `yaml:"pins"`
}

func newReport(d *types.BoardDescriptor) boardReport {
	r := boardReport{
		Name:   d.Name,
		MCU:    d.MCU,
		Family: d.Family.String(),
		Flash:  d.Flash.String(),
		RAM:    d.RAM.String(),
	}
	if c := d.Clock; c != nil {
		r.Clock = map[string]uint32{
			"hsi": c.HSI, "hse": c.HSE, "lsi": c.LSI, "lse": c.LSE,
			"sysclk": c.SYSCLK, "hclk": c.HCLK, "pclk1": c.PCLK1, "pclk2": c.PCLK2,
		}
		for k, v := range r.Clock {
			if v == 0 {
				delete(r.Clock, k)
			}
		}
	}
	if x, ok := d.MCUData.(*bsp.Extras); ok && x.HasDebugUART {
		r.DebugUART = fmt.Sprintf("%s (%s/%s)", x.DebugUART, x.DebugTX, x.DebugRX)
	}
	for _, p := range d.Pins {
		active := "high"
		if !p.ActiveHigh {
			active = "low"
		}
		r.Pins = append(r.Pins, pinReport{
			Name:     p.Name,
			Pin:      fmt.Sprintf("P%s%d", strings.TrimPrefix(p.Port, "GPIO"), p.Pin),
			Function: p.Function.String(),
			AF:       p.AltFunc,
			Active:   active,
			Note:     p.Description,
		})
	}
	return r
}

func writeYAML(w io.Writer, reports []boardReport) error {
	out, err := yaml.Marshal(reports)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func writeText(w io.Writer, reports []boardReport) {
	for _, r := range reports {
		fmt.Fprintf(w, "%s  %s (%s)  flash %s  ram %s\n", r.Name, r.MCU, r.Family, r.Flash, r.RAM)
		if r.DebugUART != "" {
			fmt.Fprintf(w, "  debug uart  %s\n", r.DebugUART)
		}
		for _, p := range r.Pins {
			fmt.Fprintf(w, "  %-12s %-5s %-10s af%-2d active-%s\n", p.Name, p.Pin, p.Function, p.AF, p.Active)
		}
	}
}

// imageFit is the result of checking a firmware image against board flash.
type imageFit struct {
	Base     uint32
	Used     bytesize.ByteSize
	Capacity bytesize.ByteSize
}

// checkImage parses an Intel-HEX image and verifies every data segment lies
// inside the board's flash window.
func checkImage(d *types.BoardDescriptor, r io.Reader) (imageFit, error) {
	const op = "boardinfo_check_image"
	base := uint32(0x08000000)
	if x, ok := d.MCUData.(*bsp.Extras); ok && x.FlashBase != 0 {
		base = x.FlashBase
	}
	fit := imageFit{Base: base, Capacity: d.Flash}

	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return fit, errcode.Wrap(op, errcode.InvalidParams, -1, err)
	}
	segs := mem.GetDataSegments()
	if len(segs) == 0 {
		return fit, &errcode.E{C: errcode.InvalidParams, Op: op, Status: -1, Msg: "image has no data"}
	}
	limit := uint64(base) + uint64(d.Flash)
	var end uint64
	for _, s := range segs {
		lo, hi := uint64(s.Address), uint64(s.Address)+uint64(len(s.Data))
		if lo < uint64(base) || hi > limit {
			return fit, &errcode.E{C: errcode.ConfigFailed, Op: op, Status: -2,
				Msg: fmt.Sprintf("segment 0x%08x+%d outside flash 0x%08x..0x%08x", s.Address, len(s.Data), base, limit)}
		}
		end = max(end, hi)
	}
	fit.Used = bytesize.ByteSize(end - uint64(base))
	return fit, nil
}
