package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"boardcode-go/errcode"
	"boardcode-go/hal/regs"
	"boardcode-go/platform"
	"boardcode-go/types"
)

type regWrite struct {
	Addr  uint32
	Value uint32
}

// dryRun resolves "function[:instance]" on board against a register model and
// reports the pin and every register the configuration touched.
func dryRun(board, query string) (types.PinDescriptor, []regWrite, error) {
	const op = "boardinfo_dry_run"
	name, inst, _ := strings.Cut(query, ":")
	fn, ok := types.ParsePinFunction(name)
	if !ok {
		return types.PinDescriptor{}, nil, &errcode.E{C: errcode.InvalidParams, Op: op, Msg: "unknown function " + name}
	}
	instance := 0
	if inst != "" {
		n, err := strconv.Atoi(inst)
		if err != nil {
			return types.PinDescriptor{}, nil, errcode.Wrap(op, errcode.InvalidParams, -1, err)
		}
		instance = n
	}

	m := regs.NewModel()
	sys, err := platform.Open(board, platform.WithBus(m))
	if err != nil {
		return types.PinDescriptor{}, nil, err
	}
	d, err := sys.BSP.PinConfigByFunction(fn, instance)
	if err != nil {
		return types.PinDescriptor{}, nil, err
	}
	if err := sys.BSP.ConfigurePin(&d); err != nil {
		return d, nil, err
	}
	addrs := m.Written()
	slices.Sort(addrs)
	out := make([]regWrite, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, regWrite{Addr: a, Value: m.Value(a)})
	}
	return d, out, nil
}

func writeDryRun(w io.Writer, d types.PinDescriptor, writes []regWrite) {
	fmt.Fprintf(w, "%s  %s%d  %s af%d\n", d.Name, d.Port, d.Pin, d.Function, d.AltFunc)
	for _, r := range writes {
		fmt.Fprintf(w, "  [0x%08x] = 0x%08x\n", r.Addr, r.Value)
	}
}
