package bsp

import (
	"fmt"
	"sort"
	"sync"

	"boardcode-go/errcode"
	"boardcode-go/types"
)

var (
	mu     sync.RWMutex
	boards = map[string]*types.BoardDescriptor{}
)

// RegisterBoard makes a board table available by name. It is meant to be
// called from init() of the board files and panics on duplicates.
func RegisterBoard(d *types.BoardDescriptor) {
	if d == nil || d.Name == "" {
		panic("bsp: board descriptor without a name")
	}
	mu.Lock()
	defer mu.Unlock()
	if _, exists := boards[d.Name]; exists {
		panic(fmt.Sprintf("bsp: board already registered: %q", d.Name))
	}
	boards[d.Name] = clone(d)
}

// LookupBoard returns a private copy of a registered board table.
func LookupBoard(name string) (*types.BoardDescriptor, error) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := boards[name]
	if !ok {
		return nil, &errcode.E{C: errcode.UnknownBoard, Op: "bsp_lookup_board", Msg: name}
	}
	return clone(d), nil
}

// Boards lists registered board names, sorted.
func Boards() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(boards))
	for n := range boards {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func clone(d *types.BoardDescriptor) *types.BoardDescriptor {
	c := *d
	c.Pins = append([]types.PinDescriptor(nil), d.Pins...)
	if d.Clock != nil {
		clk := *d.Clock
		c.Clock = &clk
	}
	if x, ok := d.MCUData.(*Extras); ok && x != nil {
		cp := *x
		c.MCUData = &cp
	}
	return &c
}
