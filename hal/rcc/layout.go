package rcc

import "boardcode-go/types"

// gate locates the clock-enable and reset bits of one peripheral.
type gate struct {
	present bool
	en      uint32 // enable register offset from the RCC base
	enBit   uint8
	rst     uint32 // reset register offset
	rstBit  uint8
	bus     types.Bus
}

// Layout is the RCC register map of one MCU family.
type Layout struct {
	Family types.MCUFamily
	Base   uint32
	gates  [types.PeriphCount]gate
}

func (l *Layout) gate(p types.Peripheral) (gate, bool) {
	if p >= types.PeriphCount {
		return gate{}, false
	}
	g := l.gates[p]
	return g, g.present
}

// Has reports whether p exists on this family.
func (l *Layout) Has(p types.Peripheral) bool {
	_, ok := l.gate(p)
	return ok
}

// EnableAddr returns the absolute address and bit mask gating p's clock.
func (l *Layout) EnableAddr(p types.Peripheral) (addr, mask uint32, ok bool) {
	g, ok := l.gate(p)
	if !ok {
		return 0, 0, false
	}
	return l.Base + g.en, 1 << g.enBit, true
}

type bank struct {
	en, rst uint32
	bus     types.Bus
}

func (l *Layout) add(b bank, p types.Peripheral, bit uint8) {
	l.gates[p] = gate{present: true, en: b.en, enBit: bit, rst: b.rst, rstBit: bit, bus: b.bus}
}

// RM0351, section 6.4.
var layoutL4 = func() *Layout {
	l := &Layout{Family: types.FamilySTM32L4, Base: 0x40021000}
	ahb1 := bank{en: 0x48, rst: 0x28, bus: types.BusAHB1}
	ahb2 := bank{en: 0x4C, rst: 0x2C, bus: types.BusAHB2}
	apb1 := bank{en: 0x58, rst: 0x38, bus: types.BusAPB1}
	apb2 := bank{en: 0x60, rst: 0x40, bus: types.BusAPB2}

	for i := types.PeriphGPIOA; i <= types.PeriphGPIOH; i++ {
		l.add(ahb2, i, uint8(i-types.PeriphGPIOA))
	}
	l.add(ahb2, types.PeriphADC1, 13)
	l.add(ahb1, types.PeriphDMA1, 0)
	l.add(ahb1, types.PeriphDMA2, 1)

	l.add(apb1, types.PeriphTIM2, 0)
	l.add(apb1, types.PeriphTIM3, 1)
	l.add(apb1, types.PeriphTIM4, 2)
	l.add(apb1, types.PeriphTIM5, 3)
	l.add(apb1, types.PeriphTIM6, 4)
	l.add(apb1, types.PeriphTIM7, 5)
	l.add(apb1, types.PeriphSPI2, 14)
	l.add(apb1, types.PeriphSPI3, 15)
	l.add(apb1, types.PeriphUSART2, 17)
	l.add(apb1, types.PeriphUSART3, 18)
	l.add(apb1, types.PeriphUART4, 19)
	l.add(apb1, types.PeriphUART5, 20)
	l.add(apb1, types.PeriphI2C1, 21)
	l.add(apb1, types.PeriphI2C2, 22)
	l.add(apb1, types.PeriphI2C3, 23)

	l.add(apb2, types.PeriphTIM1, 11)
	l.add(apb2, types.PeriphSPI1, 12)
	l.add(apb2, types.PeriphTIM8, 13)
	l.add(apb2, types.PeriphUSART1, 14)
	return l
}()

// RM0090, section 7.3.
var layoutF4 = func() *Layout {
	l := &Layout{Family: types.FamilySTM32F4, Base: 0x40023800}
	ahb1 := bank{en: 0x30, rst: 0x10, bus: types.BusAHB1}
	apb1 := bank{en: 0x40, rst: 0x20, bus: types.BusAPB1}
	apb2 := bank{en: 0x44, rst: 0x24, bus: types.BusAPB2}

	for i := types.PeriphGPIOA; i <= types.PeriphGPIOI; i++ {
		l.add(ahb1, i, uint8(i-types.PeriphGPIOA))
	}
	l.add(ahb1, types.PeriphDMA1, 21)
	l.add(ahb1, types.PeriphDMA2, 22)

	l.add(apb1, types.PeriphTIM2, 0)
	l.add(apb1, types.PeriphTIM3, 1)
	l.add(apb1, types.PeriphTIM4, 2)
	l.add(apb1, types.PeriphTIM5, 3)
	l.add(apb1, types.PeriphTIM6, 4)
	l.add(apb1, types.PeriphTIM7, 5)
	l.add(apb1, types.PeriphSPI2, 14)
	l.add(apb1, types.PeriphSPI3, 15)
	l.add(apb1, types.PeriphUSART2, 17)
	l.add(apb1, types.PeriphUSART3, 18)
	l.add(apb1, types.PeriphUART4, 19)
	l.add(apb1, types.PeriphUART5, 20)
	l.add(apb1, types.PeriphI2C1, 21)
	l.add(apb1, types.PeriphI2C2, 22)
	l.add(apb1, types.PeriphI2C3, 23)

	l.add(apb2, types.PeriphTIM1, 0)
	l.add(apb2, types.PeriphTIM8, 1)
	l.add(apb2, types.PeriphUSART1, 4)
	l.add(apb2, types.PeriphADC1, 8)
	l.add(apb2, types.PeriphADC2, 9)
	l.add(apb2, types.PeriphADC3, 10)
	l.add(apb2, types.PeriphSPI1, 12)

	// All ADCs share ADCRST.
	for _, p := range []types.Peripheral{types.PeriphADC2, types.PeriphADC3} {
		g := l.gates[p]
		g.rstBit = 8
		l.gates[p] = g
	}
	return l
}()

// LayoutFor returns the RCC map for a family, or false if the family has no driver.
func LayoutFor(f types.MCUFamily) (*Layout, bool) {
	switch f {
	case types.FamilySTM32L4:
		return layoutL4, true
	case types.FamilySTM32F4:
		return layoutF4, true
	default:
		return nil, false
	}
}
