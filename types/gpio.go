package types

// Port is the handle for one physical GPIO port. It is shared, never owned,
// by the pin operations addressing it.
type Port struct {
	Name  string // "GPIOA".."GPIOI"
	Index uint8  // 0 = A
	Base  uint32 // register block base address
}

// MaxPin is the highest pin number on an STM32 GPIO port.
const MaxPin = 15

type PinState uint8

const (
	PinReset PinState = iota
	PinSet
)

func (s PinState) String() string {
	if s == PinSet {
		return "set"
	}
	return "reset"
}

// StateOf converts a logic level to a PinState.
func StateOf(level bool) PinState {
	if level {
		return PinSet
	}
	return PinReset
}

type Mode uint8

const (
	ModeInput Mode = iota
	ModeOutputPP
	ModeOutputOD
	ModeAFPP
	ModeAFOD
	ModeAnalog
	ModeITRising
	ModeITFalling
	ModeITRisingFalling
)

var modeNames = [...]string{
	"input", "output_pp", "output_od", "af_pp", "af_od", "analog",
	"it_rising", "it_falling", "it_rising_falling",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

func (p Pull) String() string {
	switch p {
	case PullUp:
		return "up"
	case PullDown:
		return "down"
	default:
		return "none"
	}
}

type Speed uint8

const (
	SpeedLow Speed = iota
	SpeedMedium
	SpeedHigh
	SpeedVeryHigh
)

// GPIOConfig is passed to the GPIO init operation and not retained.
type GPIOConfig struct {
	Pin       uint16
	Mode      Mode
	Pull      Pull
	Speed     Speed
	Alternate uint8
}
