package errcode

import "errors"

// Code is a stable error identifier shared by the BSP and HAL layers.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK            Code = "ok"
	InvalidParams Code = "invalid_params"
	InvalidPin    Code = "invalid_pin"
	Unsupported   Code = "unsupported"

	// Resolution failures: requested entity is not in the board/port table.
	PinNotFound  Code = "pin_not_found"
	PortNotFound Code = "port_not_found"
	UnknownBoard Code = "unknown_board"

	// Configuration failures.
	ConfigFailed Code = "config_failed"
	ClockFailed  Code = "clock_failed"
	InitFailed   Code = "init_failed"

	// Capability-absent failures.
	PeripheralNotPresent Code = "peripheral_not_present"

	Error Code = "error" // generic fallback
)

// E wraps a Code with the failing operation, a step status and a cause.
// Status is negative and distinct per failing step of Op.
type E struct {
	C      Code
	Op     string
	Status int
	Msg    string
	Err    error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil && e.Err != e.C {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is(err, errcode.X) match on the wrapped code.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Wrap builds an *E for op failing at the given step status.
func Wrap(op string, c Code, status int, cause error) *E {
	return &E{C: c, Op: op, Status: status, Err: cause}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

// Status maps an error to the integer convention used by init paths:
// 0 on success, the step status carried by *E, otherwise -1.
func Status(err error) int {
	if err == nil {
		return 0
	}
	var e *E
	if errors.As(err, &e) && e.Status < 0 {
		return e.Status
	}
	return -1
}
