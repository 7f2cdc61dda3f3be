// Package rtos is the scheduler capability the application runs on: a
// millisecond tick, task delays and a task group. On TinyGo the goroutine
// scheduler plays the role of the kernel.
package rtos

import "time"

// Clock counts milliseconds from its creation.
type Clock struct {
	start time.Time
}

func NewClock() *Clock { return &Clock{start: time.Now()} }

// Tick returns milliseconds since the clock started. It wraps after ~49 days.
func (c *Clock) Tick() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

// Sleep blocks the caller for ms milliseconds.
func (c *Clock) Sleep(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}
