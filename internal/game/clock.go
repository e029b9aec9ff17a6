package game

import (
	"sync"
	"time"
)

// Clock is the engine's only source of wall time. Everything the simulation
// derives from "now" (catch-up windows, due timed actions, death timers)
// goes through it.
type Clock interface {
	Now() time.Time
}

// RealClock serves production.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FakeClock lets tests march the simulation forward deterministically.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{current: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Set jumps the clock to an absolute instant, usually a CompletesAt or
// DueAt stamp.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	c.mu.Unlock()
}
