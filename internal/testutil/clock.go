// Package testutil provides deterministic test doubles shared across the
// simulation and reconciliation test suites.
package testutil

import "sync"

// ManualClock is a thread-safe clock that only moves when told to.
//
// It implements sim.Clock with millisecond timestamps. Tests advance it
// explicitly, so accrual math is exact and scenarios replay identically.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type ManualClock struct {
	mu  sync.Mutex
	now int64
}

// NewManualClock creates a clock frozen at the given unix-millisecond time.
func NewManualClock(now int64) *ManualClock {
	return &ManualClock{now: now}
}

// Now returns the current frozen time.
func (c *ManualClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by ms milliseconds and returns the new
// reading. Negative advances are a test bug; they panic.
func (c *ManualClock) Advance(ms int64) int64 {
	if ms < 0 {
		panic("ManualClock: negative advance")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += ms
	return c.now
}

// Set moves the clock to an absolute reading. Unlike Advance, Set may move
// backward - some tests need a caller-supplied now earlier than LastUpdate.
func (c *ManualClock) Set(now int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
