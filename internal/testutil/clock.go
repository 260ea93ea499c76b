package testutil

import "sync"

// FixedClock is a settable wall clock in Unix seconds for tests.
//
// It satisfies the Now() int64 clock interface used by the store and the CLI,
// so a test can pin "now" and move it explicitly.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu    sync.Mutex
	start int64
	now   int64
}

// NewFixedClock creates a clock that reads start until advanced.
func NewFixedClock(start int64) *FixedClock {
	return &FixedClock{start: start, now: start}
}

// Now returns the current pinned time.
func (c *FixedClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by seconds and returns the new time.
func (c *FixedClock) Advance(seconds int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += seconds
	return c.now
}

// Reset returns the clock to its start time.
func (c *FixedClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.start
}
