package testutil

import (
	"sync"
	"time"
)

// ReferenceTime is Sunday 2026-10-18 12:00 UTC. The next day is a Monday
// and the day after is a Tuesday, the default closed day.
var ReferenceTime = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

// Clock is a settable clock for tests.
//
// Thread-safety: all methods are safe for concurrent use.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock frozen at ReferenceTime.
func NewClock() *Clock {
	return &Clock{now: ReferenceTime}
}

// Now returns the current frozen time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Tomorrow returns the date after the clock's current day in YYYY-MM-DD.
func (c *Clock) Tomorrow() string {
	return c.Now().AddDate(0, 0, 1).Format("2006-01-02")
}
