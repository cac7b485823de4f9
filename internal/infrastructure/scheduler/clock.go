// Package scheduler implements the timing machinery of the desk
// application: the periodic job runner behind the sync pull loop and the
// debouncer behind the sync push. Everything takes time from a Clock, so
// tests drive schedules with virtual time instead of sleeping.
package scheduler

import (
	"sync"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// CLOCK
// ══════════════════════════════════════════════════════════════════════════════

// Timer is the subset of time.Timer the scheduler needs.
type Timer interface {
	// Reset re-arms the timer to fire after d.
	Reset(d time.Duration) bool

	// Stop disarms the timer. The callback may already be running.
	Stop() bool
}

// Clock abstracts wall time.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc arms a timer that calls f after d.
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock is the production Clock backed by the time package.
type RealClock struct{}

// Now returns time.Now.
func (RealClock) Now() time.Time {
	return time.Now()
}

// AfterFunc delegates to time.AfterFunc.
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ══════════════════════════════════════════════════════════════════════════════
// MANUAL CLOCK (for tests)
// ══════════════════════════════════════════════════════════════════════════════

// ManualClock is a Clock whose time only moves when Advance is called.
// Timers fire synchronously inside Advance, in deadline order, which makes
// debounce and polling tests deterministic.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

// NewManualClock creates a manual clock starting at the given instant.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the clock's current time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc arms a timer relative to the clock's current time.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &manualTimer{clock: c, fn: f, deadline: c.now.Add(d), armed: true}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward and fires every timer whose deadline is
// reached, earliest first. Callbacks run on the calling goroutine.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)

	for {
		var next *manualTimer
		for _, t := range c.timers {
			if !t.armed || t.deadline.After(target) {
				continue
			}
			if next == nil || t.deadline.Before(next.deadline) {
				next = t
			}
		}
		if next == nil {
			break
		}

		// Time jumps to the timer's deadline before it fires, so
		// callbacks that re-arm see a consistent Now.
		if next.deadline.After(c.now) {
			c.now = next.deadline
		}
		next.armed = false
		fn := next.fn
		c.mu.Unlock()
		fn()
		c.mu.Lock()
	}

	c.now = target
	c.mu.Unlock()
}

type manualTimer struct {
	clock    *ManualClock
	fn       func()
	deadline time.Time
	armed    bool
}

// Reset re-arms the timer relative to the clock's current time.
func (t *manualTimer) Reset(d time.Duration) bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	was := t.armed
	t.deadline = t.clock.now.Add(d)
	t.armed = true
	return was
}

// Stop disarms the timer.
func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	was := t.armed
	t.armed = false
	return was
}
