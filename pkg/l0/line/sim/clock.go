package sim

import (
	"sync"
	"time"

	"github.com/robotalks/vlc.go/pkg/l0/line"
)

// Clock is a virtual clock. Timers only fire inside Advance, in due
// order, ties broken by creation order.
type Clock struct {
	lock   sync.Mutex
	now    time.Time
	timers []*timer
}

// NewClock creates a virtual clock starting at a fixed epoch.
func NewClock() *Clock {
	return &Clock{now: time.Unix(0, 0)}
}

// Now implements line.Clock.
func (c *Clock) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

// NewTimer implements line.Clock.
func (c *Clock) NewTimer(period time.Duration, fn func()) line.PeriodicTimer {
	t := &timer{clock: c, period: period, fn: fn}
	c.lock.Lock()
	c.timers = append(c.timers, t)
	c.lock.Unlock()
	return t
}

// Advance moves virtual time forward by d, firing every timer due.
func (c *Clock) Advance(d time.Duration) {
	c.lock.Lock()
	target := c.now.Add(d)
	c.lock.Unlock()
	for {
		c.lock.Lock()
		var due *timer
		for _, t := range c.timers {
			if t.active && !t.next.After(target) && (due == nil || t.next.Before(due.next)) {
				due = t
			}
		}
		if due == nil {
			c.now = target
			c.lock.Unlock()
			return
		}
		c.now = due.next
		due.next = due.next.Add(due.period)
		fn := due.fn
		c.lock.Unlock()
		fn()
	}
}

type timer struct {
	clock  *Clock
	period time.Duration
	fn     func()
	active bool
	next   time.Time
}

// Start implements line.PeriodicTimer.
func (t *timer) Start(delay time.Duration) {
	t.clock.lock.Lock()
	t.active = true
	t.next = t.clock.now.Add(delay)
	t.clock.lock.Unlock()
}

// Stop implements line.PeriodicTimer.
func (t *timer) Stop() {
	t.clock.lock.Lock()
	t.active = false
	t.clock.lock.Unlock()
}
