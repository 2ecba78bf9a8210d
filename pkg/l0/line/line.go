// Package line abstracts the physical OOK line: a driven output pin,
// an edge-watched input pin and periodic timers.
package line

import "time"

// Output is a digital output pin.
type Output interface {
	DriveHigh()
	DriveLow()
}

// Input is a digital input pin with falling edge notification.
// The line idles high, a falling edge marks a start bit.
type Input interface {
	Read() bool
	// WatchFalling installs fn to be called on the next falling edges
	// until Unwatch.
	WatchFalling(fn func()) error
	Unwatch() error
}

// PeriodicTimer invokes its function every period once started.
// Stop may be called from inside the timer function.
type PeriodicTimer interface {
	// Start schedules the first call after delay and then every period.
	Start(delay time.Duration)
	Stop()
}

// Clock creates timers and tells time.
type Clock interface {
	NewTimer(period time.Duration, fn func()) PeriodicTimer
	Now() time.Time
}
