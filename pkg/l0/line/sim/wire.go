// Package sim provides an in-memory line and a virtual clock for
// loopback operation and deterministic tests.
package sim

import (
	"sync"

	"github.com/robotalks/vlc.go/pkg/l0/line"
)

// Wire connects an output to an input. It idles high.
type Wire struct {
	lock    sync.Mutex
	low     bool
	watcher func()
}

var (
	_ line.Output = (*Wire)(nil)
	_ line.Input  = (*Wire)(nil)
)

// NewWire creates a wire at idle level.
func NewWire() *Wire {
	return &Wire{}
}

// DriveHigh implements line.Output.
func (w *Wire) DriveHigh() {
	w.lock.Lock()
	w.low = false
	w.lock.Unlock()
}

// DriveLow implements line.Output.
func (w *Wire) DriveLow() {
	w.lock.Lock()
	var fn func()
	if !w.low {
		fn = w.watcher
	}
	w.low = true
	w.lock.Unlock()
	if fn != nil {
		fn()
	}
}

// Read implements line.Input.
func (w *Wire) Read() bool {
	w.lock.Lock()
	defer w.lock.Unlock()
	return !w.low
}

// WatchFalling implements line.Input.
func (w *Wire) WatchFalling(fn func()) error {
	w.lock.Lock()
	w.watcher = fn
	w.lock.Unlock()
	return nil
}

// Unwatch implements line.Input.
func (w *Wire) Unwatch() error {
	return w.WatchFalling(nil)
}

// Recorder records every level driven, forwarding to an optional output.
type Recorder struct {
	Output line.Output

	lock   sync.Mutex
	levels []bool
}

// DriveHigh implements line.Output.
func (r *Recorder) DriveHigh() {
	r.record(true)
	if r.Output != nil {
		r.Output.DriveHigh()
	}
}

// DriveLow implements line.Output.
func (r *Recorder) DriveLow() {
	r.record(false)
	if r.Output != nil {
		r.Output.DriveLow()
	}
}

func (r *Recorder) record(level bool) {
	r.lock.Lock()
	r.levels = append(r.levels, level)
	r.lock.Unlock()
}

// Levels returns the recorded levels, true is high.
func (r *Recorder) Levels() []bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]bool(nil), r.levels...)
}

// Reset clears the recording.
func (r *Recorder) Reset() {
	r.lock.Lock()
	r.levels = nil
	r.lock.Unlock()
}
