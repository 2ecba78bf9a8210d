// Package gpio drives the link over Linux sysfs GPIO pins.
package gpio

import (
	"sync"

	"github.com/davecheney/gpio"

	"github.com/robotalks/vlc.go/pkg/l0/line"
)

// Output is an output pin.
type Output struct {
	pin gpio.Pin
}

var _ line.Output = (*Output)(nil)

// OpenOutput opens pin number n as an output and drives it idle high.
func OpenOutput(n int) (*Output, error) {
	pin, err := gpio.OpenPin(n, gpio.ModeOutput)
	if err != nil {
		return nil, err
	}
	pin.Set()
	return &Output{pin: pin}, nil
}

// DriveHigh implements line.Output.
func (o *Output) DriveHigh() {
	o.pin.Set()
}

// DriveLow implements line.Output.
func (o *Output) DriveLow() {
	o.pin.Clear()
}

// Close releases the pin.
func (o *Output) Close() error {
	return o.pin.Close()
}

// Input is an input pin watched for falling edges.
// The pin is watched once when opened, WatchFalling and Unwatch only
// swap the callback so re-arming stays cheap between frames.
type Input struct {
	pin gpio.Pin

	lock     sync.Mutex
	callback func()
}

var _ line.Input = (*Input)(nil)

// OpenInput opens pin number n as an input.
func OpenInput(n int) (*Input, error) {
	pin, err := gpio.OpenPin(n, gpio.ModeInput)
	if err != nil {
		return nil, err
	}
	in := &Input{pin: pin}
	if err = pin.BeginWatch(gpio.EdgeFalling, in.onEdge); err != nil {
		pin.Close()
		return nil, err
	}
	return in, nil
}

func (in *Input) onEdge(number int, state bool) {
	in.lock.Lock()
	fn := in.callback
	in.lock.Unlock()
	if fn != nil {
		fn()
	}
}

// Read implements line.Input.
func (in *Input) Read() bool {
	return in.pin.Get()
}

// WatchFalling implements line.Input.
func (in *Input) WatchFalling(fn func()) error {
	in.lock.Lock()
	in.callback = fn
	in.lock.Unlock()
	return nil
}

// Unwatch implements line.Input.
func (in *Input) Unwatch() error {
	return in.WatchFalling(nil)
}

// Close stops watching and releases the pin.
func (in *Input) Close() error {
	in.pin.EndWatch()
	return in.pin.Close()
}
