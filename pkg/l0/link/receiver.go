package link

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/robotalks/vlc.go/pkg/l0/line"
	"github.com/robotalks/vlc.go/pkg/l0/ring"
)

// RxState is the state of the receive framing.
type RxState int

// Receive states.
const (
	RxWaitingForEdge RxState = iota
	RxSampling
	RxComplete
)

// String implements fmt.Stringer.
func (s RxState) String() string {
	switch s {
	case RxWaitingForEdge:
		return "WaitingForEdge"
	case RxSampling:
		return "Sampling"
	case RxComplete:
		return "Complete"
	}
	return "Unknown"
}

// RxStats are receive counters.
type RxStats struct {
	Frames  uint64
	Dropped uint64
	Stalls  uint64
	Pending int
}

// Receiver samples frames from the input line and decrypts them.
type Receiver struct {
	in     line.Input
	key    KeySource
	buffer *ring.Buffer
	clock  line.Clock
	timing Timing
	timer  line.PeriodicTimer
	ready  chan struct{}

	lock    sync.Mutex
	armed   bool
	state   RxState
	value   uint32
	index   int
	started time.Time

	drainLock sync.Mutex

	frames  atomic.Uint64
	dropped atomic.Uint64
	stalls  atomic.Uint64
}

// NewReceiver creates a Receiver. Call Arm to start watching the line.
func NewReceiver(in line.Input, key KeySource, clock line.Clock, timing Timing) *Receiver {
	r := &Receiver{
		in:     in,
		key:    key,
		buffer: &ring.Buffer{},
		clock:  clock,
		timing: timing,
		ready:  make(chan struct{}, 1),
	}
	r.timer = clock.NewTimer(timing.BitPeriod, r.tick)
	return r
}

// Arm starts watching the line for a start bit.
func (r *Receiver) Arm() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.timer.Stop()
	r.state = RxWaitingForEdge
	if err := r.in.WatchFalling(r.onEdge); err != nil {
		return err
	}
	r.armed = true
	return nil
}

// Disarm stops watching the line and abandons the frame being sampled.
func (r *Receiver) Disarm() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.timer.Stop()
	r.state = RxWaitingForEdge
	r.armed = false
	return r.in.Unwatch()
}

// Armed indicates the receiver is watching the line.
func (r *Receiver) Armed() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.armed
}

func (r *Receiver) onEdge() {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.state != RxWaitingForEdge {
		return
	}
	r.in.Unwatch()
	r.value, r.index, r.state = 0, 0, RxSampling
	r.started = r.clock.Now()
	r.timer.Start(r.timing.BitPeriod + r.timing.SampleOffset)
}

func (r *Receiver) tick() {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.state != RxSampling {
		return
	}
	if r.index < FrameBits {
		if r.in.Read() {
			r.value |= 1 << uint(r.index)
		}
		r.index++
		return
	}
	r.timer.Stop()
	r.state = RxComplete
	if r.buffer.Push(r.value) {
		r.frames.Add(1)
	} else {
		r.dropped.Add(1)
	}
	select {
	case r.ready <- struct{}{}:
	default:
	}
	r.state = RxWaitingForEdge
	r.in.WatchFalling(r.onEdge)
}

// CheckStall abandons a frame sampling for longer than the stall timeout
// and re-arms edge detection. It returns true when a frame was abandoned.
func (r *Receiver) CheckStall() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.state != RxSampling || r.clock.Now().Sub(r.started) < r.timing.StallTimeout {
		return false
	}
	r.timer.Stop()
	r.state = RxWaitingForEdge
	r.in.WatchFalling(r.onEdge)
	r.stalls.Add(1)
	return true
}

// Ready receives a signal after frames are buffered.
func (r *Receiver) Ready() <-chan struct{} {
	return r.ready
}

// Drain pops every buffered word, decrypts it and returns the batch.
// It returns nil when nothing is buffered.
func (r *Receiver) Drain() (*Batch, error) {
	r.drainLock.Lock()
	defer r.drainLock.Unlock()
	var batch *Batch
	for !r.buffer.IsEmpty() {
		key, err := r.key.NextWord()
		if err != nil {
			return batch, err
		}
		word, _ := r.buffer.Pop()
		if batch == nil {
			batch = &Batch{}
		}
		batch.append(word ^ key)
	}
	return batch, nil
}

// State returns the framing state.
func (r *Receiver) State() RxState {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.state
}

// Stats returns the counters.
func (r *Receiver) Stats() RxStats {
	return RxStats{
		Frames:  r.frames.Load(),
		Dropped: r.dropped.Load(),
		Stalls:  r.stalls.Load(),
		Pending: r.buffer.Size(),
	}
}
