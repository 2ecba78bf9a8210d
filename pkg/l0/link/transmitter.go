package link

import (
	"sync"
	"sync/atomic"

	"github.com/robotalks/vlc.go/pkg/l0/line"
	"github.com/robotalks/vlc.go/pkg/l0/ring"
)

// TxState is the state of the transmit framing.
type TxState int

// Transmit states.
const (
	TxIdle TxState = iota
	TxFraming
	TxStopBit
)

// String implements fmt.Stringer.
func (s TxState) String() string {
	switch s {
	case TxIdle:
		return "Idle"
	case TxFraming:
		return "Framing"
	case TxStopBit:
		return "StopBit"
	}
	return "Unknown"
}

// EnqueueResult reports how much of the data was accepted.
type EnqueueResult struct {
	Words int
	Bytes int
	// Dropped is the number of words rejected because the buffer was full.
	Dropped int
}

// Partial indicates part of the data was dropped.
func (r EnqueueResult) Partial() bool {
	return r.Dropped > 0
}

// TxStats are transmit counters.
type TxStats struct {
	Frames  uint64
	Words   uint64
	Dropped uint64
	Pending int
}

// Transmitter serializes buffered ciphertext words onto the output line.
type Transmitter struct {
	out    line.Output
	key    KeySource
	buffer *ring.Buffer
	timing Timing
	timer  line.PeriodicTimer

	// serializes producers so the buffer keeps a single writer
	encodeLock sync.Mutex

	lock  sync.Mutex
	state TxState
	value uint32
	index int

	frames  atomic.Uint64
	words   atomic.Uint64
	dropped atomic.Uint64
}

// NewTransmitter creates a Transmitter and drives the line idle high.
func NewTransmitter(out line.Output, key KeySource, clock line.Clock, timing Timing) *Transmitter {
	t := &Transmitter{
		out:    out,
		key:    key,
		buffer: &ring.Buffer{},
		timing: timing,
	}
	t.timer = clock.NewTimer(timing.BitPeriod, t.tick)
	out.DriveHigh()
	return t
}

// Encode encrypts data in 4-byte groups and buffers one word per group.
// It stops at the first group which does not fit, without consuming a
// keystream word for it, and reports the remaining groups as dropped.
func (t *Transmitter) Encode(data []byte) (res EnqueueResult, err error) {
	t.encodeLock.Lock()
	defer t.encodeLock.Unlock()
	groups := (len(data) + 3) / 4
	for i := 0; i < groups; i++ {
		if t.buffer.IsFull() {
			res.Dropped = groups - i
			t.dropped.Add(uint64(res.Dropped))
			break
		}
		end := i*4 + 4
		if end > len(data) {
			end = len(data)
		}
		var key uint32
		if key, err = t.key.NextWord(); err != nil {
			return
		}
		t.buffer.Push(packWord(data[i*4:end]) ^ key)
		t.words.Add(1)
		res.Words++
		res.Bytes += end - i*4
	}
	return
}

// Poll starts the next frame if the line is idle and a word is buffered.
func (t *Transmitter) Poll() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.state != TxIdle {
		return false
	}
	word, ok := t.buffer.Pop()
	if !ok {
		return false
	}
	t.value, t.index, t.state = word, 0, TxFraming
	t.out.DriveLow()
	t.timer.Start(t.timing.BitPeriod)
	return true
}

func (t *Transmitter) tick() {
	t.lock.Lock()
	defer t.lock.Unlock()
	switch {
	case t.state == TxIdle:
		return
	case t.index < FrameBits:
		if t.value&(1<<uint(t.index)) != 0 {
			t.out.DriveHigh()
		} else {
			t.out.DriveLow()
		}
	case t.index == FrameBits:
		t.out.DriveHigh()
		t.state = TxStopBit
	default:
		t.timer.Stop()
		t.state = TxIdle
		t.frames.Add(1)
		return
	}
	t.index++
}

// Stop abandons the frame in flight and drives the line idle.
func (t *Transmitter) Stop() {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.timer.Stop()
	t.state = TxIdle
	t.out.DriveHigh()
}

// State returns the framing state.
func (t *Transmitter) State() TxState {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.state
}

// Stats returns the counters.
func (t *Transmitter) Stats() TxStats {
	return TxStats{
		Frames:  t.frames.Load(),
		Words:   t.words.Load(),
		Dropped: t.dropped.Load(),
		Pending: t.buffer.Size(),
	}
}
