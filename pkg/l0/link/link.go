// Package link implements the OOK bit framing of the VLC link.
//
// A frame is a start bit (line low for one bit period), 32 data bits
// LSB first (high is 1) and a stop bit (line high). The line idles high.
// Each frame carries one ciphertext word: 4 plaintext bytes packed
// little-endian and XORed with the next keystream word.
//
// Both directions buffer words in a ring.Buffer. The bit timers
// (interrupt context on a microcontroller) only touch the frame registers and
// the buffer, while the task side encodes, polls and drains.
package link

import (
	"encoding/binary"
	"errors"
	"time"
)

// FrameBits is the number of data bits in a frame.
const FrameBits = 32

// DefaultBitPeriod is the bit period shared by both ends.
const DefaultBitPeriod = 20 * time.Microsecond

// ErrInvalidTiming indicates a non-positive bit period.
var ErrInvalidTiming = errors.New("bit period must be positive")

// KeySource produces keystream words.
type KeySource interface {
	NextWord() (uint32, error)
}

// Timing configures the bit timers.
type Timing struct {
	BitPeriod time.Duration
	// SampleOffset delays the first sample past the start bit, the
	// default samples in the middle of each bit.
	SampleOffset time.Duration
	// StallTimeout abandons a frame still sampling after this long.
	StallTimeout time.Duration
}

// NewTiming derives the default timing from a bit period.
func NewTiming(bitPeriod time.Duration) Timing {
	return Timing{
		BitPeriod:    bitPeriod,
		SampleOffset: bitPeriod / 2,
		StallTimeout: 2 * (FrameBits + 2) * bitPeriod,
	}
}

// DefaultTiming is NewTiming(DefaultBitPeriod).
func DefaultTiming() Timing {
	return NewTiming(DefaultBitPeriod)
}

// Validate checks the timing.
func (t Timing) Validate() error {
	if t.BitPeriod <= 0 {
		return ErrInvalidTiming
	}
	return nil
}

// Frequency returns the bit rate in Hz.
func (t Timing) Frequency() float64 {
	return float64(time.Second) / float64(t.BitPeriod)
}

func packWord(group []byte) uint32 {
	var buf [4]byte
	copy(buf[:], group)
	return binary.LittleEndian.Uint32(buf[:])
}

func unpackWord(word uint32) [4]byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], word)
	return buf
}
