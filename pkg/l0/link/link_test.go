package link

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/vlc.go/pkg/keystream"
	"github.com/robotalks/vlc.go/pkg/l0/line"
	"github.com/robotalks/vlc.go/pkg/l0/line/sim"
	"github.com/robotalks/vlc.go/pkg/l0/ring"
)

type zeroKey struct {
	calls int
}

func (k *zeroKey) NextWord() (uint32, error) {
	k.calls++
	return 0, nil
}

func duffingKey(t *testing.T) *keystream.KeyState {
	ks := keystream.NewKeyState("test")
	_, err := ks.Configure(keystream.Config{
		Kind: keystream.Duffing,
		MapA: keystream.ChaoticMap{X: 0.1, Y: 1.1, Iterations: 10000},
		MapB: keystream.ChaoticMap{X: 0.5, Y: 0.89, Iterations: 10000},
	})
	require.NoError(t, err)
	return ks
}

func TestTimingDefaults(t *testing.T) {
	timing := DefaultTiming()
	require.NoError(t, timing.Validate())
	require.Equal(t, 20*time.Microsecond, timing.BitPeriod)
	require.Equal(t, 10*time.Microsecond, timing.SampleOffset)
	require.Equal(t, 68*20*time.Microsecond, timing.StallTimeout)
	require.Equal(t, 50000.0, timing.Frequency())
	require.Equal(t, ErrInvalidTiming, Timing{}.Validate())
}

func TestWordPacking(t *testing.T) {
	require.Equal(t, uint32(0x00004948), packWord([]byte("HI")))
	require.Equal(t, uint32(0x6c6c6548), packWord([]byte("Hell")))
	require.Equal(t, [4]byte{'H', 'e', 'l', 'l'}, unpackWord(0x6c6c6548))
}

func TestTransmitFraming(t *testing.T) {
	clock := sim.NewClock()
	rec := &sim.Recorder{}
	tx := NewTransmitter(rec, &zeroKey{}, clock, DefaultTiming())
	require.Equal(t, []bool{true}, rec.Levels())
	rec.Reset()

	res, err := tx.Encode([]byte{0xA5, 0xA5, 0xA5, 0xA5})
	require.NoError(t, err)
	require.Equal(t, EnqueueResult{Words: 1, Bytes: 4}, res)

	require.True(t, tx.Poll())
	require.False(t, tx.Poll())
	require.Equal(t, TxFraming, tx.State())
	for i := 0; i < FrameBits+1; i++ {
		clock.Advance(DefaultBitPeriod)
	}
	require.Equal(t, TxStopBit, tx.State())

	levels := rec.Levels()
	require.Len(t, levels, FrameBits+2)
	require.False(t, levels[0], "start bit")
	const word = uint32(0xA5A5A5A5)
	for i := 0; i < FrameBits; i++ {
		require.Equal(t, word&(1<<uint(i)) != 0, levels[i+1], "bit %d", i)
	}
	require.True(t, levels[FrameBits+1], "stop bit")

	clock.Advance(DefaultBitPeriod)
	require.Equal(t, TxIdle, tx.State())
	require.Len(t, rec.Levels(), FrameBits+2)
	require.Equal(t, uint64(1), tx.Stats().Frames)

	clock.Advance(10 * DefaultBitPeriod)
	require.Len(t, rec.Levels(), FrameBits+2)
	require.False(t, tx.Poll())
}

func TestTransmitOverflow(t *testing.T) {
	key := &zeroKey{}
	tx := NewTransmitter(&sim.Recorder{}, key, sim.NewClock(), DefaultTiming())
	data := make([]byte, (ring.Capacity+1)*4+2)
	res, err := tx.Encode(data)
	require.NoError(t, err)
	require.True(t, res.Partial())
	require.Equal(t, EnqueueResult{Words: ring.Capacity, Bytes: ring.Capacity * 4, Dropped: 2}, res)
	require.Equal(t, ring.Capacity, key.calls)

	stats := tx.Stats()
	require.Equal(t, uint64(ring.Capacity), stats.Words)
	require.Equal(t, uint64(2), stats.Dropped)
	require.Equal(t, ring.Capacity, stats.Pending)

	res, err = tx.Encode([]byte("x"))
	require.NoError(t, err)
	require.Equal(t, EnqueueResult{Dropped: 1}, res)
}

func TestTransmitEncodeNotSeeded(t *testing.T) {
	tx := NewTransmitter(&sim.Recorder{}, keystream.NewKeyState("tx"), sim.NewClock(), DefaultTiming())
	res, err := tx.Encode([]byte("HI"))
	require.Equal(t, keystream.ErrNotSeeded, err)
	require.Zero(t, res.Words)
	require.Zero(t, tx.Stats().Pending)
}

func TestRoundTripHI(t *testing.T) {
	clock := sim.NewClock()
	tx := NewTransmitter(&sim.Recorder{}, duffingKey(t), clock, DefaultTiming())
	rx := NewReceiver(sim.NewWire(), duffingKey(t), clock, DefaultTiming())

	_, err := tx.Encode([]byte("HI"))
	require.NoError(t, err)
	word, ok := tx.buffer.Pop()
	require.True(t, ok)
	require.Equal(t, uint32(0xBF98D87E), word)

	require.True(t, rx.buffer.Push(word))
	batch, err := rx.Drain()
	require.NoError(t, err)
	require.NotNil(t, batch)
	require.Equal(t, []byte{'H', 'I', 0, 0}, batch.Data)
	require.Equal(t, "48490000", batch.Hex())
	require.True(t, batch.Printable())
	require.Equal(t, "HI", batch.ASCII())

	batch, err = rx.Drain()
	require.NoError(t, err)
	require.Nil(t, batch)
}

func TestEndToEnd(t *testing.T) {
	clock := sim.NewClock()
	wire := sim.NewWire()
	timing := DefaultTiming()
	tx := NewTransmitter(wire, duffingKey(t), clock, timing)
	rx := NewReceiver(wire, duffingKey(t), clock, timing)
	require.NoError(t, rx.Arm())

	res, err := tx.Encode([]byte("Hello World!"))
	require.NoError(t, err)
	require.Equal(t, 3, res.Words)

	for tx.Poll() {
		require.Equal(t, RxSampling, rx.State())
		clock.Advance((FrameBits + 3) * timing.BitPeriod)
		require.Equal(t, TxIdle, tx.State())
		require.Equal(t, RxWaitingForEdge, rx.State())
	}

	select {
	case <-rx.Ready():
	default:
		t.Fatal("receiver not signaled")
	}
	require.Equal(t, uint64(3), rx.Stats().Frames)
	require.Equal(t, uint64(3), tx.Stats().Frames)

	batch, err := rx.Drain()
	require.NoError(t, err)
	require.NotNil(t, batch)
	require.Equal(t, []uint32{0x6c6c6548, 0x6f57206f, 0x21646c72}, batch.Words)
	require.Equal(t, "48656C6C 6F20576F 726C6421", batch.Hex())
	require.True(t, batch.Printable())
	require.Equal(t, "Hello World!", batch.ASCII())
}

func TestEndToEndMismatchedKeys(t *testing.T) {
	clock := sim.NewClock()
	wire := sim.NewWire()
	tx := NewTransmitter(wire, duffingKey(t), clock, DefaultTiming())
	rxKey := keystream.NewKeyState("rx")
	_, err := rxKey.Configure(keystream.Config{
		Kind: keystream.Duffing,
		MapA: keystream.ChaoticMap{X: 0.2, Y: 1.1, Iterations: 10000},
		MapB: keystream.ChaoticMap{X: 0.5, Y: 0.89, Iterations: 10000},
	})
	require.NoError(t, err)
	rx := NewReceiver(wire, rxKey, clock, DefaultTiming())
	require.NoError(t, rx.Arm())

	_, err = tx.Encode([]byte("Hello World!"))
	require.NoError(t, err)
	for tx.Poll() {
		clock.Advance((FrameBits + 3) * DefaultBitPeriod)
	}
	batch, err := rx.Drain()
	require.NoError(t, err)
	require.NotNil(t, batch)
	require.NotEqual(t, "Hello World!", string(batch.Text()))
}

type frozenClock struct {
	now    time.Time
	timers []*frozenTimer
}

type frozenTimer struct {
	running bool
}

func (t *frozenTimer) Start(time.Duration) { t.running = true }
func (t *frozenTimer) Stop()               { t.running = false }

func (c *frozenClock) NewTimer(time.Duration, func()) line.PeriodicTimer {
	t := &frozenTimer{}
	c.timers = append(c.timers, t)
	return t
}

func (c *frozenClock) Now() time.Time {
	return c.now
}

func TestReceiverStall(t *testing.T) {
	clock := &frozenClock{now: time.Unix(100, 0)}
	wire := sim.NewWire()
	timing := DefaultTiming()
	rx := NewReceiver(wire, &zeroKey{}, clock, timing)
	require.NoError(t, rx.Arm())
	require.False(t, rx.CheckStall())

	wire.DriveLow()
	require.Equal(t, RxSampling, rx.State())
	require.True(t, clock.timers[0].running)

	clock.now = clock.now.Add(timing.StallTimeout - time.Nanosecond)
	require.False(t, rx.CheckStall())
	clock.now = clock.now.Add(time.Nanosecond)
	require.True(t, rx.CheckStall())
	require.Equal(t, RxWaitingForEdge, rx.State())
	require.False(t, clock.timers[0].running)
	require.Equal(t, uint64(1), rx.Stats().Stalls)

	wire.DriveHigh()
	wire.DriveLow()
	require.Equal(t, RxSampling, rx.State())
	require.True(t, clock.timers[0].running)
}

func TestReceiverDropsWhenFull(t *testing.T) {
	clock := sim.NewClock()
	wire := sim.NewWire()
	timing := DefaultTiming()
	rx := NewReceiver(wire, &zeroKey{}, clock, timing)
	require.NoError(t, rx.Arm())
	for i := 0; i < ring.Capacity+1; i++ {
		wire.DriveLow()
		wire.DriveHigh()
		clock.Advance((FrameBits + 2) * timing.BitPeriod)
	}
	stats := rx.Stats()
	require.Equal(t, uint64(ring.Capacity), stats.Frames)
	require.Equal(t, uint64(1), stats.Dropped)
	require.Equal(t, ring.Capacity, stats.Pending)

	batch, err := rx.Drain()
	require.NoError(t, err)
	require.Len(t, batch.Words, ring.Capacity)
	require.Equal(t, uint32(0xffffffff), batch.Words[0])
	require.False(t, batch.Printable())
}

func TestBatchFormatting(t *testing.T) {
	b := &Batch{}
	b.append(0x00000141)
	require.Equal(t, "41010000", b.Hex())
	require.Equal(t, []byte{'A', 1}, b.Text())
	require.False(t, b.Printable())
	require.Empty(t, b.ASCII())

	empty := &Batch{}
	empty.append(0)
	require.Empty(t, empty.Text())
	require.False(t, empty.Printable())
}
