package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWireFallingEdge(t *testing.T) {
	w := NewWire()
	require.True(t, w.Read())
	edges := 0
	require.NoError(t, w.WatchFalling(func() { edges++ }))
	w.DriveLow()
	require.False(t, w.Read())
	w.DriveLow()
	require.Equal(t, 1, edges)
	w.DriveHigh()
	w.DriveLow()
	require.Equal(t, 2, edges)
	require.NoError(t, w.Unwatch())
	w.DriveHigh()
	w.DriveLow()
	require.Equal(t, 2, edges)
}

func TestRecorder(t *testing.T) {
	w := NewWire()
	r := &Recorder{Output: w}
	r.DriveLow()
	r.DriveHigh()
	require.Equal(t, []bool{false, true}, r.Levels())
	require.True(t, w.Read())
	r.Reset()
	require.Empty(t, r.Levels())
}

func TestClockOrdering(t *testing.T) {
	c := NewClock()
	var order []string
	a := c.NewTimer(10*time.Microsecond, func() { order = append(order, "a") })
	var b interface{ Stop() }
	count := 0
	bt := c.NewTimer(10*time.Microsecond, func() {
		order = append(order, "b")
		if count++; count == 2 {
			b.Stop()
		}
	})
	b = bt
	a.Start(10 * time.Microsecond)
	bt.Start(15 * time.Microsecond)
	c.Advance(50 * time.Microsecond)
	require.Equal(t, []string{"a", "b", "a", "b", "a", "a", "a"}, order)
	require.Equal(t, time.Unix(0, 0).Add(50*time.Microsecond), c.Now())

	a.Stop()
	bt.Start(0)
	order = nil
	count = 0
	c.Advance(0)
	require.Equal(t, []string{"b"}, order)
}
