package line

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTickerTimerStopsFromCallback(t *testing.T) {
	var count atomic.Int32
	done := make(chan struct{})
	var timer PeriodicTimer
	timer = RealClock{}.NewTimer(time.Millisecond, func() {
		if count.Add(1) == 3 {
			timer.Stop()
			close(done)
		}
	})
	timer.Start(time.Millisecond)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timer never fired")
	}
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, int32(3), count.Load())
}

func TestTickerTimerRestart(t *testing.T) {
	fired := make(chan struct{}, 16)
	timer := RealClock{}.NewTimer(time.Hour, func() { fired <- struct{}{} })
	timer.Start(time.Hour)
	timer.Start(time.Millisecond)
	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("restarted timer never fired")
	}
	timer.Stop()
}
