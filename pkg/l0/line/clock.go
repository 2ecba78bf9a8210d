package line

import (
	"sync"
	"time"
)

// RealClock runs timers on the Go runtime timers.
type RealClock struct{}

// NewTimer implements Clock.
func (RealClock) NewTimer(period time.Duration, fn func()) PeriodicTimer {
	return &tickerTimer{period: period, fn: fn}
}

// Now implements Clock.
func (RealClock) Now() time.Time {
	return time.Now()
}

type tickerTimer struct {
	period time.Duration
	fn     func()

	lock sync.Mutex
	stop chan struct{}
}

// Start implements PeriodicTimer.
func (t *tickerTimer) Start(delay time.Duration) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.stop != nil {
		close(t.stop)
	}
	t.stop = make(chan struct{})
	go t.run(delay, t.stop)
}

// Stop implements PeriodicTimer.
func (t *tickerTimer) Stop() {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *tickerTimer) run(delay time.Duration, stop <-chan struct{}) {
	first := time.NewTimer(delay)
	defer first.Stop()
	select {
	case <-stop:
		return
	case <-first.C:
	}
	ticker := time.NewTicker(t.period)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		default:
		}
		t.fn()
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}
