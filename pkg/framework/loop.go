package framework

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is the tick of a Loop unless Interval is set.
const DefaultInterval = 100 * time.Millisecond

// Loop runs controllers by priority level on every tick, or earlier when
// TriggerNext is called. Runnables run in their own goroutines for the
// lifetime of the loop and talk to controllers with posted messages.
type Loop struct {
	Interval time.Duration

	levels  [PriorityLevels]level
	runners []Runnable

	lock     sync.Mutex
	messages []Message
	wakeUpCh chan struct{}
}

// LoopAdder adds its controllers and runnables to a Loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

type level struct {
	controllers []Controller

	lock      sync.Mutex
	postHooks []Controller
}

type loopCtxKey struct{}

// LoopCtlFrom gets the LoopControl of the loop running a Runnable.
func LoopCtlFrom(ctx context.Context) LoopControl {
	return ctx.Value(loopCtxKey{}).(LoopControl)
}

// NewLoop creates a Loop ticking at DefaultInterval.
func NewLoop() *Loop {
	return &Loop{
		Interval: DefaultInterval,
		wakeUpCh: make(chan struct{}, 1),
	}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers at priorityLevel. A controller which
// is also a Runnable is run as well.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	lv := &l.levels[priorityLevel]
	lv.controllers = append(lv.controllers, ctls...)
	for _, ctl := range ctls {
		if runnable, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runnable)
		}
	}
	return l
}

// AddRunnable adds runnables.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Run implements Runnable. It returns when ctx is done and all runnables
// have stopped.
func (l *Loop) Run(ctx context.Context) error {
	if l.wakeUpCh == nil {
		l.wakeUpCh = make(chan struct{}, 1)
	}
	runner := NewRunnerWith(context.WithValue(ctx, loopCtxKey{}, LoopControl(l)))
	runner.Go(l.runners...)
	defer func() {
		if err := runner.Wait(); err != nil {
			glog.Errorf("loop runnables: %v", err)
		}
	}()

	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-l.wakeUpCh:
		}
		l.runIteration(ctx)
	}
}

// RunOrFail runs the loop until Ctrl-C or SIGTERM and exits the process on
// failure. It is meant for main.
func (l *Loop) RunOrFail() {
	runner := NewRunner().HandleSignals()
	if err := l.Run(runner.Context); err != nil && err != context.Canceled {
		glog.Exit(err)
	}
}

// PostMessage implements LoopControl.
func (l *Loop) PostMessage(msg Message) {
	l.lock.Lock()
	l.messages = append(l.messages, msg)
	l.lock.Unlock()
}

// TriggerNext implements LoopControl.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

func (l *Loop) runIteration(ctx context.Context) {
	iter := &iteration{loop: l, time: time.Now()}
	l.lock.Lock()
	iter.messages, l.messages = l.messages, nil
	l.lock.Unlock()
	iter.ctx = ctx
	for i := range l.levels {
		iter.priorityLevel = i
		l.levels[i].run(iter)
	}
	if len(iter.messages) > 0 {
		glog.V(3).Infof("%d messages not taken", len(iter.messages))
	}
}

func (lv *level) run(iter *iteration) {
	runControllers(iter, lv.controllers)
	lv.lock.Lock()
	hooks := lv.postHooks
	lv.postHooks = nil
	lv.lock.Unlock()
	runControllers(iter, hooks)
}

func runControllers(iter *iteration, ctls []Controller) {
	for _, ctl := range ctls {
		if err := ctl.Control(iter); err != nil {
			glog.Errorf("controller %T at level %d: %v", ctl, iter.priorityLevel, err)
		}
	}
}

type iteration struct {
	loop          *Loop
	ctx           context.Context
	time          time.Time
	priorityLevel int
	messages      []Message
}

func (t *iteration) Context() context.Context { return t.ctx }
func (t *iteration) Time() time.Time          { return t.time }
func (t *iteration) PriorityLevel() int       { return t.priorityLevel }
func (t *iteration) Messages() MessageStore   { return t }
func (t *iteration) PostMessage(msg Message)  { t.loop.PostMessage(msg) }
func (t *iteration) TriggerNext()             { t.loop.TriggerNext() }

func (t *iteration) PostRun(hooks ...Controller) {
	lv := &t.loop.levels[t.priorityLevel]
	lv.lock.Lock()
	lv.postHooks = append(lv.postHooks, hooks...)
	lv.lock.Unlock()
}

type messageContext struct {
	msg   Message
	taken bool
	stop  bool
}

func (c *messageContext) CurrentMessage() Message { return c.msg }
func (c *messageContext) MessageTaken()           { c.taken = true }
func (c *messageContext) StopProcessing()         { c.stop = true }

// ProcessMessages implements MessageStore. Messages not taken stay, in
// order, for the controllers that follow.
func (t *iteration) ProcessMessages(proc MessageProcessor) {
	pending := t.messages
	remains := pending[:0:0]
	for i, msg := range pending {
		mctx := &messageContext{msg: msg}
		proc.ProcessMessage(mctx)
		if !mctx.taken {
			remains = append(remains, msg)
		}
		if mctx.stop {
			remains = append(remains, pending[i+1:]...)
			break
		}
	}
	t.messages = remains
}
