package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testMsg struct {
	id int
}

func (m *testMsg) NewMessage() Message { return &testMsg{} }

type runFunc func(context.Context) error

func (f runFunc) Run(ctx context.Context) error { return f(ctx) }

func TestLoopIterationOrder(t *testing.T) {
	loop := NewLoop()
	var order []string
	loop.AddController(PrLvLow, ControlFunc(func(cc ControlContext) error {
		order = append(order, "low")
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mctx MessageProcessingContext) {
			mctx.MessageTaken()
			order = append(order, "msg")
		}))
		return nil
	}))
	loop.AddController(PrLvHigh, ControlFunc(func(cc ControlContext) error {
		order = append(order, "high")
		cc.PostRun(ControlFunc(func(ControlContext) error {
			order = append(order, "hook")
			return nil
		}))
		return nil
	}))

	loop.PostMessage(&testMsg{id: 1})
	loop.runIteration(context.Background())
	require.Equal(t, []string{"high", "hook", "low", "msg"}, order)

	order = nil
	loop.runIteration(context.Background())
	require.Equal(t, []string{"high", "hook", "low"}, order)
}

func TestLoopUntakenMessagesPassDown(t *testing.T) {
	loop := NewLoop()
	var seen []int
	loop.AddController(PrLvHigh, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mctx MessageProcessingContext) {
			if mctx.CurrentMessage().(*testMsg).id == 1 {
				mctx.MessageTaken()
			}
		}))
		return nil
	}))
	loop.AddController(PrLvLow, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mctx MessageProcessingContext) {
			mctx.MessageTaken()
			seen = append(seen, mctx.CurrentMessage().(*testMsg).id)
		}))
		return nil
	}))
	loop.PostMessage(&testMsg{id: 1})
	loop.PostMessage(&testMsg{id: 2})
	loop.runIteration(context.Background())
	require.Equal(t, []int{2}, seen)
}

func TestLoopTriggerNext(t *testing.T) {
	loop := NewLoop()
	loop.Interval = time.Hour
	got := make(chan int, 1)
	loop.AddController(PrLvControl, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mctx MessageProcessingContext) {
			mctx.MessageTaken()
			got <- mctx.CurrentMessage().(*testMsg).id
		}))
		return nil
	}))
	loop.AddRunnable(runFunc(func(ctx context.Context) error {
		loopCtl := LoopCtlFrom(ctx)
		loopCtl.PostMessage(&testMsg{id: 7})
		loopCtl.TriggerNext()
		<-ctx.Done()
		return ctx.Err()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()
	select {
	case id := <-got:
		require.Equal(t, 7, id)
	case <-time.After(5 * time.Second):
		t.Fatal("message not processed")
	}
	cancel()
	require.Equal(t, context.Canceled, <-done)
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil).Aggregate())
	errs.Add(context.Canceled, nil, context.DeadlineExceeded)
	require.Len(t, errs.Errors, 2)
	require.Contains(t, errs.Aggregate().Error(), "Multiple errors:")
	require.True(t, errors.Is(errs.Aggregate(), context.DeadlineExceeded))

	var one AggregatedError
	require.EqualError(t, one.Add(context.Canceled).Aggregate(), context.Canceled.Error())
}

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

func TestRunWithContextCloser(t *testing.T) {
	closed := 0
	closer := closeFunc(func() error { closed++; return nil })
	err := RunWithContextCloser(context.Background(), closer, func() error { return nil })
	require.NoError(t, err)
	require.Equal(t, 1, closed)

	unblock := make(chan struct{})
	closer = closeFunc(func() error { closed++; close(unblock); return nil })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = RunWithContextCloser(ctx, closer, func() error {
		<-unblock
		return nil
	})
	require.Equal(t, context.Canceled, err)
	require.Equal(t, 2, closed)
}

func TestRunnerWait(t *testing.T) {
	boom := errors.New("boom")
	runner := NewRunner().Go(
		runFunc(func(context.Context) error { return boom }),
		runFunc(func(context.Context) error { return context.Canceled }),
		runFunc(func(context.Context) error { return nil }),
	)
	err := runner.Wait()
	require.True(t, errors.Is(err, boom))
	require.Len(t, err.(*AggregatedError).Errors, 1)
}
