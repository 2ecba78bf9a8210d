package comm_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/vlc.go/pkg/framework"
	"github.com/robotalks/vlc.go/pkg/l1"
	"github.com/robotalks/vlc.go/pkg/l1/comm"
	"github.com/robotalks/vlc.go/pkg/l1/comm/stream"
	"github.com/robotalks/vlc.go/pkg/l1/msgs"
)

func TestNodeConnWithRegistrar(t *testing.T) {
	nodeSide, consoleSide := net.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reg comm.Registrar
	reg.Init(stream.New(nodeSide))
	nodeLoop := fx.NewLoop()
	nodeLoop.Add(&reg)
	nodeLoop.AddController(fx.PrLvControl, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
			cmd, ok := mctx.CurrentMessage().(*l1.CommandMsg)
			if !ok {
				return
			}
			if _, ok := cmd.Command.Msg().(*msgs.LinkInfoQuery); ok {
				mctx.MessageTaken()
				cmd.Command.Done(&msgs.LinkInfo{BitPeriodNs: 20000, Capacity: 128})
			}
		}))
		return nil
	}))
	nodeLoop.Add(&comm.UnsupportedCommands{})

	var conn comm.NodeConn
	conn.Init(stream.New(consoleSide))
	events := make(chan fx.Message, 1)
	consoleLoop := fx.NewLoop()
	consoleLoop.Add(&conn)
	consoleLoop.AddController(fx.PrLvControl, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
			mctx.MessageTaken()
			events <- mctx.CurrentMessage()
		}))
		return nil
	}))

	go nodeLoop.Run(ctx)
	go consoleLoop.Run(ctx)

	result := waitResult(t, conn.DoCommand(&msgs.LinkInfoQuery{}))
	require.NoError(t, result.Err)
	require.Equal(t, &msgs.LinkInfo{BitPeriodNs: 20000, Capacity: 128}, result.Msg)

	result = waitResult(t, conn.DoCommand(&msgs.LinkStatsQuery{}))
	var cmdErr *comm.CommandError
	require.True(t, errors.As(result.Err, &cmdErr))
	require.Equal(t, "LinkStatsQuery", cmdErr.Command)
	require.Equal(t, msgs.ErrUnsupportedCommand.Error(), cmdErr.Reply.Message)
	require.Equal(t, result.Msg, cmdErr.Reply)
	require.Zero(t, conn.Pending())

	require.NoError(t, reg.SendEvent(ctx, &msgs.LinkReceived{Ascii: "HI", Printable: true}))
	select {
	case ev := <-events:
		require.Equal(t, &msgs.LinkReceived{Ascii: "HI", Printable: true}, ev)
	case <-time.After(5 * time.Second):
		t.Fatal("event not received")
	}
}

func waitResult(t *testing.T, f l1.CommandFuture) l1.Result {
	select {
	case res := <-f.ResultChan():
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("command timeout")
	}
	return l1.Result{}
}
