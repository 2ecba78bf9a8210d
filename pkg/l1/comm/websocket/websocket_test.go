package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/vlc.go/pkg/framework"
	"github.com/robotalks/vlc.go/pkg/l1"
	"github.com/robotalks/vlc.go/pkg/l1/comm"
	"github.com/robotalks/vlc.go/pkg/l1/msgs"
)

func TestRegistrarAndConnector(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	info := l1.NodeInfo{
		Ref:  l1.NodeRef{Type: "vlc", ID: "n1"},
		Meta: l1.NodeMeta{Description: "test node"},
	}
	reg := NewRegistrar("127.0.0.1:0", info)
	addr, err := reg.Listen()
	require.NoError(t, err)

	nodeLoop := fx.NewLoop()
	nodeLoop.Add(reg)
	nodeLoop.AddController(fx.PrLvControl, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
			if cmd, ok := mctx.CurrentMessage().(*l1.CommandMsg); ok {
				if m, ok := cmd.Command.Msg().(*msgs.LinkTransmit); ok {
					mctx.MessageTaken()
					cmd.Command.Done(&msgs.LinkTransmitReply{Words: uint32((len(m.Data) + 3) / 4), Bytes: uint32(len(m.Data))})
				}
			}
		}))
		return nil
	}))
	nodeLoop.Add(&comm.UnsupportedCommands{})
	go nodeLoop.Run(ctx)

	connector, err := NewConnector("ws://" + addr.String())
	require.NoError(t, err)
	infoList, err := connector.Discover(ctx)
	require.NoError(t, err)
	require.Equal(t, []l1.NodeInfo{info}, infoList)

	conn, err := connector.Connect(ctx, info.Ref)
	require.NoError(t, err)
	events := make(chan fx.Message, 1)
	consoleLoop := fx.NewLoop()
	consoleLoop.Add(conn.(fx.LoopAdder))
	consoleLoop.AddController(fx.PrLvControl, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
			mctx.MessageTaken()
			events <- mctx.CurrentMessage()
		}))
		return nil
	}))
	go consoleLoop.Run(ctx)

	var res l1.Result
	select {
	case res = <-conn.DoCommand(&msgs.LinkTransmit{Data: []byte("Hello")}).ResultChan():
	case <-time.After(5 * time.Second):
		t.Fatal("command timeout")
	}
	require.NoError(t, res.Err)
	require.Equal(t, &msgs.LinkTransmitReply{Words: 2, Bytes: 5}, res.Msg)
	require.Equal(t, 1, reg.Sessions())

	require.NoError(t, reg.SendEvent(ctx, &msgs.LinkReceived{Hex: "48656C6C 6F000000"}))
	select {
	case ev := <-events:
		require.Equal(t, &msgs.LinkReceived{Hex: "48656C6C 6F000000"}, ev)
	case <-time.After(5 * time.Second):
		t.Fatal("event not received")
	}
}

func TestNewConnectorScheme(t *testing.T) {
	_, err := NewConnector("mqtt://localhost:1883")
	require.Error(t, err)
	c, err := NewConnector("wss://node:8443")
	require.NoError(t, err)
	require.Equal(t, "https://node:8443/meta", c.httpURL(MetaPath))
}
