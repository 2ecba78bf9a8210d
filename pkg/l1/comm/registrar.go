package comm

import (
	"context"

	"github.com/golang/glog"

	fx "github.com/robotalks/vlc.go/pkg/framework"
	"github.com/robotalks/vlc.go/pkg/l1"
	"github.com/robotalks/vlc.go/pkg/l1/msgs"
)

// Registrar is the node side of a Pipe. Commands are posted to the loop as
// l1.CommandMsg and replied through the same pipe; events from the peer
// are posted as they are.
type Registrar struct {
	pipe Pipe
}

// Init sets up the Registrar over rw.
func (r *Registrar) Init(rw PacketReadWriter) {
	r.pipe.ReadWriter = rw
	r.pipe.Handler = msgs.HandleTypedMsgFunc(r.handleTypedMsg)
}

func (r *Registrar) handleTypedMsg(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
	if typed.IsCommand() {
		msg = &l1.CommandMsg{Command: &command{seq: typed.Sequence, msg: msg, pipe: &r.pipe}}
	}
	postToLoop(ctx, msg)
	return nil
}

// postToLoop hands msg to the loop running the pipe and wakes it up.
func postToLoop(ctx context.Context, msg fx.Message) {
	loopCtl := fx.LoopCtlFrom(ctx)
	loopCtl.PostMessage(msg)
	loopCtl.TriggerNext()
}

// SendEvent implements l1.Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	return r.pipe.SendEventMsg(msg)
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.Add(&r.pipe)
}

// Serve runs the pipe until ctx is done or the peer is gone. It is for
// registrars created per session; ctx must come from a Runnable of the
// loop, as LoopCtlFrom is used to post messages.
func (r *Registrar) Serve(ctx context.Context) error {
	return r.pipe.Run(ctx)
}

type command struct {
	seq  uint32
	msg  fx.Message
	pipe *Pipe
}

func (c *command) Msg() fx.Message { return c.msg }

func (c *command) Done(reply fx.Message) error {
	if err := c.pipe.SendCommandMsg(reply, c.seq); err != nil {
		glog.Errorf("Reply %T to #%d failed: %v", reply, c.seq, err)
		return err
	}
	return nil
}

// RegistrarMux fans events out to every registrar a node is known by,
// e.g. an MQTT broker and direct websocket sessions.
type RegistrarMux struct {
	Registrars []l1.Registrar
}

// Add adds registrars.
func (r *RegistrarMux) Add(regs ...l1.Registrar) {
	r.Registrars = append(r.Registrars, regs...)
}

// Len is the number of registrars.
func (r *RegistrarMux) Len() int {
	return len(r.Registrars)
}

// SendEvent implements l1.Registrar. Every registrar is tried.
func (r *RegistrarMux) SendEvent(ctx context.Context, msg fx.Message) error {
	var errs fx.AggregatedError
	for _, reg := range r.Registrars {
		errs.Add(reg.SendEvent(ctx, msg))
	}
	return errs.Aggregate()
}

// AddToLoop implements LoopAdder.
func (r *RegistrarMux) AddToLoop(l *fx.Loop) {
	for _, reg := range r.Registrars {
		if adder, ok := reg.(fx.LoopAdder); ok {
			l.Add(adder)
		}
	}
}

// UnsupportedCommands answers every command nobody took with
// ErrUnsupportedCommand, so consoles don't wait for the timeout.
type UnsupportedCommands struct{}

// Control implements Controller.
func (c *UnsupportedCommands) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		cmdMsg, ok := mctx.CurrentMessage().(*l1.CommandMsg)
		if !ok {
			return
		}
		mctx.MessageTaken()
		glog.V(1).Infof("Unsupported command %T", cmdMsg.Command.Msg())
		cmdMsg.Command.Done(msgs.NewCommandErr(msgs.ErrUnsupportedCommand))
	}))
	return nil
}

// AddToLoop implements LoopAdder.
func (c *UnsupportedCommands) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvIdle, c)
}
