package comm

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/vlc.go/pkg/framework"
	"github.com/robotalks/vlc.go/pkg/l1/msgs"
)

// Pipe exchanges Typed messages over a PacketReadWriter. Received
// messages go to Handler; commands which can't be decoded are answered
// with a CommandErr right away.
type Pipe struct {
	ReadWriter PacketReadWriter
	Handler    msgs.TypedMsgHandler

	sendLock sync.Mutex
}

// NewPipe creates a Pipe over rw.
func NewPipe(rw PacketReadWriter) *Pipe {
	return &Pipe{ReadWriter: rw}
}

// SendCommandMsg sends msg as a command, or a reply to one, with seq.
func (p *Pipe) SendCommandMsg(msg fx.Message, seq uint32) error {
	return p.send(msg, msgs.TypeIDKindCommand, seq)
}

// SendEventMsg sends msg as an event.
func (p *Pipe) SendEventMsg(msg fx.Message) error {
	return p.send(msg, msgs.TypeIDKindEvent, 0)
}

func (p *Pipe) send(msg fx.Message, kind, seq uint32) error {
	typed, err := msgs.TypedFrom(msg)
	if err != nil {
		return fmt.Errorf("%T: %v", msg, err)
	}
	if typed.Kind() != kind {
		return fmt.Errorf("%T: %w", msg, ErrWrongKind)
	}
	typed.Sequence = seq
	return p.SendTyped(typed)
}

// SendTyped encodes and writes typed. Concurrent senders are serialized.
func (p *Pipe) SendTyped(typed *msgs.Typed) error {
	pkt, err := typed.Encode()
	if err != nil {
		return err
	}
	p.sendLock.Lock()
	defer p.sendLock.Unlock()
	return p.ReadWriter.WritePacket(pkt)
}

// Run implements Runnable. It reads until the peer is gone or ctx is done.
func (p *Pipe) Run(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, p, func() error {
		return p.receive(ctx)
	})
}

func (p *Pipe) receive(ctx context.Context) error {
	for {
		pkt, err := p.ReadWriter.ReadPacket()
		if err != nil {
			return err
		}
		typed, err := msgs.DecodeTyped(pkt)
		if err != nil {
			glog.Warningf("Malformed packet (%d bytes) dropped: %v", len(pkt), err)
			continue
		}
		msg, err := typed.Decode()
		if err != nil {
			if !typed.IsCommand() {
				glog.V(1).Infof("Event dropped: %v", err)
				continue
			}
			if err = p.SendCommandMsg(msgs.NewCommandErr(err), typed.Sequence); err != nil {
				return err
			}
			continue
		}
		if p.Handler == nil {
			continue
		}
		if err = p.Handler.HandleTypedMsg(ctx, msg, typed); err != nil {
			return err
		}
	}
}

// Close closes the transport if it can be closed.
func (p *Pipe) Close() error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// AddToLoop implements LoopAdder. The transport is added too when it has
// its own work to run, e.g. an MQTT subscription.
func (p *Pipe) AddToLoop(loop *fx.Loop) {
	switch rw := p.ReadWriter.(type) {
	case fx.LoopAdder:
		loop.Add(rw)
	case fx.Runnable:
		loop.AddRunnable(rw)
	}
	loop.AddRunnable(p)
}
