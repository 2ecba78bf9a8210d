package comm

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/vlc.go/pkg/framework"
	"github.com/robotalks/vlc.go/pkg/l1"
	"github.com/robotalks/vlc.go/pkg/l1/msgs"
)

const (
	// DefaultCommandExpiration is how long a command waits for its reply.
	DefaultCommandExpiration = 2 * time.Second
	// KeySetupIterationTime is the time allowed per map iteration a
	// LinkKeySet makes the node run during warm-up.
	KeySetupIterationTime = time.Microsecond
)

var (
	// ErrCommandExpired is the result of a command with no reply in time.
	ErrCommandExpired = fmt.Errorf("command expired: %w", context.DeadlineExceeded)
	// ErrConnClosed is the result of commands pending or issued after Close.
	ErrConnClosed = errors.New("connection closed")
)

// CommandError is the result of a command the node answered with
// CommandErr.
type CommandError struct {
	Command string
	Seq     uint32
	Reply   *msgs.CommandErr
}

// Error implements error.
func (e *CommandError) Error() string {
	return e.Command + ": " + e.Reply.Message
}

// CommandExpiration is how long msg waits for its reply. Key setup gets
// extra time for warming up both maps of each configured direction.
func CommandExpiration(msg fx.Message) time.Duration {
	m, ok := msg.(*msgs.LinkKeySet)
	if !ok {
		return DefaultCommandExpiration
	}
	var iterations uint64
	for _, p := range []*msgs.LinkMapParams{m.MapA, m.MapB} {
		if p != nil {
			iterations += uint64(p.Iterations)
		}
	}
	if m.Direction == msgs.LinkBoth {
		iterations *= 2
	}
	return DefaultCommandExpiration + time.Duration(iterations)*KeySetupIterationTime
}

// NodeConn implements l1.NodeConn over a Pipe, matching replies to
// commands by sequence.
type NodeConn struct {
	// Expiration replaces CommandExpiration for every command when set.
	Expiration time.Duration

	pipe    Pipe
	lock    sync.Mutex
	seq     uint32
	pending map[uint32]*commandFuture
	closed  bool
}

// Init sets up the NodeConn over rw.
func (c *NodeConn) Init(rw PacketReadWriter) {
	c.pipe.ReadWriter = rw
	c.pipe.Handler = msgs.HandleTypedMsgFunc(c.handleTypedMsg)
	c.pending = make(map[uint32]*commandFuture)
}

// DoCommand implements l1.NodeConn. The future always resolves: with the
// reply, a CommandError, ErrCommandExpired or ErrConnClosed.
func (c *NodeConn) DoCommand(msg fx.Message) l1.CommandFuture {
	expiration := c.Expiration
	if expiration <= 0 {
		expiration = CommandExpiration(msg)
	}
	f := &commandFuture{
		name:     commandName(msg),
		expireAt: time.Now().Add(expiration),
		result:   make(chan l1.Result, 1),
	}

	c.lock.Lock()
	defer c.lock.Unlock()
	if c.closed {
		f.resolve(l1.Result{Err: ErrConnClosed})
		return f
	}
	if c.seq++; c.seq == 0 {
		c.seq++
	}
	f.seq = c.seq
	// sent under the lock so the reply can't arrive before f is pending
	if err := c.pipe.SendCommandMsg(msg, f.seq); err != nil {
		f.resolve(l1.Result{Err: fmt.Errorf("%s: %w", f.name, err)})
		return f
	}
	c.pending[f.seq] = f
	return f
}

// Pending is the number of commands waiting for a reply.
func (c *NodeConn) Pending() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.pending)
}

// Close fails pending commands and closes the transport.
func (c *NodeConn) Close() error {
	c.lock.Lock()
	c.closed = true
	for seq, f := range c.pending {
		delete(c.pending, seq)
		f.resolve(l1.Result{Err: ErrConnClosed})
	}
	c.lock.Unlock()
	return c.pipe.Close()
}

// AddToLoop implements LoopAdder.
func (c *NodeConn) AddToLoop(l *fx.Loop) {
	l.Add(&c.pipe)
	l.AddController(fx.PrLvIdle, fx.ControlFunc(c.purgeExpired))
}

func (c *NodeConn) handleTypedMsg(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
	if typed.IsEvent() {
		postToLoop(ctx, msg)
		return nil
	}
	c.lock.Lock()
	f := c.pending[typed.Sequence]
	delete(c.pending, typed.Sequence)
	c.lock.Unlock()
	if f == nil {
		glog.V(1).Infof("Reply %T #%d dropped, command not pending", msg, typed.Sequence)
		return nil
	}
	result := l1.Result{Msg: msg}
	if reply, ok := msg.(*msgs.CommandErr); ok {
		result.Err = &CommandError{Command: f.name, Seq: f.seq, Reply: reply}
	}
	f.resolve(result)
	return nil
}

func (c *NodeConn) purgeExpired(cc fx.ControlContext) error {
	now := cc.Time()
	c.lock.Lock()
	defer c.lock.Unlock()
	for seq, f := range c.pending {
		if now.Before(f.expireAt) {
			continue
		}
		delete(c.pending, seq)
		glog.Warningf("%s #%d expired", f.name, seq)
		f.resolve(l1.Result{Err: fmt.Errorf("%s: %w", f.name, ErrCommandExpired)})
	}
	return nil
}

func commandName(msg fx.Message) string {
	if msg == nil {
		return "<nil>"
	}
	return reflect.Indirect(reflect.ValueOf(msg)).Type().Name()
}

type commandFuture struct {
	name     string
	seq      uint32
	expireAt time.Time
	result   chan l1.Result
}

func (f *commandFuture) ResultChan() <-chan l1.Result {
	return f.result
}

func (f *commandFuture) resolve(result l1.Result) {
	f.result <- result
	close(f.result)
}
