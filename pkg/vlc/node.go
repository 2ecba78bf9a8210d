// Package vlc implements the link node: both link directions, their
// keystreams and the commands a console uses to drive them.
package vlc

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"

	fx "github.com/robotalks/vlc.go/pkg/framework"
	"github.com/robotalks/vlc.go/pkg/keystream"
	"github.com/robotalks/vlc.go/pkg/l0/line"
	"github.com/robotalks/vlc.go/pkg/l0/link"
	"github.com/robotalks/vlc.go/pkg/l0/ring"
	"github.com/robotalks/vlc.go/pkg/l1"
	"github.com/robotalks/vlc.go/pkg/l1/msgs"
)

// NodeType is the node type registered by link nodes.
const NodeType = "vlc"

// Lines are the physical capabilities a Node drives.
type Lines struct {
	Out   line.Output
	In    line.Input
	Clock line.Clock
	// Closers are closed when the node stops.
	Closers []io.Closer
}

// Node owns the key states and the engines of both directions.
type Node struct {
	Registrar    l1.Registrar
	TxKey        *keystream.KeyState
	RxKey        *keystream.KeyState
	Tx           *link.Transmitter
	Rx           *link.Receiver
	Timing       link.Timing
	Loopback     bool
	PollInterval time.Duration

	closers   []io.Closer
	rxDropped uint64
}

// NewNode creates a Node. The receiver stays disarmed until the RX key is
// configured and the node runs.
func NewNode(reg l1.Registrar, lines Lines, timing link.Timing) *Node {
	n := &Node{
		Registrar: reg,
		TxKey:     keystream.NewKeyState("TX"),
		RxKey:     keystream.NewKeyState("RX"),
		Timing:    timing,
		closers:   lines.Closers,
	}
	n.Tx = link.NewTransmitter(lines.Out, n.TxKey, lines.Clock, timing)
	n.Rx = link.NewReceiver(lines.In, n.RxKey, lines.Clock, timing)
	return n
}

// AddToLoop implements LoopAdder.
func (n *Node) AddToLoop(loop *fx.Loop) {
	if n.PollInterval > 0 {
		loop.Interval = n.PollInterval
	}
	loop.AddRunnable(n)
	loop.AddController(fx.PrLvSense, fx.ControlFunc(n.receive))
	loop.AddController(fx.PrLvControl, n)
	loop.AddController(fx.PrLvAcuate, fx.ControlFunc(n.transmit))
}

// Run implements Runnable. It arms the receiver once the RX key is set
// and wakes up the loop whenever frames are buffered.
func (n *Node) Run(ctx context.Context) error {
	defer n.Close()
	defer n.Tx.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-n.RxKey.Ready():
	}
	if err := n.Rx.Arm(); err != nil {
		return fmt.Errorf("arm receiver error: %v", err)
	}
	defer n.Rx.Disarm()
	glog.Infof("Receiver armed, bit period %v (%.2f Hz)", n.Timing.BitPeriod, n.Timing.Frequency())
	loopCtl := fx.LoopCtlFrom(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-n.Rx.Ready():
			loopCtl.PostMessage(&framesReadyMsg{})
			loopCtl.TriggerNext()
		}
	}
}

// Close releases the lines.
func (n *Node) Close() error {
	var errs fx.AggregatedError
	for _, closer := range n.closers {
		errs.Add(closer.Close())
	}
	n.closers = nil
	return errs.Aggregate()
}

// Control implements Controller.
func (n *Node) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		if msg, ok := mctx.CurrentMessage().(*l1.CommandMsg); ok {
			if reply := n.Execute(msg.Command.Msg()); reply != nil {
				mctx.MessageTaken()
				msg.Command.Done(reply)
			}
		}
	}))
	return nil
}

// Execute runs a link command and returns the reply.
// It returns nil if the message is not a link command.
func (n *Node) Execute(msg fx.Message) fx.Message {
	switch m := msg.(type) {
	case *msgs.LinkKeySet:
		return n.setKey(m)
	case *msgs.LinkKeyQuery:
		return &msgs.LinkKeyStatus{Tx: keyInfo(n.TxKey), Rx: keyInfo(n.RxKey)}
	case *msgs.LinkTransmit:
		return n.transmitData(m.Data)
	case *msgs.LinkInfoQuery:
		return &msgs.LinkInfo{
			BitPeriodNs:  uint64(n.Timing.BitPeriod),
			FrequencyHz:  n.Timing.Frequency(),
			Capacity:     ring.Capacity,
			Loopback:     n.Loopback,
			TxConfigured: n.TxKey.IsConfigured(),
			RxConfigured: n.RxKey.IsConfigured(),
			RxArmed:      n.Rx.Armed(),
		}
	case *msgs.LinkStatsQuery:
		tx, rx := n.Tx.Stats(), n.Rx.Stats()
		return &msgs.LinkStats{
			TxFrames:  tx.Frames,
			TxWords:   tx.Words,
			TxDropped: tx.Dropped,
			TxPending: uint32(tx.Pending),
			RxFrames:  rx.Frames,
			RxDropped: rx.Dropped,
			RxStalls:  rx.Stalls,
			RxPending: uint32(rx.Pending),
		}
	}
	return nil
}

func (n *Node) setKey(m *msgs.LinkKeySet) fx.Message {
	kind, err := keystream.ParseMapKind(m.Kind)
	if err != nil {
		return msgs.NewCommandErr(err)
	}
	if m.MapA == nil || m.MapB == nil {
		return msgs.NewCommandErrFromMsg("both maps must be specified")
	}
	var states []*keystream.KeyState
	switch m.Direction {
	case msgs.LinkBoth:
		states = []*keystream.KeyState{n.TxKey, n.RxKey}
	case msgs.LinkTx:
		states = []*keystream.KeyState{n.TxKey}
	case msgs.LinkRx:
		states = []*keystream.KeyState{n.RxKey}
	default:
		return msgs.NewCommandErrFromMsg("unknown direction")
	}
	config := keystream.Config{
		Kind: kind,
		MapA: mapFromParams(m.MapA),
		MapB: mapFromParams(m.MapB),
	}
	reply := &msgs.LinkKeySetReply{}
	for _, ks := range states {
		warnings, err := ks.Configure(config)
		if err != nil {
			glog.Errorf("Set %s key error: %v", ks.Name, err)
			return msgs.NewCommandErr(err)
		}
		reply.Warnings = warnings
	}
	for _, w := range reply.Warnings {
		glog.Warning(w)
	}
	glog.Infof("%s key set: %s", m.Direction, config)
	return reply
}

func (n *Node) transmitData(data []byte) fx.Message {
	if !n.TxKey.IsConfigured() || !n.RxKey.IsConfigured() {
		return msgs.NewCommandErrFromMsg("cannot transmit: both TX and RX keys must be set")
	}
	if len(data) == 0 {
		return msgs.NewCommandErrFromMsg("no data provided")
	}
	glog.V(1).Infof("Processing data: %q", data)
	res, err := n.Tx.Encode(data)
	if err != nil {
		return msgs.NewCommandErr(err)
	}
	if res.Partial() {
		glog.Warningf("Transmit buffer full, %d words dropped", res.Dropped)
	}
	return &msgs.LinkTransmitReply{
		Words:   uint32(res.Words),
		Bytes:   uint32(res.Bytes),
		Dropped: uint32(res.Dropped),
	}
}

func (n *Node) receive(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		if _, ok := mctx.CurrentMessage().(*framesReadyMsg); ok {
			mctx.MessageTaken()
		}
	}))
	return n.pump(cc.Context())
}

// pump runs the task side of the receiver: stall check, drain and publish.
func (n *Node) pump(ctx context.Context) error {
	if n.Rx.CheckStall() {
		glog.Warningf("Receive stalled, frame abandoned after %v", n.Timing.StallTimeout)
	}
	if dropped := n.Rx.Stats().Dropped; dropped != n.rxDropped {
		glog.Warningf("Receive buffer full, %d frames dropped", dropped-n.rxDropped)
		n.rxDropped = dropped
	}
	batch, err := n.Rx.Drain()
	if batch != nil {
		if perr := n.publish(ctx, batch); perr != nil && err == nil {
			err = perr
		}
	}
	return err
}

func (n *Node) publish(ctx context.Context, batch *link.Batch) error {
	event := &msgs.LinkReceived{
		BatchId:   uuid.NewString(),
		Data:      batch.Data,
		Hex:       batch.Hex(),
		Ascii:     batch.ASCII(),
		Printable: batch.Printable(),
		Words:     uint32(len(batch.Words)),
	}
	glog.Infof("Received (HEX): %s", event.Hex)
	if event.Printable {
		glog.Infof("Received (ASCII): %s", event.Ascii)
	} else {
		glog.Info("Received data is not printable ASCII")
	}
	if n.Registrar == nil {
		return nil
	}
	return n.Registrar.SendEvent(ctx, event)
}

func (n *Node) transmit(cc fx.ControlContext) error {
	if n.Tx.Poll() {
		glog.V(2).Infof("Frame started, %d words pending", n.Tx.Stats().Pending)
	}
	return nil
}

func mapFromParams(p *msgs.LinkMapParams) keystream.ChaoticMap {
	return keystream.ChaoticMap{X: p.X, Y: p.Y, Iterations: p.Iterations}
}

func paramsFromMap(m keystream.ChaoticMap) *msgs.LinkMapParams {
	return &msgs.LinkMapParams{X: m.X, Y: m.Y, Iterations: m.Iterations}
}

func keyInfo(ks *keystream.KeyState) *msgs.LinkKeyInfo {
	if !ks.IsConfigured() {
		return &msgs.LinkKeyInfo{}
	}
	snapshot := ks.Snapshot()
	return &msgs.LinkKeyInfo{
		Configured: true,
		Kind:       snapshot.Config.Kind.String(),
		MapA:       paramsFromMap(snapshot.MapA),
		MapB:       paramsFromMap(snapshot.MapB),
		MswsX:      snapshot.Mixer.X,
		MswsW:      snapshot.Mixer.W,
		MswsS:      snapshot.Mixer.S,
		Words:      snapshot.Words,
	}
}

type framesReadyMsg struct{}

func (m *framesReadyMsg) NewMessage() fx.Message { return &framesReadyMsg{} }
