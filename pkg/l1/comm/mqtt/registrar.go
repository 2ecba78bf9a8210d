package mqtt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/vlc.go/pkg/framework"
	"github.com/robotalks/vlc.go/pkg/l1"
	"github.com/robotalks/vlc.go/pkg/l1/comm"
)

// Connection retry settings of a Registrar.
const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultRetryInterval  = 5 * time.Second
)

// Registrar announces a node on a broker and serves its commands.
//
// The node's meta is published retained at <prefix><type>/<id>/meta and
// cleared on exit, or by the broker through the will when the node dies.
// Commands arrive on .../cmd, replies and events go to .../msg.
type Registrar struct {
	Queue         *Queue
	Info          l1.NodeInfo
	RetryInterval time.Duration

	metaTopic string
	meta      []byte
	registrar comm.Registrar
}

// NewRegistrar creates a Registrar on brokerURL.
func NewRegistrar(brokerURL string, info l1.NodeInfo) (*Registrar, error) {
	meta, err := json.Marshal(&info.Meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	metaTopic := info.Ref.Name() + "/meta"
	opts.SetBinaryWill(topicPrefix+metaTopic, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("vlc:" + info.Ref.Name())
	}
	r := &Registrar{
		Queue:         NewQueue(opts, topicPrefix),
		Info:          info,
		RetryInterval: DefaultRetryInterval,
		metaTopic:     metaTopic,
		meta:          meta,
	}
	r.Queue.OnConnect = r.announce
	r.registrar.Init(NewPacketReadWriter(r.Queue).ForNode(info.Ref))
	return r, nil
}

// SendEvent implements l1.Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	return r.registrar.SendEvent(ctx, msg)
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.Add(&r.registrar)
	loop.AddRunnable(r)
}

// Run implements Runnable. It keeps trying to connect until it succeeds,
// after that the client reconnects by itself.
func (r *Registrar) Run(ctx context.Context) error {
	for {
		err := r.Queue.ConnectWait(DefaultConnectTimeout)
		if err == nil {
			break
		}
		glog.Warningf("MQTT connect failed: %v, retry in %v", err, r.RetryInterval)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.RetryInterval):
		}
	}
	<-ctx.Done()
	r.Queue.PubWith(r.metaTopic, nil, 1, true).WaitTimeout(time.Second)
	return r.Queue.Close()
}

func (r *Registrar) announce(*Queue) {
	glog.Infof("Registered %s", r.Info.Ref.Name())
	r.Queue.PubWith(r.metaTopic, r.meta, 1, true)
}
