package mqtt

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	fx "github.com/robotalks/vlc.go/pkg/framework"
	"github.com/robotalks/vlc.go/pkg/l1"
	"github.com/robotalks/vlc.go/pkg/l1/comm"
)

// DefaultDiscoverTimeout is how long Discover collects retained metas.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// Connector finds and connects nodes registered on a broker.
type Connector struct {
	DiscoverTimeout time.Duration

	options     *paho.ClientOptions
	topicPrefix string
}

// NewConnector creates a Connector on brokerURL.
func NewConnector(brokerURL string) (*Connector, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return &Connector{
		DiscoverTimeout: DefaultDiscoverTimeout,
		options:         opts,
		topicPrefix:     topicPrefix,
	}, nil
}

// Discover implements l1.Connector. Nodes are reported once, in the order
// their metas arrive.
func (c *Connector) Discover(ctx context.Context) ([]l1.NodeInfo, error) {
	q := NewQueue(c.options, c.topicPrefix)
	if err := q.ConnectWait(DefaultConnectTimeout); err != nil {
		return nil, err
	}
	defer q.Close()

	infoCh := make(chan l1.NodeInfo, 16)
	sub := q.Sub("+/+/meta", Handler(func(topic string, payload []byte) {
		info, ok := parseMeta(topic, payload)
		if !ok {
			return
		}
		select {
		case infoCh <- info:
		case <-time.After(time.Second):
		}
	}))
	defer sub.Close()

	dur := c.DiscoverTimeout
	if dur <= 0 {
		dur = DefaultDiscoverTimeout
	}
	timeout := time.After(dur)
	seen := make(map[l1.NodeRef]bool)
	var res []l1.NodeInfo
	for {
		select {
		case info := <-infoCh:
			if !seen[info.Ref] {
				seen[info.Ref] = true
				res = append(res, info)
			}
		case <-timeout:
			return res, nil
		case <-ctx.Done():
			return res, ctx.Err()
		}
	}
}

// parseMeta gets the node from a <type>/<id>/meta topic. An empty payload
// is a node gone.
func parseMeta(topic string, payload []byte) (info l1.NodeInfo, ok bool) {
	items := strings.Split(topic, "/")
	if len(items) != 3 || len(payload) == 0 {
		return info, false
	}
	info.Ref = l1.NodeRef{Type: items[0], ID: items[1]}
	if err := json.Unmarshal(payload, &info.Meta); err != nil {
		glog.V(1).Infof("Bad meta of %s: %v", info.Ref.Name(), err)
	}
	return info, true
}

// Connect implements l1.Connector.
func (c *Connector) Connect(ctx context.Context, ref l1.NodeRef) (l1.NodeConn, error) {
	conn := &NodeConn{Queue: NewQueue(c.options, c.topicPrefix)}
	conn.Init(NewPacketReadWriter(conn.Queue).ForConnector(ref))
	if err := conn.Queue.ConnectWait(DefaultConnectTimeout); err != nil {
		return nil, err
	}
	return conn, nil
}

// NodeConn is a connection to a node through the broker.
type NodeConn struct {
	comm.NodeConn
	Queue *Queue
}

// Close fails pending commands and disconnects from the broker.
func (c *NodeConn) Close() error {
	var errs fx.AggregatedError
	errs.Add(c.NodeConn.Close())
	errs.Add(c.Queue.Close())
	return errs.Aggregate()
}
