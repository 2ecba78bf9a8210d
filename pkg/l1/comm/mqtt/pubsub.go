package mqtt

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

// Handler is called with the topic relative to the queue prefix.
type Handler func(topic string, payload []byte)

// Queue wraps an MQTT client. Topics are relative to TopicPrefix and
// handlers of the same topic filter share one broker subscription, which
// is renewed on every reconnect.
type Queue struct {
	Client       paho.Client
	TopicPrefix  string
	QoS          byte
	OnConnect    ConnectHandler
	OnDisconnect ConnectHandler

	subsLock sync.RWMutex
	filters  map[string]*filterSubs
}

// ConnectHandler is called on connect or connection lost.
type ConnectHandler func(*Queue)

type filterSubs struct {
	wildcard bool
	subs     []*Subscription
}

// Subscription is one handler on a topic filter.
type Subscription struct {
	Token paho.Token

	queue   *Queue
	filter  string
	handler Handler
}

func isWildcard(filter string) bool {
	return strings.Contains(filter, "+") || strings.HasSuffix(filter, "#")
}

// MatchTopic matches topic with pattern.
func MatchTopic(topic, pattern string) bool {
	tokensT, tokensP := strings.Split(topic, "/"), strings.Split(pattern, "/")
	if len(tokensP) > len(tokensT) {
		return false
	}
	for i, token := range tokensP {
		if token == "+" {
			continue
		}
		if token == "#" && i+1 == len(tokensP) {
			break
		}
		if token != tokensT[i] {
			return false
		}
	}
	return true
}

// ClientOptionsFromURL creates ClientOptions from URL.
func ClientOptionsFromURL(serverURL string) (*paho.ClientOptions, string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, "", err
	}
	var server string
	switch u.Scheme {
	case "", "mqtt":
		server = "tcp"
	case "mqtts":
		server = "ssl"
	default:
		server = u.Scheme
	}
	server += "://" + u.Host

	topicPrefix := u.Path
	if strings.HasPrefix(topicPrefix, "/") {
		topicPrefix = topicPrefix[1:]
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(server).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			opts.SetPassword(pwd)
		}
	}

	if clientID := u.Query().Get("client-id"); clientID != "" {
		opts.SetClientID(clientID)
	}

	return opts, topicPrefix, nil
}

// NewQueue creates Queue.
func NewQueue(options *paho.ClientOptions, topicPrefix string) *Queue {
	q := &Queue{TopicPrefix: topicPrefix}
	options.SetOnConnectHandler(q.OnConnectHandler)
	options.SetConnectionLostHandler(q.ConnectionLostHandler)
	q.Client = paho.NewClient(options)
	return q
}

// NewQueueFromURL creates Queue from URL.
func NewQueueFromURL(brokerURL string) (*Queue, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return NewQueue(opts, topicPrefix), nil
}

// Connect connects the client.
func (q *Queue) Connect() paho.Token {
	return q.Client.Connect()
}

// ConnectWait connects the client and waits for at most timeout.
func (q *Queue) ConnectWait(timeout time.Duration) error {
	token := q.Client.Connect()
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("connect %s timeout", q.TopicPrefix)
	}
	return token.Error()
}

// Close implements io.Closer.
func (q *Queue) Close() error {
	q.Client.Disconnect(0)
	return nil
}

// Sub adds handler on a topic filter.
func (q *Queue) Sub(filter string, handler Handler) *Subscription {
	sub := &Subscription{queue: q, filter: filter, handler: handler}
	q.subsLock.Lock()
	if q.filters == nil {
		q.filters = make(map[string]*filterSubs)
	}
	fs := q.filters[filter]
	newFilter := fs == nil
	if newFilter {
		fs = &filterSubs{wildcard: isWildcard(filter)}
		q.filters[filter] = fs
	}
	fs.subs = append(fs.subs, sub)
	q.subsLock.Unlock()

	if newFilter {
		glog.V(2).Infof("SUB %q", q.TopicPrefix+filter)
		sub.Token = q.Client.Subscribe(q.TopicPrefix+filter, q.QoS, q.dispatch)
	} else {
		sub.Token = &paho.DummyToken{}
	}
	return sub
}

// Pub publishes to a topic with the queue QoS.
func (q *Queue) Pub(topic string, payload []byte) paho.Token {
	return q.PubWith(topic, payload, q.QoS, false)
}

// PubWith publishes with QoS and retain settings.
func (q *Queue) PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token {
	return q.Client.Publish(q.TopicPrefix+topic, qos, retain, payload)
}

// Resubscribe subscribes every filter in use again, for a new session.
func (q *Queue) Resubscribe() paho.Token {
	filters := make(map[string]byte)
	q.subsLock.RLock()
	for filter := range q.filters {
		filters[q.TopicPrefix+filter] = q.QoS
	}
	q.subsLock.RUnlock()
	if len(filters) == 0 {
		return &paho.DummyToken{}
	}
	glog.V(2).Infof("SUB %d filters", len(filters))
	return q.Client.SubscribeMultiple(filters, q.dispatch)
}

// OnConnectHandler is the default implementation of paho.OnConnectHandler.
func (q *Queue) OnConnectHandler(paho.Client) {
	glog.Infof("MQTT connected, prefix %q", q.TopicPrefix)
	q.Resubscribe()
	if h := q.OnConnect; h != nil {
		h(q)
	}
}

// ConnectionLostHandler is the default implementation of paho.ConnectLostHandler.
func (q *Queue) ConnectionLostHandler(c paho.Client, err error) {
	glog.Warningf("MQTT connection lost: %v", err)
	if h := q.OnDisconnect; h != nil {
		h(q)
	}
}

func (q *Queue) dispatch(c paho.Client, msg paho.Message) {
	topic := msg.Topic()
	if !strings.HasPrefix(topic, q.TopicPrefix) {
		return
	}
	topic = topic[len(q.TopicPrefix):]
	glog.V(3).Infof("RCV %q", topic)
	payload := msg.Payload()
	for _, h := range q.handlers(topic) {
		h(topic, payload)
	}
}

// handlers lists the handlers matching topic, exact filters first.
func (q *Queue) handlers(topic string) []Handler {
	var handlers []Handler
	q.subsLock.RLock()
	defer q.subsLock.RUnlock()
	if fs := q.filters[topic]; fs != nil && !fs.wildcard {
		for _, sub := range fs.subs {
			handlers = append(handlers, sub.handler)
		}
	}
	for filter, fs := range q.filters {
		if fs.wildcard && MatchTopic(topic, filter) {
			for _, sub := range fs.subs {
				handlers = append(handlers, sub.handler)
			}
		}
	}
	return handlers
}

// Close removes the handler. The broker subscription is dropped with the
// last handler of the filter.
func (s *Subscription) Close() error {
	q := s.queue
	q.subsLock.Lock()
	var unsub bool
	if fs := q.filters[s.filter]; fs != nil {
		for i, sub := range fs.subs {
			if sub == s {
				fs.subs = append(fs.subs[:i], fs.subs[i+1:]...)
				break
			}
		}
		if unsub = len(fs.subs) == 0; unsub {
			delete(q.filters, s.filter)
		}
	}
	q.subsLock.Unlock()
	if !unsub {
		return nil
	}
	glog.V(2).Infof("UNSUB %q", q.TopicPrefix+s.filter)
	token := q.Client.Unsubscribe(q.TopicPrefix + s.filter)
	token.Wait()
	return token.Error()
}
