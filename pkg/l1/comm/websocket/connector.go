package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/net/websocket"

	"github.com/robotalks/vlc.go/pkg/l1"
	"github.com/robotalks/vlc.go/pkg/l1/comm"
)

// Connector implements l1.Connector by dialing a node directly.
type Connector struct {
	// BaseURL is ws://host:port of the node.
	BaseURL *url.URL
}

// NewConnector creates a Connector.
func NewConnector(nodeURL string) (*Connector, error) {
	u, err := url.Parse(nodeURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("unsupported websocket scheme %q", u.Scheme)
	}
	return &Connector{BaseURL: u}, nil
}

func (c *Connector) httpURL(path string) string {
	u := *c.BaseURL
	if u.Scheme == "wss" {
		u.Scheme = "https"
	} else {
		u.Scheme = "http"
	}
	u.Path = path
	return u.String()
}

// Discover implements Connector. It returns the single node behind the URL.
func (c *Connector) Discover(ctx context.Context) ([]l1.NodeInfo, error) {
	req, err := http.NewRequest(http.MethodGet, c.httpURL(MetaPath), nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discover %s: %s", c.BaseURL, resp.Status)
	}
	var info l1.NodeInfo
	if err = json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return []l1.NodeInfo{info}, nil
}

// Connect implements Connector. ref is informational as the URL
// already identifies the node.
func (c *Connector) Connect(ctx context.Context, ref l1.NodeRef) (l1.NodeConn, error) {
	u := *c.BaseURL
	u.Path = LinkPath
	conn, err := websocket.Dial(u.String(), "", c.httpURL("/"))
	if err != nil {
		return nil, err
	}
	nc := &NodeConn{Ref: ref}
	nc.Init(New(conn))
	return nc, nil
}

// NodeConn is a direct websocket connection to a node.
type NodeConn struct {
	comm.NodeConn
	Ref l1.NodeRef
}
