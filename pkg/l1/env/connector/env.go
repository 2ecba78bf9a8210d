// Package connector configures how consoles reach link nodes.
package connector

import (
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/vlc.go/pkg/l1"
	"github.com/robotalks/vlc.go/pkg/l1/comm/mqtt"
	"github.com/robotalks/vlc.go/pkg/l1/comm/websocket"
)

// Config selects the registry and optionally the node to connect.
type Config struct {
	Ref l1.NodeRef

	// RegistryURL is a broker, mqtt://host:port/topic-prefix/, or a node
	// serving websocket, ws://host:port.
	RegistryURL string
}

var defaultConfig = Config{
	RegistryURL: "mqtt://localhost:1883/vlc/",
}

func init() {
	if val := os.Getenv("VLC_NODE_TYPE"); val != "" {
		defaultConfig.Ref.Type = val
	}
	if val := os.Getenv("VLC_NODE_ID"); val != "" {
		defaultConfig.Ref.ID = val
	}
	if val := os.Getenv("VLC_REGISTRY_URL"); val != "" {
		defaultConfig.RegistryURL = val
	}
}

type refFlag struct{ ref *l1.NodeRef }

func (f refFlag) String() string {
	if f.ref == nil || !f.ref.IsValid() {
		return ""
	}
	return f.ref.Name()
}

func (f refFlag) Set(s string) (err error) {
	*f.ref, err = l1.ParseNodeRef(s)
	return
}

// SetupFlags registers the flags on the std flag set.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Ref.Type, "node-type", defaultConfig.Ref.Type, "Node type to connect.")
	flag.StringVar(&defaultConfig.Ref.ID, "node-id", defaultConfig.Ref.ID, "Node ID to connect.")
	flag.Var(refFlag{&defaultConfig.Ref}, "node", "Node to connect, as TYPE/ID.")
	flag.StringVar(&defaultConfig.RegistryURL, "reg", defaultConfig.RegistryURL, "Node registry URL.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig copies the default config.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewConnector creates the Connector of the registry URL scheme.
func (c *Config) NewConnector() (l1.Connector, error) {
	u, err := url.Parse(c.RegistryURL)
	if err != nil {
		return nil, fmt.Errorf("invalid registry URL: %v", err)
	}
	switch u.Scheme {
	case "mqtt", "mqtts":
		return mqtt.NewConnector(c.RegistryURL)
	case "ws", "wss":
		return websocket.NewConnector(c.RegistryURL)
	default:
		return nil, fmt.Errorf("unknown registry URL scheme: %q", u.Scheme)
	}
}

// MustNewConnector creates a Connector or exits.
func (c *Config) MustNewConnector() l1.Connector {
	conn, err := c.NewConnector()
	if err != nil {
		glog.Exit(err)
	}
	return conn
}
