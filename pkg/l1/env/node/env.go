package node

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	fx "github.com/robotalks/vlc.go/pkg/framework"
	"github.com/robotalks/vlc.go/pkg/l1"
	"github.com/robotalks/vlc.go/pkg/l1/comm"
	"github.com/robotalks/vlc.go/pkg/l1/comm/mqtt"
	"github.com/robotalks/vlc.go/pkg/l1/comm/websocket"
	"github.com/robotalks/vlc.go/pkg/l1/env"
)

// Config provides common options to setup an env for link nodes.
type Config struct {
	Info l1.NodeInfo

	// MQTTBrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// ListenAddr serves direct websocket sessions when not empty.
	ListenAddr string
}

var defaultConfig = Config{
	MQTTBrokerURL: "mqtt://localhost:1883/vlc/",
}

func init() {
	if val := os.Getenv("VLC_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("VLC_LISTEN"); val != "" {
		defaultConfig.ListenAddr = val
	}
	if val := os.Getenv("VLC_NODE_ID"); val != "" {
		defaultConfig.Info.Ref.ID = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Info.Ref.Type, "type", defaultConfig.Info.Ref.Type, "Node type")
	flag.StringVar(&defaultConfig.Info.Ref.ID, "id", defaultConfig.Info.Ref.ID, "Node ID, defaults to an ID derived from the machine ID")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL, empty to disable")
	flag.StringVar(&defaultConfig.ListenAddr, "ws", defaultConfig.ListenAddr, "Websocket listen address, empty to disable")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// SetNodeType should be called in init with basic info about the node.
func SetNodeType(typ string, meta l1.NodeMeta) {
	defaultConfig.Info.Ref.Type = typ
	defaultConfig.Info.Meta = meta
}

// Env is the env for link nodes.
type Env struct {
	Config       *Config
	RegistryURLs []string
	Registrar    *comm.RegistrarMux
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewEnv creates Env from config.
func (c *Config) NewEnv() (*Env, error) {
	if c.Info.Ref.ID == "" {
		c.Info.Ref.ID = env.MachineID()
	}
	if !c.Info.Ref.IsValid() {
		return nil, fmt.Errorf("node type and id must be specified")
	}
	env := &Env{
		Config:    c,
		Registrar: &comm.RegistrarMux{},
	}
	if c.MQTTBrokerURL != "" {
		reg, err := mqtt.NewRegistrar(c.MQTTBrokerURL, c.Info)
		if err != nil {
			return nil, fmt.Errorf("create MQTT registrar error: %v", err)
		}
		env.Registrar.Add(reg)
		env.RegistryURLs = append(env.RegistryURLs, c.MQTTBrokerURL)
	}
	if c.ListenAddr != "" {
		env.Registrar.Add(websocket.NewRegistrar(c.ListenAddr, c.Info))
		env.RegistryURLs = append(env.RegistryURLs, "ws://"+c.ListenAddr)
	}
	if env.Registrar.Len() == 0 {
		return nil, fmt.Errorf("at least one registrar is required")
	}
	return env, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	env, err := c.NewEnv()
	if err != nil {
		glog.Exit(err)
	}
	return env
}

// AddToLoop adds controllers/runners to loop.
func (e *Env) AddToLoop(loop *fx.Loop) {
	loop.Add(e.Registrar)
	loop.Add(&comm.UnsupportedCommands{})
}
