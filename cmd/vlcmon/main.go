package main

import (
	"flag"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/pflag"

	"github.com/robotalks/vlc.go/pkg/cli/cmds/link"
	"github.com/robotalks/vlc.go/pkg/cli/sh"
	fx "github.com/robotalks/vlc.go/pkg/framework"
	"github.com/robotalks/vlc.go/pkg/l1/comm/mqtt"
	"github.com/robotalks/vlc.go/pkg/l1/msgs"
)

var (
	mqttURL = "mqtt://localhost:1883/vlc/"
)

func init() {
	if val := os.Getenv("VLC_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()
	flag.CommandLine.Parse([]string{})

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		glog.Exit(err)
	}

	runner := fx.NewRunner().HandleSignals()
	if err := q.ConnectWait(mqtt.DefaultConnectTimeout); err != nil {
		glog.Exit(err)
	}
	defer q.Close()
	q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
		if strings.HasSuffix(topic, "/meta") {
			glog.Infof("%s: %s", topic, string(payload))
			return
		}
		typed, err := msgs.DecodeTyped(payload)
		if err != nil {
			glog.Warningf("%s: bad message: %v", topic, err)
			return
		}
		msg, err := typed.Decode()
		if err != nil {
			glog.Warningf("%s: decode error: (type_id=%x) %v", topic, typed.TypeId, err)
			return
		}
		if text, ok := link.FormatReceived(msg); ok {
			glog.Infof("%s:\n%s", topic, text)
			return
		}
		glog.Infof("%s: %s", topic, sh.FormatMessage(msg))
	}))
	<-runner.Context.Done()
}
