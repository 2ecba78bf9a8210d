package main

import (
	"flag"

	"github.com/golang/glog"
	"github.com/spf13/pflag"

	fx "github.com/robotalks/vlc.go/pkg/framework"
	"github.com/robotalks/vlc.go/pkg/l1"
	env "github.com/robotalks/vlc.go/pkg/l1/env/node"
	"github.com/robotalks/vlc.go/pkg/vlc"
)

func init() {
	env.SetNodeType(vlc.NodeType, l1.NodeMeta{Description: "Secure VLC link"})
	env.SetupFlags()
	vlc.SetupFlags()
}

func main() {
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()
	flag.CommandLine.Parse([]string{})

	conf := vlc.NewConfig()
	if conf.Loopback && !pflag.CommandLine.Changed("bit-period") {
		conf.BitPeriod = vlc.LoopbackBitPeriod
	}

	env := env.NewConfig().MustNewEnv()
	node, err := conf.NewNode(env.Registrar)
	if err != nil {
		glog.Exit(err)
	}
	glog.Infof("Node %s registered at %v", env.Config.Info.Ref.Name(), env.RegistryURLs)
	fx.NewLoop().Add(env, node).RunOrFail()
}
