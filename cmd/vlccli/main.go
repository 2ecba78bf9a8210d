package main

import (
	"github.com/robotalks/vlc.go/pkg/cli/sh"
	env "github.com/robotalks/vlc.go/pkg/l1/env/connector"

	_ "github.com/robotalks/vlc.go/pkg/cli/cmds/all"
)

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
