// Package all registers all console commands.
package all

import (
	_ "github.com/robotalks/vlc.go/pkg/cli/cmds/link"
)
