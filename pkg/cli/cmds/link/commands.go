package link

import (
	"fmt"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/vlc.go/pkg/cli/sh"
	"github.com/robotalks/vlc.go/pkg/l1/msgs"
)

var (
	// SetEncryptionCmd exposes LinkKeySet command.
	SetEncryptionCmd = ishell.Cmd{
		Name:    "set_encryption",
		Aliases: []string{"se"},
		Help:    "[-TX | -RX] <map_type> <x1> <y1> <iterations1> <x2> <y2> <iterations2>",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			msg, err := ParseKeySet(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			reply, err := sh.Execute(c, msg)
			if err != nil {
				c.Err(err)
				return
			}
			if sh.ShellFrom(c).OutputJSON {
				sh.PrintJSON(c, reply)
				return
			}
			if r, ok := reply.(*msgs.LinkKeySetReply); ok {
				for _, w := range r.Warnings {
					c.Println("Warning: " + w)
				}
			}
			c.Printf("%s encryption set\n", msg.Direction)
		}),
	}

	// GetEncryptionCmd exposes LinkKeyQuery command.
	GetEncryptionCmd = ishell.Cmd{
		Name:    "get_encryption",
		Aliases: []string{"ge"},
		Help:    "[-TX | -RX]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			dir, rest, err := ParseDirection(c.Args)
			if err == nil && len(rest) > 0 {
				err = fmt.Errorf("unexpected arguments %q, expect [-TX | -RX]", rest)
			}
			if err != nil {
				c.Err(err)
				return
			}
			reply, err := sh.Execute(c, &msgs.LinkKeyQuery{})
			if err != nil {
				c.Err(err)
				return
			}
			status, ok := reply.(*msgs.LinkKeyStatus)
			if !ok {
				c.Err(fmt.Errorf("unexpected reply: %s", sh.FormatMessage(reply)))
				return
			}
			if sh.ShellFrom(c).OutputJSON {
				sh.PrintJSON(c, status)
				return
			}
			if dir != msgs.LinkRx {
				c.Println(FormatKeyInfo("TX", status.Tx))
			}
			if dir != msgs.LinkTx {
				c.Println(FormatKeyInfo("RX", status.Rx))
			}
		}),
	}

	// TransmitCmd exposes LinkTransmit command.
	TransmitCmd = ishell.Cmd{
		Name:    "transmit",
		Aliases: []string{"t"},
		Help:    "TEXT...",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("no data provided"))
				return
			}
			data, truncated := JoinData(c.Args)
			if truncated {
				c.Println("Warning: buffer full, truncating data")
			}
			reply, err := sh.Execute(c, &msgs.LinkTransmit{Data: data})
			if err != nil {
				c.Err(err)
				return
			}
			if sh.ShellFrom(c).OutputJSON {
				sh.PrintJSON(c, reply)
				return
			}
			if r, ok := reply.(*msgs.LinkTransmitReply); ok {
				c.Printf("Queued %d bytes in %d words\n", r.Bytes, r.Words)
				if r.Dropped > 0 {
					c.Printf("Warning: transmit buffer full, %d words dropped\n", r.Dropped)
				}
			}
		}),
	}

	// FrequencyCmd exposes LinkInfoQuery command.
	FrequencyCmd = ishell.Cmd{
		Name:    "freq",
		Aliases: []string{"f"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			reply, err := sh.Execute(c, &msgs.LinkInfoQuery{})
			if err != nil {
				c.Err(err)
				return
			}
			if sh.ShellFrom(c).OutputJSON {
				sh.PrintJSON(c, reply)
				return
			}
			if info, ok := reply.(*msgs.LinkInfo); ok {
				c.Printf("Frequency of communication: %.2f Hz\n", info.FrequencyHz)
				if info.RxConfigured && !info.RxArmed {
					c.Println("Receiver not armed yet")
				}
			}
		}),
	}

	// StatsCmd exposes LinkStatsQuery command.
	StatsCmd = ishell.Cmd{
		Name:    "stats",
		Aliases: []string{"s"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			reply, err := sh.Execute(c, &msgs.LinkStatsQuery{})
			if err != nil {
				c.Err(err)
				return
			}
			if sh.ShellFrom(c).OutputJSON {
				sh.PrintJSON(c, reply)
				return
			}
			if stats, ok := reply.(*msgs.LinkStats); ok {
				c.Println(FormatStats(stats))
			}
		}),
	}

	// ClearCmd clears the console.
	ClearCmd = ishell.Cmd{
		Name:    "clear",
		Aliases: []string{"c"},
		Help:    "",
		Func: func(c *ishell.Context) {
			if err := c.ClearScreen(); err != nil {
				c.Err(err)
			}
		},
	}
)

func init() {
	sh.AddCmds(
		&SetEncryptionCmd,
		&GetEncryptionCmd,
		&TransmitCmd,
		&FrequencyCmd,
		&StatsCmd,
		&ClearCmd,
	)
	sh.AddEventFormatters(FormatReceived)
}
