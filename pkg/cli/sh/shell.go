package sh

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"
	"github.com/spf13/pflag"

	fx "github.com/robotalks/vlc.go/pkg/framework"
	"github.com/robotalks/vlc.go/pkg/l1"
	"github.com/robotalks/vlc.go/pkg/l1/comm"
	env "github.com/robotalks/vlc.go/pkg/l1/env/connector"
	"github.com/robotalks/vlc.go/pkg/l1/msgs"
)

// Shell provides ishell backed interactive console for link nodes.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool
	Timeout     time.Duration

	Shell  *ishell.Shell
	Config *env.Config
	Loop   *ConnLoop
}

// ConnLoop is a running loop with a node connection.
type ConnLoop struct {
	Ctx    context.Context
	Cancel func()
	Ref    l1.NodeRef
	Loop   *fx.Loop
	Conn   l1.NodeConn
}

// EventFormatter formats an event for display. It returns false if the
// event is not recognized.
type EventFormatter func(fx.Message) (string, bool)

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool
	timeout    = 2 * time.Second

	// commands
	commands = []*ishell.Cmd{
		&DiscoverCmd,
		&ConnectCmd,
		&DisconnectCmd,
	}

	formatters     []EventFormatter
	formattersLock sync.RWMutex
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.DurationVar(&timeout, "timeout", timeout, "Command timeout.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// AddEventFormatters registers formatters for events from the node.
func AddEventFormatters(fns ...EventFormatter) {
	formattersLock.Lock()
	formatters = append(formatters, fns...)
	formattersLock.Unlock()
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		Timeout:     timeout,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Loop == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// FormatInfo prints NodeInfo into friendly string for display.
func FormatInfo(info l1.NodeInfo) string {
	var w bytes.Buffer
	fmt.Fprintf(&w, "%s", info.Ref.Name())
	if info.Meta.Description != "" {
		fmt.Fprintf(&w, ": %s", info.Meta.Description)
	}
	return w.String()
}

// FormatMessage formats a message as its type name and text form.
func FormatMessage(msg fx.Message) string {
	name := reflect.Indirect(reflect.ValueOf(msg)).Type().Name()
	if sm, ok := msg.(msgs.SerializableMessage); ok {
		return name + " " + sm.Serializable().String()
	}
	return name
}

// Execute sends a command and waits for the reply.
func Execute(c *ishell.Context, msg fx.Message) (fx.Message, error) {
	s := ShellFrom(c)
	if s.Loop == nil {
		return nil, fmt.Errorf("not connected")
	}
	timeout := s.Timeout
	if expiration := comm.CommandExpiration(msg); expiration > timeout {
		timeout = expiration
	}
	select {
	case res := <-s.Loop.Conn.DoCommand(msg).ResultChan():
		return res.Msg, res.Err
	case <-time.After(timeout):
		return nil, fmt.Errorf("command timeout")
	}
}

// PrintJSON prints the serializable form of msg in JSON.
func PrintJSON(c *ishell.Context, msg fx.Message) error {
	var v interface{} = msg
	if sm, ok := msg.(msgs.SerializableMessage); ok {
		v = sm.Serializable()
	}
	out, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.Println(string(out))
	return nil
}

// DoCommand runs a command, waits for result and prints it.
func DoCommand(c *ishell.Context, msg fx.Message) (fx.Message, error) {
	reply, err := Execute(c, msg)
	if err != nil {
		c.Err(err)
		return nil, err
	}
	if ShellFrom(c).OutputJSON {
		if err = PrintJSON(c, reply); err != nil {
			c.Err(err)
		}
		return reply, err
	}
	if _, ok := reply.(*msgs.CommandOK); ok {
		c.Println("OK")
	} else {
		c.Println(FormatMessage(reply))
	}
	return reply, nil
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// DiscoverNodes discovers nodes.
func (s *Shell) DiscoverNodes(filter func(l1.NodeInfo) bool) (l1.Connector, []l1.NodeInfo, error) {
	connector, err := s.Config.NewConnector()
	if err != nil {
		return nil, nil, err
	}
	infoList, err := connector.Discover(context.TODO())
	if err != nil {
		return connector, nil, err
	}
	if filter != nil {
		items := make([]l1.NodeInfo, 0, len(infoList))
		for _, info := range infoList {
			if filter(info) {
				items = append(items, info)
			}
		}
		infoList = items
	}
	return connector, infoList, nil
}

// SelectNode discovers nodes and asks for a choice.
func (s *Shell) SelectNode(filter func(l1.NodeInfo) bool) (*l1.NodeInfo, error) {
	_, infoList, err := s.DiscoverNodes(filter)
	if err != nil || len(infoList) == 0 {
		return nil, err
	}
	var index int
	if len(infoList) > 1 {
		if !s.Interactive {
			return nil, fmt.Errorf("more than 1 nodes discovered in non-interactive mode")
		}
		items := make([]string, len(infoList))
		for n, info := range infoList {
			items[n] = FormatInfo(info)
		}
		index = s.Shell.MultiChoice(items, "Which one to connect?")
		if index < 0 {
			return nil, nil
		}
	}
	return &infoList[index], nil
}

// Connect connects node with ref.
func (s *Shell) Connect(ref l1.NodeRef) error {
	connector, err := s.Config.NewConnector()
	if err != nil {
		return err
	}
	connLoop := &ConnLoop{Ref: ref}
	connLoop.Ctx, connLoop.Cancel = context.WithCancel(context.Background())
	if connLoop.Conn, err = connector.Connect(connLoop.Ctx, ref); err != nil {
		connLoop.Cancel()
		return err
	}
	connLoop.Loop = fx.NewLoop()
	if adder, ok := connLoop.Conn.(fx.LoopAdder); ok {
		connLoop.Loop.Add(adder)
	}
	connLoop.Loop.AddController(fx.PrLvIdle, fx.ControlFunc(s.printEvents))
	s.Disconnect()
	s.Loop = connLoop
	go connLoop.Loop.Run(connLoop.Ctx)
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", ref.Name()))
	return nil
}

// Disconnect disconnects current node.
func (s *Shell) Disconnect() {
	if s.Loop != nil {
		s.Loop.Cancel()
		s.Loop = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

func (s *Shell) printEvents(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		mctx.MessageTaken()
		msg := mctx.CurrentMessage()
		if s.OutputJSON {
			var w bytes.Buffer
			if err := json.NewEncoder(&w).Encode(msg); err == nil {
				s.Shell.Print(w.String())
			}
			return
		}
		formattersLock.RLock()
		defer formattersLock.RUnlock()
		for _, format := range formatters {
			if text, ok := format(msg); ok {
				s.Shell.Println(text)
				return
			}
		}
		s.Shell.Println("[event] " + FormatMessage(msg))
	}))
	return nil
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Config.Ref.IsValid() {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.Ref.Name())
		}
		if err := s.Connect(s.Config.Ref); err != nil {
			glog.Exitf("connect %q failed: %v", s.Config.Ref.Name(), err)
		}
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			glog.Exit(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	glog.Exit("command expected")
}

var (
	// DiscoverCmd discovers nodes.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			_, infoList, err := s.DiscoverNodes(nil)
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if infoList == nil {
					infoList = []l1.NodeInfo{}
				}
				out, err := json.Marshal(infoList)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			if len(infoList) == 0 {
				c.Println("No nodes found")
				return
			}
			for _, info := range infoList {
				c.Println(FormatInfo(info))
			}
		},
	}

	// ConnectCmd connects a node.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"conn"},
		Help:    "[TYPE [ID]]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var ref l1.NodeRef
			if len(c.Args) >= 2 {
				ref.Type, ref.ID = c.Args[0], c.Args[1]
			} else {
				var filter func(l1.NodeInfo) bool
				if len(c.Args) == 1 {
					filter = func(info l1.NodeInfo) bool {
						return info.Ref.Type == c.Args[0]
					}
				}
				info, err := s.SelectNode(filter)
				if err != nil {
					c.Err(err)
					return
				}
				if info == nil {
					c.Err(fmt.Errorf("no node discovered"))
					return
				}
				ref = info.Ref
			}
			if err := s.Connect(ref); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current node.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// ParseFlags parses the command line with pflag, including flags
// registered on the standard flag set. Parsing stops at the first
// argument so shell commands keep their own flags.
func ParseFlags() {
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()
	flag.CommandLine.Parse([]string{})
}

// Main is a helper to provide a single call in main.
func Main() {
	ParseFlags()
	New(env.NewConfig()).WithAutoConnect(true).Run(pflag.Args()...)
}
