// Package l1 defines how link nodes and consoles find and talk to each
// other, independent of the transport.
package l1

import (
	"context"
	"errors"
	"strings"

	fx "github.com/robotalks/vlc.go/pkg/framework"
)

// ErrInvalidNodeRef is returned when a node reference is not TYPE/ID.
var ErrInvalidNodeRef = errors.New("node reference must be TYPE/ID")

// Registrar makes a node reachable by consoles. Commands received are
// posted to the node's loop as CommandMsg.
type Registrar interface {
	// SendEvent sends an event to every connected console.
	SendEvent(context.Context, fx.Message) error
}

// Command is a received command waiting for its reply.
type Command interface {
	Msg() fx.Message
	// Done sends the reply.
	Done(fx.Message) error
}

// CommandMsg carries a Command through the loop.
type CommandMsg struct {
	Command Command
}

// NewMessage implements Message.
func (m *CommandMsg) NewMessage() fx.Message { return &CommandMsg{} }

// NodeRef identifies a node as TYPE/ID.
type NodeRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// ParseNodeRef parses TYPE/ID.
func ParseNodeRef(s string) (NodeRef, error) {
	typ, id, ok := strings.Cut(s, "/")
	ref := NodeRef{Type: typ, ID: id}
	if !ok || !ref.IsValid() || strings.Contains(id, "/") {
		return NodeRef{}, ErrInvalidNodeRef
	}
	return ref, nil
}

// Name is TYPE/ID, also the topic prefix of the node on a broker.
func (r NodeRef) Name() string {
	return r.Type + "/" + r.ID
}

func (r NodeRef) String() string {
	return r.Name()
}

// IsValid reports whether both type and ID are set.
func (r NodeRef) IsValid() bool {
	return r.Type != "" && r.ID != ""
}

// NodeMeta describes a node to consoles.
type NodeMeta struct {
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// NodeInfo is what discovery reports.
type NodeInfo struct {
	Ref  NodeRef  `json:"ref"`
	Meta NodeMeta `json:"meta"`
}

// Connector is used by consoles to find and connect nodes.
type Connector interface {
	Discover(context.Context) ([]NodeInfo, error)
	Connect(context.Context, NodeRef) (NodeConn, error)
}

// NodeConn is a console's connection to a node. Events from the node are
// posted to the loop the connection is added to.
type NodeConn interface {
	DoCommand(fx.Message) CommandFuture
}

// Result is the reply of a command. A CommandErr reply is also set as Err.
type Result struct {
	Msg fx.Message
	Err error
}

// CommandFuture delivers exactly one Result.
type CommandFuture interface {
	ResultChan() <-chan Result
}
