package websocket

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/vlc.go/pkg/framework"
	"github.com/robotalks/vlc.go/pkg/l1"
	"github.com/robotalks/vlc.go/pkg/l1/comm"
)

// Paths served by the Registrar.
const (
	MetaPath = "/meta"
	LinkPath = "/link"
)

// Registrar implements l1.Registrar by serving websocket sessions.
// Each session is a direct console connection, events are broadcast
// to all sessions.
type Registrar struct {
	Addr string
	Info l1.NodeInfo

	lock     sync.RWMutex
	sessions map[string]*comm.Registrar
	listener net.Listener
}

// NewRegistrar creates a Registrar listening on addr.
func NewRegistrar(addr string, info l1.NodeInfo) *Registrar {
	return &Registrar{
		Addr:     addr,
		Info:     info,
		sessions: make(map[string]*comm.Registrar),
	}
}

// SendEvent implements l1.Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	var errs fx.AggregatedError
	r.lock.RLock()
	defer r.lock.RUnlock()
	for _, session := range r.sessions {
		errs.Add(session.SendEvent(ctx, msg))
	}
	return errs.Aggregate()
}

// Sessions returns the number of connected sessions.
func (r *Registrar) Sessions() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.sessions)
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(r)
}

// Listen binds the listening address. Run calls it when not done yet.
func (r *Registrar) Listen() (net.Addr, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.listener == nil {
		ln, err := net.Listen("tcp", r.Addr)
		if err != nil {
			return nil, err
		}
		r.listener = ln
	}
	return r.listener.Addr(), nil
}

// Run implements Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	addr, err := r.Listen()
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.HandleFunc(MetaPath, r.serveMeta)
	mux.Handle(LinkPath, websocket.Handler(func(conn *websocket.Conn) {
		r.serveSession(ctx, conn)
	}))
	server := &http.Server{Handler: mux}
	glog.Infof("serving %s on ws://%s%s", r.Info.Ref.Name(), addr, LinkPath)
	return fx.RunWithContextCloser(ctx, server, func() error {
		r.lock.RLock()
		ln := r.listener
		r.lock.RUnlock()
		return server.Serve(ln)
	})
}

func (r *Registrar) serveMeta(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&r.Info)
}

func (r *Registrar) serveSession(ctx context.Context, conn *websocket.Conn) {
	id := uuid.NewString()
	session := &comm.Registrar{}
	session.Init(New(conn))
	r.lock.Lock()
	r.sessions[id] = session
	r.lock.Unlock()
	glog.Infof("session %s connected from %s", id, conn.Request().RemoteAddr)

	err := session.Serve(ctx)

	r.lock.Lock()
	delete(r.sessions, id)
	r.lock.Unlock()
	glog.Infof("session %s closed: %v", id, err)
}
