package app

import (
	"context"
	"sync"

	"github.com/dkeye/Tabletop/internal/core"
	"github.com/dkeye/Tabletop/internal/domain"
	"github.com/rs/zerolog/log"
)

type sessionEntry struct {
	Binding     domain.Binding
	Signal      core.SignalConnection
	Cancel      context.CancelFunc
	ClientToken string
}

// Registry tracks live connections and the room each one is bound to.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]*sessionEntry),
	}
}

// BindSignal registers a new, unbound connection.
func (r *Registry) BindSignal(sid core.SessionID, conn core.SignalConnection, cancel context.CancelFunc, clientToken string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = &sessionEntry{
		Binding:     domain.Unbound{},
		Signal:      conn,
		Cancel:      cancel,
		ClientToken: clientToken,
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("client", clientToken).Msg("bound signal")
}

func (r *Registry) GetSignal(sid core.SessionID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Signal, true
	}
	return nil, false
}

func (r *Registry) Unbind(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbind session")
}

func (r *Registry) Binding(sid core.SessionID) domain.Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Binding
	}
	return domain.Unbound{}
}

func (r *Registry) RoomOf(sid core.SessionID) (domain.RoomCode, bool) {
	return domain.RoomOf(r.Binding(sid))
}

// Bind tags the connection with its room. Unknown connections report false.
func (r *Registry) Bind(sid core.SessionID, code domain.RoomCode) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[sid]
	if !ok {
		return false
	}
	entry.Binding = domain.Bound{Room: code}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(code)).Msg("bound to room")
	return true
}

// Release returns the connection to Unbound and reports the room it left.
func (r *Registry) Release(sid core.SessionID) (domain.RoomCode, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[sid]
	if !ok {
		return "", false
	}
	code, bound := domain.RoomOf(entry.Binding)
	entry.Binding = domain.Unbound{}
	if bound {
		log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(code)).Msg("removed room association")
	}
	return code, bound
}

func (r *Registry) Cancel(sid core.SessionID) bool {
	r.mu.RLock()
	e, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
