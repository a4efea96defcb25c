package chat

import (
	"sync"

	"github.com/fanlink/fanlink/internal/model"
)

// Conn is an opaque handle to a live connection that events can be pushed to.
// Implementations must fail fast rather than block when the peer is unable
// to accept the event.
type Conn interface {
	Send(ev model.Event) error
}

// Registry is the process-wide presence registry mapping user ids to their
// active connection handle. Exactly one entry exists per connected user;
// a second connection for the same user overwrites the first.
type Registry struct {
	mu    sync.RWMutex
	conns map[model.UserID]Conn
}

// NewRegistry creates an empty presence registry
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[model.UserID]Conn),
	}
}

// Register records conn as the active connection for id, unconditionally
// replacing any prior entry
func (r *Registry) Register(id model.UserID, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = conn
}

// Unregister removes the entry for id, but only if conn is still the
// registered handle. A no-op when the entry is absent or has already been
// replaced by a newer connection, so stale cleanup after a reconnect race
// cannot knock a live connection offline.
func (r *Registry) Unregister(id model.UserID, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conns[id] == conn {
		delete(r.conns, id)
	}
}

// Lookup returns the active connection for id, if any
func (r *Registry) Lookup(id model.UserID) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[id]
	return conn, ok
}

// IsOnline reports whether id currently has a registered connection
func (r *Registry) IsOnline(id model.UserID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[id]
	return ok
}

// Count returns the number of registered connections
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
