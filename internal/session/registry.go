// Package session tracks live backend sessions by connection alias.
//
// The registry owns the alias→session map exclusively. It never touches the
// client handles themselves: whoever displaces or removes a session is
// responsible for disconnecting its client. That keeps the registry free of
// external side effects.
package session

import (
	"sort"
	"sync"

	"github.com/willibrandon/looseleaf/internal/provider"
)

// Session pairs a live client handle with its introspected metadata for one
// alias. At most one session exists per alias.
type Session struct {
	Alias    string
	Client   provider.Client
	Metadata provider.Metadata
}

// Registry is the in-memory map of active sessions. Subscribers are
// notified, with no payload, after every effective change; they re-pull
// state through Get/List rather than trusting a stale snapshot.
type Registry struct {
	mu          sync.Mutex
	sessions    map[string]Session
	connecting  map[string]struct{}
	subscribers []func()
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions:   make(map[string]Session),
		connecting: make(map[string]struct{}),
	}
}

// Subscribe registers a change listener. Listeners run synchronously on the
// mutating call, after the map update.
func (r *Registry) Subscribe(fn func()) {
	r.mu.Lock()
	r.subscribers = append(r.subscribers, fn)
	r.mu.Unlock()
}

// SetActive inserts or overwrites the session for an alias and fires the
// change signal exactly once. If the alias was already active, the caller
// must have disconnected the prior client first; the registry does not
// close displaced handles.
func (r *Registry) SetActive(alias string, client provider.Client, metadata provider.Metadata) {
	r.mu.Lock()
	r.sessions[alias] = Session{Alias: alias, Client: client, Metadata: metadata}
	subs := r.snapshotSubscribers()
	r.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// SetInactive removes the session for an alias and fires the change signal.
// Removing an absent alias is a no-op and fires no signal.
func (r *Registry) SetInactive(alias string) {
	r.mu.Lock()
	if _, ok := r.sessions[alias]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.sessions, alias)
	subs := r.snapshotSubscribers()
	r.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Get returns the session for an alias, if active. Pure lookup, no side
// effects.
func (r *Registry) Get(alias string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[alias]
	return s, ok
}

// List returns all active sessions sorted by alias.
func (r *Registry) List() []Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Alias < sessions[j].Alias
	})
	return sessions
}

// BeginConnecting marks an alias as having a connect attempt in flight.
// It returns false if an attempt is already in flight for that alias, which
// callers must treat as "do not start a second connect".
func (r *Registry) BeginConnecting(alias string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.connecting[alias]; ok {
		return false
	}
	r.connecting[alias] = struct{}{}
	return true
}

// EndConnecting clears the in-flight mark for an alias, whatever the
// outcome of the attempt.
func (r *Registry) EndConnecting(alias string) {
	r.mu.Lock()
	delete(r.connecting, alias)
	r.mu.Unlock()
}

// snapshotSubscribers must be called with the lock held.
func (r *Registry) snapshotSubscribers() []func() {
	subs := make([]func(), len(r.subscribers))
	copy(subs, r.subscribers)
	return subs
}
