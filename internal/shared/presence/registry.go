// Package presence tracks which actors currently have a live socket
// connection. One map per actor class, at most one connection per identity.
package presence

import (
	"sync"

	"github.com/ganesh-basavoju/mechpro-backend/internal/model"
)

// Entry is a single (class, actor) -> connection mapping.
type Entry struct {
	Class   model.ActorClass
	ActorID string
	ConnID  string
}

// Registry maps (actorClass, actorID) to the ID of the actor's current
// connection. Registering the same identity again overwrites the previous
// mapping (last-registered-wins); there is no multi-device fan-out.
//
// Unregister is keyed by connection ID and removes an entry only while it
// still points at that connection. A disconnect that arrives after the actor
// has re-registered on a new connection must not erase the new entry.
type Registry struct {
	mu   sync.RWMutex
	maps map[model.ActorClass]map[string]string // class -> actorID -> connID
}

func NewRegistry() *Registry {
	return &Registry{
		maps: map[model.ActorClass]map[string]string{
			model.ClassUser:     {},
			model.ClassMechanic: {},
			model.ClassAdmin:    {},
		},
	}
}

// Register records connID as the actor's live connection, unconditionally
// overwriting any existing mapping for that identity.
func (r *Registry) Register(class model.ActorClass, actorID, connID string) {
	if !class.Valid() || actorID == "" || connID == "" {
		return
	}
	r.mu.Lock()
	r.maps[class][actorID] = connID
	r.mu.Unlock()
}

// Lookup returns the actor's current connection ID, if any.
func (r *Registry) Lookup(class model.ActorClass, actorID string) (string, bool) {
	if !class.Valid() {
		return "", false
	}
	r.mu.RLock()
	connID, ok := r.maps[class][actorID]
	r.mu.RUnlock()
	return connID, ok
}

// Unregister removes every entry across all three classes whose current
// value equals connID. Entries already overwritten by a newer registration
// are left alone.
func (r *Registry) Unregister(connID string) {
	if connID == "" {
		return
	}
	r.mu.Lock()
	for _, m := range r.maps {
		for actorID, current := range m {
			if current == connID {
				delete(m, actorID)
			}
		}
	}
	r.mu.Unlock()
}

// OnlineByClass returns a snapshot of all entries for one class.
func (r *Registry) OnlineByClass(class model.ActorClass) []Entry {
	if !class.Valid() {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.maps[class]))
	for actorID, connID := range r.maps[class] {
		entries = append(entries, Entry{Class: class, ActorID: actorID, ConnID: connID})
	}
	return entries
}

// IsOnline reports whether the actor has a live connection.
func (r *Registry) IsOnline(class model.ActorClass, actorID string) bool {
	_, ok := r.Lookup(class, actorID)
	return ok
}
