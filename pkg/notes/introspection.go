package notes

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Key         string     `json:"key"`
	Loaded      bool       `json:"loaded"`
	Notes       int        `json:"notes"`
	Observers   int        `json:"observers"`
	StorageType string     `json:"storage_type"`
	LastPersist *time.Time `json:"last_persist,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	state := StoreState{
		Key:         s.key,
		Loaded:      s.loaded,
		Notes:       len(s.notes),
		StorageType: "storage",
		LastPersist: s.lastPersist,
	}
	s.mu.RUnlock()

	if comp, ok := s.storage.(introspection.Component); ok {
		state.StorageType = comp.ComponentType()
	}

	s.obsMu.Lock()
	state.Observers = len(s.observers)
	s.obsMu.Unlock()

	return state
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "note-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
