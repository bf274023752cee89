package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// StorageState exposes internal state for observability.
type StorageState struct {
	Path          string     `json:"path"`
	ReadOnly      bool       `json:"read_only"`
	Keys          int        `json:"keys_written"`
	WatcherActive bool       `json:"watcher_active"`
	WatcherStarts int        `json:"watcher_starts"`
	LastEvent     *time.Time `json:"last_event,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Storage) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StorageState{
		Path:          s.Path,
		ReadOnly:      s.config.ReadOnly,
		Keys:          len(s.lastWritten),
		WatcherActive: s.watcherActive,
		WatcherStarts: s.watcherStarts,
		LastEvent:     s.lastEvent,
	}
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "fs-storage"
}

var _ introspection.Introspectable = (*Storage)(nil)
var _ introspection.Component = (*Storage)(nil)

func (s *Storage) watcherStarted(w *watchWorker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcher = w
	s.watcherStarts++
	s.watcherActive = true
}

func (s *Storage) currentWatcher() *watchWorker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.watcher
}

func (s *Storage) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

func (s *Storage) recordEvent(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastEvent = &at
}
