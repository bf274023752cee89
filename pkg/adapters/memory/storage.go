// Package memory provides in-process implementations of the storage ports.
// Nothing survives the process; useful for tests and throwaway sessions.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/simplelog/pkg/core"
)

// Storage implements core.Storage over a map.
type Storage struct {
	mu     sync.RWMutex
	values map[string][]byte
	writes int
}

// NewStorage creates an empty in-memory storage.
func NewStorage() *Storage {
	return &Storage{values: make(map[string][]byte)}
}

// Initialize implements core.Storage.
func (s *Storage) Initialize(ctx context.Context) error { return nil }

// Get implements core.Storage.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, core.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set implements core.Storage.
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	s.writes++
	return nil
}

// Writes returns how many times Set was called.
func (s *Storage) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "memory-storage"
}
