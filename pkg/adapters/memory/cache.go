package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/simplelog/pkg/core"
)

// CacheStorage implements core.CacheStorage in memory.
type CacheStorage struct {
	mu     sync.Mutex
	caches map[string]*Cache
}

// NewCacheStorage creates an empty cache storage.
func NewCacheStorage() *CacheStorage {
	return &CacheStorage{caches: make(map[string]*Cache)}
}

// Open implements core.CacheStorage.
func (s *CacheStorage) Open(ctx context.Context, name string) (core.Cache, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.caches[name]
	if !ok {
		c = &Cache{entries: make(map[string]*core.Response)}
		s.caches[name] = c
	}
	return c, nil
}

// Has implements core.CacheStorage.
func (s *CacheStorage) Has(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.caches[name]
	return ok, nil
}

// Keys implements core.CacheStorage.
func (s *CacheStorage) Keys(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.caches))
	for name := range s.caches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete implements core.CacheStorage.
func (s *CacheStorage) Delete(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.caches[name]; !ok {
		return false, nil
	}
	delete(s.caches, name)
	return true, nil
}

// Cache implements core.Cache in memory.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*core.Response
}

// Match implements core.Cache.
func (c *Cache) Match(ctx context.Context, key string) (*core.Response, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	resp, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	return resp.Clone(), true, nil
}

// Put implements core.Cache.
func (c *Cache) Put(ctx context.Context, key string, resp *core.Response) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = resp.Clone()
	return nil
}

// Keys implements core.Cache.
func (c *Cache) Keys(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
