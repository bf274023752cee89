package core

import (
	"context"
	"net/http"
)

// Storage is the persistent key-value port. Values are written and read as
// whole blobs; there are no partial reads or writes.
type Storage interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Initialize ensures the underlying storage is ready (directories, schema).
	Initialize(ctx context.Context) error
}

// Watchable is implemented by storages that can report external changes.
type Watchable interface {
	// Watch emits an event each time the value under key changes outside
	// of this process' own writes. The channel closes when ctx is done.
	Watch(ctx context.Context, key string) (<-chan Event, error)
}

// Closer is implemented by storages holding OS resources.
type Closer interface {
	Close() error
}

// Response is a cached or fetched resource.
type Response struct {
	URL    string      `json:"url"`
	Status int         `json:"status"`
	Header http.Header `json:"header,omitempty"`
	Body   []byte      `json:"body"`
}

// OK reports whether the status is in the 2xx range.
func (r *Response) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

// Clone returns a deep copy so cached entries cannot be mutated by callers.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	c := &Response{URL: r.URL, Status: r.Status, Header: r.Header.Clone()}
	if r.Body != nil {
		c.Body = append([]byte(nil), r.Body...)
	}
	return c
}

// Cache is a single named generation of cached resources.
type Cache interface {
	// Match returns the response stored for key. ok is false on a miss.
	Match(ctx context.Context, key string) (resp *Response, ok bool, err error)

	// Put stores resp under key, replacing any previous entry.
	Put(ctx context.Context, key string, resp *Response) error

	// Keys lists the request keys held by the cache.
	Keys(ctx context.Context) ([]string, error)
}

// CacheStorage holds every named cache.
type CacheStorage interface {
	// Open returns the named cache, creating it if absent.
	Open(ctx context.Context, name string) (Cache, error)

	// Has reports whether the named cache exists.
	Has(ctx context.Context, name string) (bool, error)

	// Keys lists the names of all existing caches.
	Keys(ctx context.Context) ([]string, error)

	// Delete removes the named cache. It reports false if it did not exist.
	Delete(ctx context.Context, name string) (bool, error)
}
