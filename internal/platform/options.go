package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/simplelog/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterSQLite = "sqlite"
	AdapterMemory = "memory"
)

// CacheDir is the subdirectory of the data path holding offline caches.
const CacheDir = "cache"

// options holds the internal configuration for opening a data directory.
type options struct {
	storage      core.Storage
	cacheStorage core.CacheStorage
	logger       *slog.Logger
	adapter      string
	key          string

	mustExist    bool
	readOnly     bool
	forceTemp    bool
	devSafety    bool
	debounce     time.Duration
	errorHandler func(error)
}

// Option defines a functional option for configuring storage.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		adapter:   AdapterFS,
		devSafety: true,
	}
}

func (o *options) log() *slog.Logger {
	if o.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.logger
}

// WithLogger sets the logger passed to every adapter and the store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithAdapter selects the storage adapter by name ("fs", "sqlite", "memory").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithStorage injects a custom storage adapter. The adapter name is ignored.
func WithStorage(s core.Storage) Option {
	return func(o *options) {
		o.storage = s
	}
}

// WithCacheStorage injects a custom cache storage.
func WithCacheStorage(s core.CacheStorage) Option {
	return func(o *options) {
		o.cacheStorage = s
	}
}

// WithKey sets the storage key of the note collection.
func WithKey(key string) Option {
	return func(o *options) {
		o.key = key
	}
}

// WithMustExist requires the data directory to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithReadOnly enables read-only mode.
// Writes return core.ErrReadOnly, the data directory is never created and
// the dev sandbox is bypassed.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or `go test`.
// By default the data path is re-rooted into a temporary directory.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithWatchDebounce sets the quiet period of the fs watcher.
func WithWatchDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures
// (e.g. permission denied) which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
