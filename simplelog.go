package simplelog

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/simplelog/internal/platform"
	"github.com/aretw0/simplelog/pkg/core"
	"github.com/aretw0/simplelog/pkg/notes"
	"github.com/aretw0/simplelog/pkg/offline"
)

// --- Configuration ---

// Option defines a functional option for opening a data directory.
type Option = platform.Option

// WithLogger sets the logger for the store, the adapters and the cache manager.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithAdapter selects the storage adapter by name ("fs", "sqlite", "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithStorage injects a custom storage adapter.
func WithStorage(s core.Storage) Option {
	return platform.WithStorage(s)
}

// WithCacheStorage injects a custom cache storage.
func WithCacheStorage(s core.CacheStorage) Option {
	return platform.WithCacheStorage(s)
}

// WithKey sets the storage key of the note collection.
func WithKey(key string) Option {
	return platform.WithKey(key)
}

// WithMustExist requires the data directory to exist already.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly enables read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the `go run` sandbox.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithWatchDebounce sets the quiet period of the fs watcher.
func WithWatchDebounce(d time.Duration) Option {
	return platform.WithWatchDebounce(d)
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// Init opens and initializes the storage adapter for path.
func Init(path string, opts ...Option) (core.Storage, error) {
	return platform.Init(path, opts...)
}

// OpenStore opens the storage at path and returns a loaded note store plus
// a function releasing the storage.
func OpenStore(ctx context.Context, path string, opts ...Option) (*notes.Store, func() error, error) {
	return platform.OpenStore(ctx, path, opts...)
}

// OpenCache returns an idle cache manager whose caches live under path.
// cfg.Storage is filled from the options when nil.
func OpenCache(path string, cfg offline.Config, opts ...Option) (*offline.Manager, error) {
	if cfg.Storage == nil {
		cs, err := platform.OpenCacheStorage(path, opts...)
		if err != nil {
			return nil, err
		}
		cfg.Storage = cs
	}
	return offline.NewManager(cfg)
}

// --- Safety & Utils ---

// ResolveDataPath determines the actual data directory based on safety rules.
func ResolveDataPath(userPath string, forceTemp bool) string {
	return platform.ResolveDataPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for a directory holding .simplelog or simplelog.yaml.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
