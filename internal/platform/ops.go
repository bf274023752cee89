package platform

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/simplelog/pkg/adapters/fs"
	"github.com/aretw0/simplelog/pkg/adapters/memory"
	"github.com/aretw0/simplelog/pkg/adapters/sqlite"
	"github.com/aretw0/simplelog/pkg/core"
)

// Init opens and initializes the storage adapter for the data directory at uri.
// The caller owns the result; close it when it implements core.Closer.
func Init(uri string, opts ...Option) (core.Storage, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o.initStorage(context.Background(), uri)
}

func (o *options) initStorage(ctx context.Context, uri string) (core.Storage, error) {
	if o.storage != nil {
		return o.storage, nil
	}

	var (
		storage core.Storage
		err     error
	)
	switch o.adapter {
	case AdapterFS, "":
		storage = fs.NewStorage(fs.Config{
			Path:         o.resolve(uri),
			MustExist:    o.mustExist,
			ReadOnly:     o.readOnly,
			Logger:       o.logger,
			ErrorHandler: o.errorHandler,
			Debounce:     o.debounce,
		})
	case AdapterSQLite:
		storage, err = sqlite.NewStorage(filepath.Join(o.resolve(uri), sqlite.DefaultFile), o.logger)
	case AdapterMemory:
		storage = memory.NewStorage()
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if err := storage.Initialize(ctx); err != nil {
		if c, ok := storage.(core.Closer); ok {
			_ = c.Close()
		}
		return nil, fmt.Errorf("initialize %s storage: %w", o.adapter, err)
	}
	return storage, nil
}

// OpenCacheStorage returns the cache storage for the data directory at uri.
// The memory adapter keeps caches in memory; every other adapter stores them
// on disk under <uri>/cache.
func OpenCacheStorage(uri string, opts ...Option) (core.CacheStorage, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.cacheStorage != nil {
		return o.cacheStorage, nil
	}
	switch o.adapter {
	case AdapterMemory:
		return memory.NewCacheStorage(), nil
	case AdapterFS, AdapterSQLite, "":
		return fs.NewCacheStorage(filepath.Join(o.resolve(uri), CacheDir), o.logger), nil
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}
