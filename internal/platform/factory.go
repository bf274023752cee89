package platform

import (
	"context"

	"github.com/aretw0/simplelog/pkg/core"
	"github.com/aretw0/simplelog/pkg/notes"
)

// OpenStore opens the storage at uri and returns a loaded note store.
//
//	store, closer, err := platform.OpenStore(ctx, "./.simplelog", platform.WithAdapter("sqlite"))
//
// The returned closer releases the storage and is never nil.
func OpenStore(ctx context.Context, uri string, opts ...Option) (*notes.Store, func() error, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	storage, err := o.initStorage(ctx, uri)
	if err != nil {
		return nil, nil, err
	}
	closer := func() error { return nil }
	if c, ok := storage.(core.Closer); ok {
		closer = c.Close
	}

	store := notes.New(storage, notes.WithKey(o.key), notes.WithLogger(o.logger))
	if err := store.Load(ctx); err != nil {
		_ = closer()
		return nil, nil, err
	}
	return store, closer, nil
}
