package notes

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/simplelog/pkg/core"
)

// ErrNotWatchable is returned by Watch when the storage cannot report changes.
var ErrNotWatchable = errors.New("storage does not support watching")

// Watch reloads the collection whenever the storage key changes outside this
// store. It returns immediately; the reload loop stops with ctx.
func (s *Store) Watch(ctx context.Context) error {
	w, ok := s.storage.(core.Watchable)
	if !ok {
		return ErrNotWatchable
	}

	events, err := w.Watch(ctx, s.key)
	if err != nil {
		return fmt.Errorf("watch notes: %w", err)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-events:
				if !ok {
					return nil
				}
				s.logger.Info("storage changed externally, reloading", "event", e.String())
				if err := s.Reload(ctx); err != nil {
					s.logger.Error("reload failed", "error", err)
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("notes watcher panic", "error", err)
	}))
	return nil
}
