package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/simplelog/pkg/core"
)

// watchBackoff bounds how often a crashed watcher is restarted.
var watchBackoff = supervisor.Backoff{
	InitialInterval: 100 * time.Millisecond,
	MaxInterval:     5 * time.Second,
	Multiplier:      2,
	ResetDuration:   30 * time.Second,
	MaxRestarts:     5,
	MaxDuration:     time.Minute,
}

// Watch implements core.Watchable. It observes the data directory (renames
// from atomic writes are only visible at directory level) and emits an event
// whenever the file backing key changes to content this process did not write.
// The watcher runs under a supervisor that restarts it when it fails; the
// returned channel closes once ctx is done and the supervisor has stopped.
func (s *Storage) Watch(ctx context.Context, key string) (<-chan core.Event, error) {
	filename, err := s.filename(key)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(s.Path); err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", s.Path, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("failed to watch %s: not a directory", s.Path)
	}

	events := make(chan core.Event, 16)
	sup := supervisor.New("fs-storage", supervisor.StrategyOneForOne, supervisor.Spec{
		Name: "fs-watcher:" + key,
		Type: string(worker.TypeGoroutine),
		Factory: func() (worker.Worker, error) {
			return newWatchWorker(s, key, filename, events), nil
		},
		Backoff:       watchBackoff,
		RestartPolicy: supervisor.RestartOnFailure,
	})
	if err := sup.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		err := sup.Stop(stopCtx)
		close(events)
		return err
	}, lifecycle.WithErrorHandler(s.reportWatchError))

	return events, nil
}

func (s *Storage) reportWatchError(err error) {
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(fmt.Errorf("watcher: %w", err))
		return
	}
	s.config.Logger.Error("watcher failure", "error", err)
}

type watchWorker struct {
	*worker.BaseWorker
	storage   *Storage
	key       string
	filename  string
	events    chan<- core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
}

func newWatchWorker(s *Storage, key, filename string, events chan<- core.Event) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("fs-watcher"),
		storage:    s,
		key:        key,
		filename:   filename,
		events:     events,
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(w.storage.Path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.storage.Path, err)
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(w.storage.config.Debounce)
	w.storage.watcherStarted(w)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"key":               w.key,
		}
	})
}

// run is the main event loop for the watcher.
func (w *watchWorker) run(ctx context.Context) (err error) {
	logger := w.storage.config.Logger
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if logger.Enabled(ctx, slog.LevelDebug) {
				logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer w.storage.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.loop(ctx)

	// Pending callbacks write to w.events; drain them before the worker exits.
	w.debouncer.stopAndWait(5 * time.Second)
	return err
}

func (w *watchWorker) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != w.filename {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			w.storage.config.Logger.Debug("storage event received", "name", event.Name, "op", event.Op.String())
			w.debouncer.add(w.key, func() { w.emit(ctx) })

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.storage.config.Logger.Error("fsnotify error", "error", wErr)
			if w.storage.config.ErrorHandler != nil {
				w.storage.config.ErrorHandler(wErr)
			}
		}
	}
}

// emit inspects the settled file and forwards an event unless the change
// was this process' own write.
func (w *watchWorker) emit(ctx context.Context) {
	defer func() {
		// The channel closes once the supervisor is stopped.
		_ = recover()
	}()

	evt := core.Event{Type: core.EventModify, ID: w.key, Timestamp: time.Now()}

	data, err := os.ReadFile(w.filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
		evt.Type = core.EventDelete
	case err != nil:
		w.storage.config.Logger.Warn("failed to read changed key", "key", w.key, "error", err)
		return
	case w.storage.isOwnWrite(w.key, data):
		return
	}

	w.storage.recordEvent(evt.Timestamp)
	select {
	case w.events <- evt:
	case <-ctx.Done():
	}
}
