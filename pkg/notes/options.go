package notes

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DefaultKey is the storage key holding the serialized collection.
const DefaultKey = "my-simple-log-notes"

type options struct {
	key    string
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures a Store.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		key:    DefaultKey,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// WithKey sets the storage key. Empty keeps DefaultKey.
func WithKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.key = key
		}
	}
}

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator overrides the id scheme (tests). Generated ids must be unique.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}
