// Package logging builds the slog handler used by the CLI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options selects the handler.
type Options struct {
	Level  string
	Format string
	Pretty bool
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// New returns a logger writing to w. Pretty wins over Format.
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	var handler slog.Handler
	switch {
	case opts.Pretty:
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	case strings.EqualFold(opts.Format, FormatJSON):
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case opts.Format == "" || strings.EqualFold(opts.Format, FormatText):
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	default:
		return nil, fmt.Errorf("init logger: unknown format %q", opts.Format)
	}

	return slog.New(handler), nil
}
