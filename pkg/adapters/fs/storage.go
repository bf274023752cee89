package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/zeebo/blake3"

	"github.com/aretw0/simplelog/pkg/core"
)

// FileExt is appended to a storage key to form its file name.
const FileExt = ".json"

// Config holds the configuration for the filesystem storage.
type Config struct {
	Path      string
	MustExist bool
	ReadOnly  bool
	Logger    *slog.Logger

	// ErrorHandler receives runtime watcher failures that would otherwise only be logged.
	ErrorHandler func(error)

	// Debounce collapses bursts of filesystem events for a key. Zero means 50ms.
	Debounce time.Duration
}

// Storage implements core.Storage with one file per key.
type Storage struct {
	Path   string
	config Config

	mu            sync.RWMutex
	lastWritten   map[string][32]byte // key -> digest of our own last write
	watcherActive bool
	watcherStarts int
	watcher       *watchWorker // most recently started
	lastEvent     *time.Time
}

// NewStorage creates a new filesystem-backed storage rooted at config.Path.
func NewStorage(config Config) *Storage {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Debounce <= 0 {
		config.Debounce = 50 * time.Millisecond
	}
	return &Storage{
		Path:        config.Path,
		config:      config,
		lastWritten: make(map[string][32]byte),
	}
}

// Initialize creates the data directory unless MustExist or ReadOnly is set.
func (s *Storage) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("data path does not exist: %s", s.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", s.Path)
		}
		return nil
	}

	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// Get reads the whole value stored under key.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	filename, err := s.filename(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil, core.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Set atomically replaces the value stored under key.
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	filename, err := s.filename(key)
	if err != nil {
		return err
	}

	s.mu.RLock()
	prev, had := s.lastWritten[key]
	s.mu.RUnlock()

	// The digest lands before the rename so the watcher recognises the write.
	_, err = writeFileAtomic(filename, value, func(sum [32]byte) {
		s.remember(key, sum)
	})
	if err != nil {
		s.mu.Lock()
		if had {
			s.lastWritten[key] = prev
		} else {
			delete(s.lastWritten, key)
		}
		s.mu.Unlock()
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	s.config.Logger.Debug("storage key written", "key", key, "bytes", len(value))
	return nil
}

func (s *Storage) remember(key string, sum [32]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastWritten[key] = sum
}

// isOwnWrite reports whether data matches the last value this process wrote for key.
func (s *Storage) isOwnWrite(key string, data []byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum, ok := s.lastWritten[key]
	return ok && sum == blake3.Sum256(data)
}

func (s *Storage) filename(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("storage key cannot be empty")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.Path, key+FileExt), nil
}
