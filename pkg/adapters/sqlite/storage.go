// Package sqlite implements core.Storage on a single SQLite table using the
// pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aretw0/simplelog/pkg/core"
)

// DefaultFile is the database file name created inside the data directory.
const DefaultFile = "simplelog.db"

// Storage implements core.Storage and core.Closer.
type Storage struct {
	Path   string
	db     *sql.DB
	logger *slog.Logger
}

// NewStorage opens (creating if needed) the database at path.
func NewStorage(path string, logger *slog.Logger) (*Storage, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer at a time keeps WAL happy and Set atomic.
	db.SetMaxOpenConns(1)

	return &Storage{Path: path, db: db, logger: logger}, nil
}

// Initialize creates the key-value table if it doesn't exist.
func (s *Storage) Initialize(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    updated_at TEXT NOT NULL
);`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Get implements core.Storage.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return value, nil
}

// Set implements core.Storage.
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("storage key cannot be empty")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	s.logger.Debug("storage key written", "key", key, "bytes", len(value))
	return nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "sqlite-storage"
}
