package fs

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"github.com/aretw0/simplelog/pkg/core"
)

const entryExt = ".entry"

var (
	codecOnce sync.Once
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	codecErr  error
)

// initCodec creates the shared zstd encoder/decoder. EncodeAll and DecodeAll
// are safe for concurrent use.
func initCodec() error {
	codecOnce.Do(func() {
		encoder, codecErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if codecErr != nil {
			return
		}
		decoder, codecErr = zstd.NewReader(nil)
	})
	return codecErr
}

// entry is the on-disk envelope of a cached response.
type entry struct {
	Key      string         `json:"key"`
	Response *core.Response `json:"response"`
}

// CacheStorage implements core.CacheStorage on disk: one directory per
// cache name, one compressed file per request key.
type CacheStorage struct {
	Root   string
	logger *slog.Logger
}

// NewCacheStorage creates a cache storage rooted at root.
func NewCacheStorage(root string, logger *slog.Logger) *CacheStorage {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CacheStorage{Root: root, logger: logger}
}

func (s *CacheStorage) dir(name string) (string, error) {
	switch name {
	case "":
		return "", fmt.Errorf("cache name cannot be empty")
	case ".", "..":
		return "", fmt.Errorf("invalid cache name %q", name)
	}
	return filepath.Join(s.Root, url.PathEscape(name)), nil
}

// Open implements core.CacheStorage.
func (s *CacheStorage) Open(ctx context.Context, name string) (core.Cache, error) {
	dir, err := s.dir(name)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache %s: %w", name, err)
	}
	if err := initCodec(); err != nil {
		return nil, fmt.Errorf("failed to init zstd: %w", err)
	}
	return &diskCache{name: name, dir: dir, logger: s.logger}, nil
}

// Has implements core.CacheStorage.
func (s *CacheStorage) Has(ctx context.Context, name string) (bool, error) {
	dir, err := s.dir(name)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// Keys implements core.CacheStorage.
func (s *CacheStorage) Keys(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.Root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list caches: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name, err := url.PathUnescape(e.Name())
		if err != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete implements core.CacheStorage.
func (s *CacheStorage) Delete(ctx context.Context, name string) (bool, error) {
	ok, err := s.Has(ctx, name)
	if err != nil || !ok {
		return false, err
	}
	dir, _ := s.dir(name)
	if err := os.RemoveAll(dir); err != nil {
		return false, fmt.Errorf("failed to delete cache %s: %w", name, err)
	}
	return true, nil
}

// ComponentType implements introspection.Component.
func (s *CacheStorage) ComponentType() string {
	return "fs-cache-storage"
}

type diskCache struct {
	name   string
	dir    string
	logger *slog.Logger
}

func (c *diskCache) path(key string) string {
	sum := blake3.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:16])+entryExt)
}

// Match implements core.Cache. Unreadable entries count as misses.
func (c *diskCache) Match(ctx context.Context, key string) (*core.Response, bool, error) {
	raw, err := os.ReadFile(c.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	e, err := decodeEntry(raw)
	if err != nil || e.Key != key || e.Response == nil {
		c.logger.Warn("discarding corrupt cache entry", "cache", c.name, "key", key, "error", err)
		return nil, false, nil
	}
	return e.Response, true, nil
}

// Put implements core.Cache.
func (c *diskCache) Put(ctx context.Context, key string, resp *core.Response) error {
	data, err := json.Marshal(entry{Key: key, Response: resp})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if _, err := writeFileAtomic(c.path(key), encoder.EncodeAll(data, nil), nil); err != nil {
		return fmt.Errorf("failed to store cache entry %s: %w", key, err)
	}
	return nil
}

// Keys implements core.Cache.
func (c *diskCache) Keys(ctx context.Context) ([]string, error) {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache %s: %w", c.name, err)
	}

	var keys []string
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), entryExt) {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(c.dir, f.Name()))
		if err != nil {
			continue
		}
		if e, err := decodeEntry(raw); err == nil {
			keys = append(keys, e.Key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func decodeEntry(raw []byte) (entry, error) {
	var e entry
	data, err := decoder.DecodeAll(raw, nil)
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(data, &e)
	return e, err
}
