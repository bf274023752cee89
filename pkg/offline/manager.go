package offline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/simplelog/pkg/core"
)

// State is a step of the cache lifecycle.
type State int

const (
	StateIdle State = iota
	StateInstalling
	StateInstalled
	StateActivating
	StateActive
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInstalling:
		return "installing"
	case StateInstalled:
		return "installed"
	case StateActivating:
		return "activating"
	case StateActive:
		return "active"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Source tells where a fetched response came from.
type Source string

const (
	SourceCache    Source = "cache"
	SourceNetwork  Source = "network"
	SourceFallback Source = "offline-fallback"
	SourceNone     Source = "none"
)

// ErrNotInstalled is returned by Activate before a successful Install.
var ErrNotInstalled = errors.New("cache is not installed")

// Config configures a Manager.
type Config struct {
	Manifest Manifest
	Storage  core.CacheStorage
	Fetcher  Fetcher
	Logger   *slog.Logger

	// Origin resolves the manifest's relative URLs into cache keys. Optional.
	Origin *url.URL

	// Bypass holds doublestar globs; matching request paths always go to
	// the network.
	Bypass []string

	// OfflineURL, when cached, is served if the network fails on a miss.
	OfflineURL string

	// Retries is the number of attempts per resource during install. Zero means 3.
	Retries uint
	// RetryDelay is the base delay between attempts. Zero means 200ms.
	RetryDelay time.Duration
}

// Manager drives the install, fetch and activate lifecycle of one cache
// generation.
type Manager struct {
	cfg    Config
	logger *slog.Logger

	// lifecycle serializes Install and Activate so install always
	// completes before activate begins.
	lifecycle sync.Mutex

	mu          sync.RWMutex
	state       State
	active      core.Cache
	installed   core.Cache
	installedAt *time.Time
	activatedAt *time.Time
	purged      []string

	hits, misses, networkFailures atomic.Int64
}

// NewManager validates cfg and returns an idle manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Manifest.Name == "" {
		return nil, fmt.Errorf("cache name cannot be empty")
	}
	if cfg.Storage == nil {
		return nil, fmt.Errorf("cache storage is required")
	}
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	for _, p := range cfg.Bypass {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid bypass pattern %q", p)
		}
	}
	if cfg.Retries == 0 {
		cfg.Retries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 200 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	cfg.Manifest = cfg.Manifest.normalized()

	return &Manager{
		cfg:    cfg,
		logger: cfg.Logger.With("cache", cfg.Manifest.Name),
	}, nil
}

// Name returns the current cache identifier.
func (m *Manager) Name() string { return m.cfg.Manifest.Name }

// Manifest returns the normalized manifest the manager installs.
func (m *Manager) Manifest() Manifest {
	return Manifest{Name: m.cfg.Manifest.Name, URLs: append([]string(nil), m.cfg.Manifest.URLs...)}
}

// Current returns the lifecycle state.
func (m *Manager) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

// Start installs then activates, the order a fresh deployment goes through.
func (m *Manager) Start(ctx context.Context) error {
	if err := m.Install(ctx); err != nil {
		return err
	}
	_, err := m.Activate(ctx)
	return err
}

// Install fetches every manifest resource and stores them in the named
// cache. Resources are staged in memory first: if any fetch fails nothing
// is written and the manager returns to its previous state.
func (m *Manager) Install(ctx context.Context) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	prev := m.Current()
	m.setState(StateInstalling)
	m.logger.Info("installing cache", "resources", len(m.cfg.Manifest.URLs))

	staged, err := m.stage(ctx)
	if err != nil {
		m.setState(prev)
		m.logger.Error("install failed", "error", err)
		return fmt.Errorf("install %s: %w", m.Name(), err)
	}

	cache, err := m.commit(ctx, staged)
	if err != nil {
		m.setState(prev)
		m.logger.Error("install failed", "error", err)
		return fmt.Errorf("install %s: %w", m.Name(), err)
	}

	now := time.Now()
	m.mu.Lock()
	m.installed = cache
	m.installedAt = &now
	// A re-install while active keeps serving: the new entries landed in
	// the same named cache.
	if prev == StateActive {
		m.state = StateActive
		m.active = cache
	} else {
		m.state = StateInstalled
	}
	m.mu.Unlock()

	m.logger.Info("cache installed")
	return nil
}

type stagedEntry struct {
	key  string
	resp *core.Response
}

func (m *Manager) stage(ctx context.Context) ([]stagedEntry, error) {
	urls := m.cfg.Manifest.URLs
	staged := make([]stagedEntry, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	for i, raw := range urls {
		g.Go(func() error {
			u, err := url.Parse(raw)
			if err != nil {
				return fmt.Errorf("parse %q: %w", raw, err)
			}
			key := requestKey(u, m.cfg.Origin)

			var resp *core.Response
			err = retry.Do(
				func() error {
					req, err := http.NewRequestWithContext(gctx, http.MethodGet, raw, nil)
					if err != nil {
						return retry.Unrecoverable(err)
					}
					r, err := m.cfg.Fetcher.Fetch(gctx, req)
					if err != nil {
						return err
					}
					if !r.OK() {
						return fmt.Errorf("bad status %d", r.Status)
					}
					resp = r
					return nil
				},
				retry.Context(gctx),
				retry.Attempts(m.cfg.Retries),
				retry.Delay(m.cfg.RetryDelay),
				retry.LastErrorOnly(true),
				retry.OnRetry(func(attempt uint, err error) {
					m.logger.Warn("resource fetch failed, retrying",
						"url", raw, "attempt", attempt+1, "error", err)
				}),
			)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", raw, err)
			}
			staged[i] = stagedEntry{key: key, resp: resp}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return staged, nil
}

func (m *Manager) commit(ctx context.Context, staged []stagedEntry) (core.Cache, error) {
	existed, err := m.cfg.Storage.Has(ctx, m.Name())
	if err != nil {
		return nil, err
	}
	cache, err := m.cfg.Storage.Open(ctx, m.Name())
	if err != nil {
		return nil, err
	}
	for _, e := range staged {
		if err := cache.Put(ctx, e.key, e.resp); err != nil {
			if !existed {
				_, _ = m.cfg.Storage.Delete(ctx, m.Name())
			}
			return nil, err
		}
	}
	return cache, nil
}

// Resume adopts an already installed cache generation as active without
// purging anything, the way a worker activated by an earlier process keeps
// controlling later ones. It reports whether the cache was found.
func (m *Manager) Resume(ctx context.Context) (bool, error) {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	if m.Current() == StateActive {
		return true, nil
	}
	ok, err := m.cfg.Storage.Has(ctx, m.Name())
	if err != nil || !ok {
		return false, err
	}
	cache, err := m.cfg.Storage.Open(ctx, m.Name())
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	m.installed = cache
	m.active = cache
	m.state = StateActive
	m.mu.Unlock()

	m.logger.Debug("resumed installed cache")
	return true, nil
}

// Activate deletes every cache whose identifier is not the current one and
// starts serving from the current cache. It returns the purged identifiers.
// A cache installed by an earlier process counts as installed.
func (m *Manager) Activate(ctx context.Context) ([]string, error) {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	prev := m.Current()
	cache, err := m.installedCache(ctx, prev)
	if err != nil {
		return nil, err
	}

	m.setState(StateActivating)
	names, err := m.cfg.Storage.Keys(ctx)
	if err != nil {
		m.setState(prev)
		return nil, fmt.Errorf("activate %s: list caches: %w", m.Name(), err)
	}

	var purged []string
	for _, name := range names {
		if name == m.Name() {
			continue
		}
		if _, err := m.cfg.Storage.Delete(ctx, name); err != nil {
			m.setState(prev)
			return purged, fmt.Errorf("activate %s: delete %s: %w", m.Name(), name, err)
		}
		m.logger.Info("deleted stale cache", "stale", name)
		purged = append(purged, name)
	}

	now := time.Now()
	m.mu.Lock()
	m.active = cache
	m.state = StateActive
	m.activatedAt = &now
	m.purged = purged
	m.mu.Unlock()

	m.logger.Info("cache activated", "purged", len(purged))
	return purged, nil
}

func (m *Manager) installedCache(ctx context.Context, s State) (core.Cache, error) {
	switch s {
	case StateInstalled, StateActive:
		m.mu.RLock()
		defer m.mu.RUnlock()
		return m.installed, nil
	case StateIdle:
		ok, err := m.cfg.Storage.Has(ctx, m.Name())
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrNotInstalled
		}
		cache, err := m.cfg.Storage.Open(ctx, m.Name())
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.installed = cache
		m.mu.Unlock()
		return cache, nil
	default:
		return nil, fmt.Errorf("cannot activate while %s", s)
	}
}

// Fetch answers an intercepted request: the cached response when present,
// the network otherwise. A network failure on a miss is swallowed and yields
// nil. Before the first activation every request goes to the network; once
// a generation is active it keeps answering while a re-install or
// re-activation runs.
func (m *Manager) Fetch(ctx context.Context, req *http.Request) *core.Response {
	resp, _ := m.fetch(ctx, req)
	return resp
}

func (m *Manager) fetch(ctx context.Context, req *http.Request) (*core.Response, Source) {
	m.mu.RLock()
	cache := m.active
	m.mu.RUnlock()

	if cache != nil && req.Method == http.MethodGet && !m.bypassed(req.URL.Path) {
		key := requestKey(req.URL, m.cfg.Origin)
		resp, ok, err := cache.Match(ctx, key)
		if err != nil {
			m.logger.Warn("cache lookup failed", "key", key, "error", err)
		}
		if ok {
			m.hits.Add(1)
			m.logger.Debug("cache hit", "key", key)
			return resp, SourceCache
		}
		m.misses.Add(1)
	}

	resp, err := m.cfg.Fetcher.Fetch(ctx, req)
	if err == nil {
		return resp, SourceNetwork
	}

	m.networkFailures.Add(1)
	m.logger.Warn("network fetch failed", "url", req.URL.String(), "error", err)
	if fallback := m.fallback(ctx, cache); fallback != nil {
		return fallback, SourceFallback
	}
	return nil, SourceNone
}

func (m *Manager) fallback(ctx context.Context, cache core.Cache) *core.Response {
	if m.cfg.OfflineURL == "" || cache == nil {
		return nil
	}
	u, err := url.Parse(m.cfg.OfflineURL)
	if err != nil {
		return nil
	}
	resp, ok, err := cache.Match(ctx, requestKey(u, m.cfg.Origin))
	if err != nil || !ok {
		return nil
	}
	return resp
}

func (m *Manager) bypassed(path string) bool {
	for _, p := range m.cfg.Bypass {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}
