package offline

import (
	"time"

	"github.com/aretw0/introspection"
)

// ManagerState exposes internal state for observability.
type ManagerState struct {
	Name            string     `json:"name"`
	State           string     `json:"state"`
	Resources       int        `json:"resources"`
	Hits            int64      `json:"hits"`
	Misses          int64      `json:"misses"`
	NetworkFailures int64      `json:"network_failures"`
	InstalledAt     *time.Time `json:"installed_at,omitempty"`
	ActivatedAt     *time.Time `json:"activated_at,omitempty"`
	Purged          []string   `json:"purged,omitempty"`
	StorageType     string     `json:"storage_type"`
}

// State implements introspection.Introspectable.
func (m *Manager) State() any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state := ManagerState{
		Name:            m.Name(),
		State:           m.state.String(),
		Resources:       len(m.cfg.Manifest.URLs),
		Hits:            m.hits.Load(),
		Misses:          m.misses.Load(),
		NetworkFailures: m.networkFailures.Load(),
		InstalledAt:     m.installedAt,
		ActivatedAt:     m.activatedAt,
		Purged:          append([]string(nil), m.purged...),
		StorageType:     "cache-storage",
	}
	if comp, ok := m.cfg.Storage.(introspection.Component); ok {
		state.StorageType = comp.ComponentType()
	}
	return state
}

// ComponentType implements introspection.Component.
func (m *Manager) ComponentType() string {
	return "offline-cache"
}

var _ introspection.Introspectable = (*Manager)(nil)
var _ introspection.Component = (*Manager)(nil)
