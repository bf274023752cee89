package notes_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/simplelog/pkg/adapters/fs"
	"github.com/aretw0/simplelog/pkg/adapters/memory"
	"github.com/aretw0/simplelog/pkg/core"
	"github.com/aretw0/simplelog/pkg/notes"
)

func TestStore_WatchReloadsExternalWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	watched := fs.NewStorage(fs.Config{Path: dir, Debounce: 10 * time.Millisecond})
	require.NoError(t, watched.Initialize(ctx))

	s := notes.New(watched)
	require.NoError(t, s.Load(ctx))

	loaded := make(chan struct{}, 4)
	s.Subscribe(func(e core.Event) {
		if e.Type == core.EventLoad {
			select {
			case loaded <- struct{}{}:
			default:
			}
		}
	})
	require.NoError(t, s.Watch(ctx))
	require.Eventually(t, func() bool {
		return watched.State().(fs.StorageState).WatcherActive
	}, 2*time.Second, 10*time.Millisecond)

	// A second process writing the same directory.
	other := notes.New(fs.NewStorage(fs.Config{Path: dir}))
	require.NoError(t, other.Load(ctx))
	_, err := other.Create(ctx, notes.Input{Content: "from elsewhere"})
	require.NoError(t, err)

	select {
	case <-loaded:
	case <-time.After(5 * time.Second):
		t.Fatal("store was not reloaded after external write")
	}

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "from elsewhere", list[0].Content)
}

func TestStore_WatchNotWatchable(t *testing.T) {
	s := notes.New(memory.NewStorage())
	err := s.Watch(context.Background())
	assert.ErrorIs(t, err, notes.ErrNotWatchable)
}
