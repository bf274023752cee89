package notes_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/simplelog/pkg/adapters/memory"
	"github.com/aretw0/simplelog/pkg/core"
	"github.com/aretw0/simplelog/pkg/notes"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)}
}

// Now advances one second per call so every mutation gets a distinct time.
func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func (c *fakeClock) Rewind(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(-d)
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("note-%d", n)
	}
}

func newStore(t *testing.T) (*notes.Store, *memory.Storage, *fakeClock) {
	t.Helper()
	storage := memory.NewStorage()
	clock := newClock()
	s := notes.New(storage,
		notes.WithClock(clock.Now),
		notes.WithIDGenerator(sequentialIDs()),
	)
	require.NoError(t, s.Load(context.Background()))
	return s, storage, clock
}

func persisted(t *testing.T, storage *memory.Storage) []core.Note {
	t.Helper()
	data, err := storage.Get(context.Background(), notes.DefaultKey)
	require.NoError(t, err)
	list, err := notes.Decode(data)
	require.NoError(t, err)
	return list
}

func TestStore_CreateFind(t *testing.T) {
	ctx := context.Background()
	s, storage, _ := newStore(t)

	n, err := s.Create(ctx, notes.Input{Content: "  Buy milk\nAlso eggs  "})
	require.NoError(t, err)

	got, ok := s.Find(n.ID)
	require.True(t, ok)
	assert.Equal(t, "Buy milk\nAlso eggs", got.Content, "content is trimmed")
	assert.Equal(t, got.Created, got.Updated)
	assert.Equal(t, "Buy milk", got.DisplayTitle())

	assert.Equal(t, []core.Note{got}, persisted(t, storage))
}

func TestStore_CreateRejectsEmptyContent(t *testing.T) {
	ctx := context.Background()
	s, storage, _ := newStore(t)

	_, err := s.Create(ctx, notes.Input{Title: "only a title", Content: " \n\t "})
	require.ErrorIs(t, err, core.ErrEmptyContent)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, storage.Writes(), "validation failures must not touch storage")
}

func TestStore_CreateUniqueIDs(t *testing.T) {
	ctx := context.Background()
	storage := memory.NewStorage()
	// A generator that repeats itself must not produce duplicates.
	ids := []string{"a", "a", "b"}
	i := 0
	s := notes.New(storage, notes.WithIDGenerator(func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}))
	require.NoError(t, s.Load(ctx))

	n1, err := s.Create(ctx, notes.Input{Content: "one"})
	require.NoError(t, err)
	n2, err := s.Create(ctx, notes.Input{Content: "two"})
	require.NoError(t, err)
	assert.NotEqual(t, n1.ID, n2.ID)
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()
	s, storage, _ := newStore(t)

	n, err := s.Create(ctx, notes.Input{Title: "Shopping", Content: "Buy milk"})
	require.NoError(t, err)

	updated, ok, err := s.Update(ctx, n.ID, notes.Input{Title: "Shopping", Content: "Updated"})
	require.NoError(t, err)
	require.True(t, ok)

	got, _ := s.Find(n.ID)
	assert.Equal(t, "Updated", got.Content)
	assert.Equal(t, n.Created, got.Created, "created is immutable")
	assert.True(t, got.Updated.After(n.Updated))
	assert.Equal(t, updated, got)
	assert.Equal(t, "Updated", persisted(t, storage)[0].Content)
}

func TestStore_UpdateClockSkew(t *testing.T) {
	ctx := context.Background()
	s, _, clock := newStore(t)

	n, err := s.Create(ctx, notes.Input{Content: "x"})
	require.NoError(t, err)

	clock.Rewind(time.Hour)
	got, ok, err := s.Update(ctx, n.ID, notes.Input{Content: "y"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, got.Updated.Before(got.Created))
	assert.Equal(t, n.Updated, got.Updated)
}

func TestStore_UpdateUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	s, storage, _ := newStore(t)
	_, err := s.Create(ctx, notes.Input{Content: "x"})
	require.NoError(t, err)
	writes := storage.Writes()

	_, ok, err := s.Update(ctx, "stale", notes.Input{Content: "y"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, writes, storage.Writes())
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s, storage, _ := newStore(t)

	keep, err := s.Create(ctx, notes.Input{Content: "keep"})
	require.NoError(t, err)
	drop, err := s.Create(ctx, notes.Input{Content: "drop"})
	require.NoError(t, err)

	ok, err := s.Delete(ctx, drop.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, found := s.Find(drop.ID)
	assert.False(t, found)
	for _, n := range persisted(t, storage) {
		assert.NotEqual(t, drop.ID, n.ID)
	}
	_, found = s.Find(keep.ID)
	assert.True(t, found)

	ok, err = s.Delete(ctx, drop.ID)
	require.NoError(t, err)
	assert.False(t, ok, "second delete is a no-op")
}

func TestStore_ListRecencyOrder(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newStore(t)

	a, _ := s.Create(ctx, notes.Input{Content: "a"})
	b, _ := s.Create(ctx, notes.Input{Content: "b"})
	c, _ := s.Create(ctx, notes.Input{Content: "c"})
	_, _, err := s.Update(ctx, a.ID, notes.Input{Content: "a2"})
	require.NoError(t, err)

	var ids []string
	for _, n := range s.List() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{a.ID, c.ID, b.ID}, ids)
}

func TestStore_ListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newStore(t)
	n, _ := s.Create(ctx, notes.Input{Content: "original"})

	list := s.List()
	list[0].Content = "mutated"

	got, _ := s.Find(n.ID)
	assert.Equal(t, "original", got.Content)
}

func TestStore_LoadCorruptIsEmpty(t *testing.T) {
	ctx := context.Background()
	storage := memory.NewStorage()
	require.NoError(t, storage.Set(ctx, notes.DefaultKey, []byte("{not json")))

	s := notes.New(storage)
	require.NoError(t, s.Load(ctx))
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.List())
}

func TestStore_LoadSanitizesIDs(t *testing.T) {
	ctx := context.Background()
	storage := memory.NewStorage()
	blob := `[{"id":"a","content":"1"},{"id":"a","content":"dup"},{"id":"","content":"blank"}]`
	require.NoError(t, storage.Set(ctx, notes.DefaultKey, []byte(blob)))

	s := notes.New(storage, notes.WithIDGenerator(sequentialIDs()))
	require.NoError(t, s.Load(ctx))
	require.Equal(t, 2, s.Len())

	got, ok := s.Find("a")
	require.True(t, ok)
	assert.Equal(t, "1", got.Content)
	_, ok = s.Find("note-1")
	assert.True(t, ok)
}

type failingStorage struct {
	*memory.Storage
	fail bool
}

func (f *failingStorage) Set(ctx context.Context, key string, value []byte) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Storage.Set(ctx, key, value)
}

func TestStore_PersistFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	storage := &failingStorage{Storage: memory.NewStorage()}
	s := notes.New(storage)
	require.NoError(t, s.Load(ctx))

	n, err := s.Create(ctx, notes.Input{Content: "kept"})
	require.NoError(t, err)

	storage.fail = true
	_, err = s.Create(ctx, notes.Input{Content: "lost"})
	require.Error(t, err)
	_, _, err = s.Update(ctx, n.ID, notes.Input{Content: "changed"})
	require.Error(t, err)
	_, err = s.Delete(ctx, n.ID)
	require.Error(t, err)

	require.Equal(t, 1, s.Len())
	got, _ := s.Find(n.ID)
	assert.Equal(t, "kept", got.Content)
}

type unreadableStorage struct {
	*memory.Storage
}

func (u *unreadableStorage) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("permission denied")
}

func TestStore_WriteBeforeLoadKeepsStoredNotes(t *testing.T) {
	ctx := context.Background()
	storage := memory.NewStorage()

	seed := notes.New(storage)
	require.NoError(t, seed.Load(ctx))
	existing, err := seed.Create(ctx, notes.Input{Content: "already there"})
	require.NoError(t, err)

	s := notes.New(storage)
	_, err = s.Create(ctx, notes.Input{Content: "added without Load"})
	require.NoError(t, err)

	stored := persisted(t, storage)
	require.Len(t, stored, 2)
	assert.Equal(t, existing.ID, stored[0].ID)

	fresh := notes.New(storage)
	_, ok, err := fresh.Update(ctx, existing.ID, notes.Input{Content: "edited"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, persisted(t, storage), 2)

	other := notes.New(storage)
	deleted, err := other.Delete(ctx, existing.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Len(t, persisted(t, storage), 1)
}

func TestStore_WriteBeforeLoadFailsOnUnreadableStorage(t *testing.T) {
	ctx := context.Background()
	storage := &unreadableStorage{Storage: memory.NewStorage()}
	s := notes.New(storage)

	_, err := s.Create(ctx, notes.Input{Content: "never written"})
	require.Error(t, err)
	assert.Zero(t, storage.Writes())
	assert.Zero(t, s.Len())
}

func TestStore_Subscribe(t *testing.T) {
	ctx := context.Background()
	s, storage, _ := newStore(t)

	var events []core.EventType
	var writesAtNotify []int
	unsubscribe := s.Subscribe(func(e core.Event) {
		events = append(events, e.Type)
		writesAtNotify = append(writesAtNotify, storage.Writes())
	})

	n, _ := s.Create(ctx, notes.Input{Content: "x"})
	_, _, _ = s.Update(ctx, n.ID, notes.Input{Content: "y"})
	_, _ = s.Delete(ctx, n.ID)
	_, _ = s.Create(ctx, notes.Input{Content: ""})

	assert.Equal(t, []core.EventType{core.EventCreate, core.EventModify, core.EventDelete}, events)
	assert.Equal(t, []int{1, 2, 3}, writesAtNotify, "storage is written before observers run")

	unsubscribe()
	_, _ = s.Create(ctx, notes.Input{Content: "z"})
	assert.Len(t, events, 3)
}

func TestStore_ExportYAML(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newStore(t)
	_, err := s.Create(ctx, notes.Input{Title: "T", Content: "body"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.Export(&buf, notes.FormatYAML))
	assert.True(t, strings.Contains(buf.String(), "content: body"), buf.String())

	assert.Error(t, s.Export(&buf, "xml"))
}

func TestStore_State(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newStore(t)
	_, _ = s.Create(ctx, notes.Input{Content: "x"})

	state := s.State().(notes.StoreState)
	assert.True(t, state.Loaded)
	assert.Equal(t, 1, state.Notes)
	assert.Equal(t, "memory-storage", state.StorageType)
	assert.NotNil(t, state.LastPersist)
}
