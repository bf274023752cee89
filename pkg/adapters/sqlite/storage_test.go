package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/simplelog/pkg/adapters/sqlite"
	"github.com/aretw0/simplelog/pkg/core"
)

func TestStorage_Upsert(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", sqlite.DefaultFile)

	s, err := sqlite.NewStorage(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Initialize(ctx))

	_, err = s.Get(ctx, "notes")
	require.ErrorIs(t, err, core.ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, "notes", []byte("[]")))
	require.NoError(t, s.Set(ctx, "notes", []byte(`[{"id":"a"}]`)))

	got, err := s.Get(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(got))
	require.NoError(t, s.Close())

	// Reopen: value persisted, schema creation idempotent.
	s, err = sqlite.NewStorage(path, nil)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Initialize(ctx))

	got, err = s.Get(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(got))
}
