package fs_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/simplelog/pkg/adapters/fs"
	"github.com/aretw0/simplelog/pkg/core"
)

func TestCacheStorage_PutMatch(t *testing.T) {
	ctx := context.Background()
	cs := fs.NewCacheStorage(filepath.Join(t.TempDir(), "caches"), nil)

	names, err := cs.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, names, "missing root lists no caches")

	c, err := cs.Open(ctx, "my-simple-log-cache-v1")
	require.NoError(t, err)

	resp := &core.Response{
		URL:    "http://localhost/style.css",
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": {"text/css"}},
		Body:   []byte("body { margin: 0 }"),
	}
	require.NoError(t, c.Put(ctx, "/style.css", resp))

	// A fresh handle reads what the first one wrote.
	c2, err := cs.Open(ctx, "my-simple-log-cache-v1")
	require.NoError(t, err)
	got, ok, err := c2.Match(ctx, "/style.css")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, resp.Body, got.Body)
	assert.Equal(t, "text/css", got.Header.Get("Content-Type"))

	_, ok, err = c2.Match(ctx, "/script.js")
	require.NoError(t, err)
	assert.False(t, ok)

	keys, err := c2.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/style.css"}, keys)
}

func TestCacheStorage_KeysAndDelete(t *testing.T) {
	ctx := context.Background()
	cs := fs.NewCacheStorage(t.TempDir(), nil)

	for _, name := range []string{"cache-v1", "cache/v2"} {
		_, err := cs.Open(ctx, name)
		require.NoError(t, err)
	}

	names, err := cs.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cache-v1", "cache/v2"}, names, "names with separators round-trip")

	deleted, err := cs.Delete(ctx, "cache-v1")
	require.NoError(t, err)
	assert.True(t, deleted)

	has, err := cs.Has(ctx, "cache-v1")
	require.NoError(t, err)
	assert.False(t, has)

	deleted, err = cs.Delete(ctx, "cache-v1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCacheStorage_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	cs := fs.NewCacheStorage(root, nil)

	c, err := cs.Open(ctx, "v1")
	require.NoError(t, err)
	require.NoError(t, c.Put(ctx, "/", &core.Response{URL: "/", Status: 200, Body: []byte("ok")}))

	files, err := filepath.Glob(filepath.Join(root, "v1", "*.entry"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.NoError(t, os.WriteFile(files[0], []byte("garbage"), 0644))

	_, ok, err := c.Match(ctx, "/")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheStorage_RejectsDotNames(t *testing.T) {
	ctx := context.Background()
	parent := t.TempDir()
	cs := fs.NewCacheStorage(filepath.Join(parent, "caches"), nil)

	for _, name := range []string{".", ".."} {
		_, err := cs.Open(ctx, name)
		assert.Error(t, err, "open %q", name)

		_, err = cs.Has(ctx, name)
		assert.Error(t, err, "has %q", name)

		_, err = cs.Delete(ctx, name)
		assert.Error(t, err, "delete %q", name)
	}

	// Nothing escaped the cache root.
	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Names that merely contain dots still work.
	_, err = cs.Open(ctx, "app-v1.2")
	assert.NoError(t, err)
}
