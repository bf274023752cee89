package notes_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/simplelog/pkg/adapters/fs"
	"github.com/aretw0/simplelog/pkg/adapters/memory"
	"github.com/aretw0/simplelog/pkg/notes"
)

// TestConcurrentCreates verifies that creates racing from several goroutines
// are all persisted.
func TestConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	storage := fs.NewStorage(fs.Config{Path: t.TempDir()})
	require.NoError(t, storage.Initialize(ctx))

	s := notes.New(storage)
	require.NoError(t, s.Load(ctx))

	var wg sync.WaitGroup
	start := make(chan struct{})
	concurrency := 10

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			<-start
			if _, err := s.Create(ctx, notes.Input{Content: fmt.Sprintf("note from %d", id)}); err != nil {
				t.Errorf("routine %d: %v", id, err)
			}
		}(i)
	}

	close(start)
	wg.Wait()

	reopened := notes.New(storage)
	require.NoError(t, reopened.Load(ctx))
	assert.Equal(t, concurrency, reopened.Len())
}

func BenchmarkStore_Create(b *testing.B) {
	ctx := context.Background()
	s := notes.New(memory.NewStorage())
	if err := s.Load(ctx); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Create(ctx, notes.Input{Content: "benchmark note"}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStore_List(b *testing.B) {
	ctx := context.Background()
	s := notes.New(memory.NewStorage())
	if err := s.Load(ctx); err != nil {
		b.Fatal(err)
	}
	for i := 0; i < 1000; i++ {
		if _, err := s.Create(ctx, notes.Input{Content: fmt.Sprintf("Note %d\nbody", i)}); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.List()
	}
}
