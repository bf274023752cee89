package simplelog_test

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/aretw0/simplelog"
	"github.com/aretw0/simplelog/pkg/core"
	"github.com/aretw0/simplelog/pkg/notes"
	"github.com/aretw0/simplelog/pkg/offline"
)

// Example_basic opens a data directory, adds a note and lists it.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "simplelog-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()
	store, closeFn, err := simplelog.OpenStore(ctx, tmpDir)
	if err != nil {
		log.Fatal(err)
	}
	defer closeFn()

	if _, err := store.Create(ctx, notes.Input{Content: "Buy milk\nAlso eggs"}); err != nil {
		log.Fatal(err)
	}

	for _, n := range store.List() {
		fmt.Println(n.DisplayTitle())
	}
	// Output:
	// Buy milk
}

// Example_offline installs a two-resource cache and serves from it without
// touching the network again.
func Example_offline() {
	ctx := context.Background()
	calls := 0
	fetcher := offline.FetcherFunc(func(ctx context.Context, req *http.Request) (*core.Response, error) {
		calls++
		return &core.Response{URL: req.URL.Path, Status: http.StatusOK, Body: []byte("hello")}, nil
	})

	mgr, err := simplelog.OpenCache("", offline.Config{
		Manifest: offline.Manifest{Name: "demo-v1", URLs: []string{"/", "/style.css"}},
		Fetcher:  fetcher,
	}, simplelog.WithAdapter("memory"))
	if err != nil {
		log.Fatal(err)
	}
	if err := mgr.Start(ctx); err != nil {
		log.Fatal(err)
	}

	resp := mgr.Fetch(ctx, httptest.NewRequest(http.MethodGet, "/style.css", nil))
	fmt.Println(mgr.Current(), string(resp.Body), calls)
	// Output:
	// active hello 2
}
