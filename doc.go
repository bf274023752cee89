// Package simplelog is the composition root of a local, single-user note
// log with an offline resource cache.
//
// It wires the note store (pkg/notes) and the offline cache manager
// (pkg/offline) to a storage adapter chosen by name, following a hexagonal
// layout: the domain ports live in pkg/core and the adapters in
// pkg/adapters.
//
// Features:
//
//   - **Note Store**: create, update, delete and list notes persisted as one
//     JSON document under a single storage key.
//   - **Adapters**: filesystem (atomic writes, change watching), SQLite and
//     in-memory storage.
//   - **Offline Cache**: install, fetch and activate a versioned set of
//     static resources, purging older generations on activation.
//   - **Dev Safety**: under `go run` or `go test` the data directory is
//     re-rooted into a temporary directory unless disabled.
//
// Usage:
//
//	store, closeFn, err := simplelog.OpenStore(ctx, "./.simplelog",
//		simplelog.WithAdapter("sqlite"),
//		simplelog.WithLogger(logger),
//	)
//	defer closeFn()
//
//	note, err := store.Create(ctx, notes.Input{Content: "Buy milk"})
package simplelog
