// Package notes owns the authoritative note collection. Every mutation is
// mirrored to a single storage key before observers are told to re-render.
package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/simplelog/pkg/core"
)

// Input carries the user-editable fields of a note.
type Input struct {
	Title   string
	Content string
}

func (in Input) normalize() (Input, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return in, core.ErrEmptyContent
	}
	return in, nil
}

// Store is the single owner of the note collection.
type Store struct {
	storage core.Storage
	key     string
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string

	mu          sync.RWMutex
	notes       []core.Note
	loaded      bool
	lastPersist *time.Time

	obsMu     sync.Mutex
	observers map[int]func(core.Event)
	nextObs   int
}

// New creates a Store over storage. Call Load before reading; writes load
// the stored collection on their own if Load has not run yet.
func New(storage core.Storage, opts ...Option) *Store {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Store{
		storage:   storage,
		key:       o.key,
		logger:    o.logger,
		now:       o.now,
		newID:     o.newID,
		observers: make(map[int]func(core.Event)),
	}
}

// Key returns the storage key the collection is persisted under.
func (s *Store) Key() string { return s.key }

// Load reads the persisted collection and makes it the in-memory state.
// A missing or unparseable value yields an empty collection.
func (s *Store) Load(ctx context.Context) error {
	notes, err := s.read(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.notes = notes
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug("notes loaded", "key", s.key, "count", len(notes))
	s.notify(core.Event{Type: core.EventLoad, Timestamp: s.now()})
	return nil
}

// Reload re-reads storage after an external change.
func (s *Store) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

func (s *Store) read(ctx context.Context) ([]core.Note, error) {
	data, err := s.storage.Get(ctx, s.key)
	if errors.Is(err, core.ErrKeyNotFound) {
		return []core.Note{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}

	notes, err := Decode(data)
	if err != nil {
		s.logger.Warn("stored notes are corrupt, starting empty", "key", s.key, "error", err)
		return []core.Note{}, nil
	}
	return s.sanitize(notes), nil
}

// loadLocked reads storage the first time a write happens without a prior
// Load, so the write never replaces a collection it has not seen.
func (s *Store) loadLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	notes, err := s.read(ctx)
	if err != nil {
		return err
	}
	s.notes = notes
	s.loaded = true
	return nil
}

// sanitize restores the id invariants on data written by other tools:
// blank ids get a fresh one and duplicates keep their first occurrence.
func (s *Store) sanitize(notes []core.Note) []core.Note {
	seen := make(map[string]bool, len(notes))
	out := notes[:0]
	for _, n := range notes {
		if n.ID == "" {
			n.ID = s.newID()
		}
		if seen[n.ID] {
			s.logger.Warn("dropping duplicate note id", "id", n.ID)
			continue
		}
		seen[n.ID] = true
		out = append(out, n)
	}
	return out
}

// Create validates input, appends a new note and persists the collection.
func (s *Store) Create(ctx context.Context, in Input) (core.Note, error) {
	in, err := in.normalize()
	if err != nil {
		return core.Note{}, err
	}

	s.mu.Lock()
	if err := s.loadLocked(ctx); err != nil {
		s.mu.Unlock()
		return core.Note{}, err
	}
	now := s.now().UTC()
	note := core.Note{
		ID:      s.uniqueID(),
		Title:   in.Title,
		Content: in.Content,
		Created: now,
		Updated: now,
	}
	prev := s.notes
	s.notes = append(cloneNotes(prev), note)
	if err := s.persistLocked(ctx); err != nil {
		s.notes = prev
		s.mu.Unlock()
		return core.Note{}, err
	}
	s.mu.Unlock()

	s.logger.Info("note created", "id", note.ID)
	s.notify(core.Event{Type: core.EventCreate, ID: note.ID, Timestamp: now})
	return note, nil
}

// Update overwrites title and content of the note with id. An unknown id is
// a silent no-op reported through ok.
func (s *Store) Update(ctx context.Context, id string, in Input) (note core.Note, ok bool, err error) {
	in, err = in.normalize()
	if err != nil {
		return core.Note{}, false, err
	}

	s.mu.Lock()
	if err := s.loadLocked(ctx); err != nil {
		s.mu.Unlock()
		return core.Note{}, false, err
	}
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Debug("update ignored, note not found", "id", id)
		return core.Note{}, false, nil
	}

	prev := s.notes
	s.notes = cloneNotes(prev)
	note = s.notes[idx]
	note.Title = in.Title
	note.Content = in.Content
	note.Updated = s.now().UTC()
	// created <= updated must survive a clock that went backwards.
	if note.Updated.Before(prev[idx].Updated) {
		note.Updated = prev[idx].Updated
	}
	s.notes[idx] = note

	if err := s.persistLocked(ctx); err != nil {
		s.notes = prev
		s.mu.Unlock()
		return core.Note{}, false, err
	}
	s.mu.Unlock()

	s.logger.Info("note updated", "id", id)
	s.notify(core.Event{Type: core.EventModify, ID: id, Timestamp: note.Updated})
	return note, true, nil
}

// Delete removes the note with id. An unknown id is a silent no-op.
// Confirmation is the caller's concern.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	if err := s.loadLocked(ctx); err != nil {
		s.mu.Unlock()
		return false, err
	}
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Debug("delete ignored, note not found", "id", id)
		return false, nil
	}

	prev := s.notes
	next := make([]core.Note, 0, len(prev)-1)
	next = append(next, prev[:idx]...)
	next = append(next, prev[idx+1:]...)
	s.notes = next

	if err := s.persistLocked(ctx); err != nil {
		s.notes = prev
		s.mu.Unlock()
		return false, err
	}
	s.mu.Unlock()

	s.logger.Info("note deleted", "id", id)
	s.notify(core.Event{Type: core.EventDelete, ID: id, Timestamp: s.now()})
	return true, nil
}

// Find returns a copy of the note with id.
func (s *Store) Find(id string) (core.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexLocked(id); idx >= 0 {
		return s.notes[idx], true
	}
	return core.Note{}, false
}

// List returns a copy of the collection, most recently updated first.
func (s *Store) List() []core.Note {
	s.mu.RLock()
	out := cloneNotes(s.notes)
	s.mu.RUnlock()

	SortByRecency(out)
	return out
}

// Len returns the number of notes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// SortByRecency orders notes by updated desc, then created desc, then id.
func SortByRecency(notes []core.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		a, b := notes[i], notes[j]
		if !a.Updated.Equal(b.Updated) {
			return a.Updated.After(b.Updated)
		}
		if !a.Created.Equal(b.Created) {
			return a.Created.After(b.Created)
		}
		return a.ID < b.ID
	})
}

// persistLocked writes the full collection. Caller holds s.mu.
func (s *Store) persistLocked(ctx context.Context) error {
	data, err := Encode(s.notes)
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("persist notes: %w", err)
	}
	now := s.now()
	s.lastPersist = &now
	return nil
}

func (s *Store) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.notes {
		if s.notes[i].ID == id {
			return i
		}
	}
	return -1
}

// uniqueID draws ids until one is unused. Caller holds s.mu.
func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if id != "" && s.indexLocked(id) < 0 {
			return id
		}
	}
}

func cloneNotes(notes []core.Note) []core.Note {
	out := make([]core.Note, len(notes))
	copy(out, notes)
	return out
}
