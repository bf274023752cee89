// Package app wires the note store and the view selector into the
// user-facing actions of the application.
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/simplelog/pkg/core"
	"github.com/aretw0/simplelog/pkg/notes"
	"github.com/aretw0/simplelog/pkg/view"
)

// User-visible prompt texts.
const (
	MsgEmptyContent  = "Note content cannot be empty."
	MsgConfirmDelete = "Are you sure you want to delete this note?"
)

// Prompter is the channel for the two user prompts the application raises.
type Prompter interface {
	// Alert shows a message the user must acknowledge.
	Alert(msg string)
	// Confirm asks a yes/no question; true means the user agreed.
	Confirm(msg string) bool
}

// FormInput is a submitted add/edit form. A non-empty ID means edit.
type FormInput struct {
	ID      string
	Title   string
	Content string
}

// Session routes user actions to the store and the selector.
type Session struct {
	Store    *notes.Store
	View     *view.Selector
	prompter Prompter
	logger   *slog.Logger
}

// NewSession creates a session starting on the home panel.
func NewSession(store *notes.Store, prompter Prompter, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		Store:    store,
		View:     view.NewSelector(),
		prompter: prompter,
		logger:   logger,
	}
}

// ShowHome reveals the home panel.
func (s *Session) ShowHome() { _ = s.View.Show(view.PanelHome) }

// ShowList reveals the note list.
func (s *Session) ShowList() { _ = s.View.Show(view.PanelList) }

// ShowAddForm opens a blank form in create mode.
func (s *Session) ShowAddForm() { s.View.ShowForm(nil) }

// ShowEditForm opens the form pre-filled with note id. Stale ids are ignored.
func (s *Session) ShowEditForm(id string) bool {
	note, ok := s.Store.Find(id)
	if !ok {
		s.logger.Debug("edit requested for unknown note", "id", id)
		return false
	}
	s.View.ShowForm(&note)
	return true
}

// ShowDetail opens the detail panel for id. Stale ids are ignored.
func (s *Session) ShowDetail(id string) bool {
	note, ok := s.Store.Find(id)
	if !ok {
		s.logger.Debug("detail requested for unknown note", "id", id)
		return false
	}
	s.View.ShowDetail(note)
	return true
}

// NavigateBack returns to the list from any terminal panel.
func (s *Session) NavigateBack() { s.View.Back() }

// CancelForm abandons the form and returns to the list.
func (s *Session) CancelForm() { s.View.Back() }

// SubmitForm creates or updates a note. Empty content raises an alert and
// leaves everything untouched, the form included. Only storage failures are
// returned as errors.
func (s *Session) SubmitForm(ctx context.Context, in FormInput) error {
	input := notes.Input{Title: in.Title, Content: in.Content}

	var err error
	if in.ID != "" {
		_, _, err = s.Store.Update(ctx, in.ID, input)
	} else {
		_, err = s.Store.Create(ctx, input)
	}
	if errors.Is(err, core.ErrEmptyContent) {
		s.prompter.Alert(MsgEmptyContent)
		return nil
	}
	if err != nil {
		return err
	}

	s.ShowList()
	return nil
}

// ConfirmDelete deletes note id after the user agrees, then shows the list.
// Declining changes nothing. It reports whether a note was removed.
func (s *Session) ConfirmDelete(ctx context.Context, id string) (bool, error) {
	if !s.prompter.Confirm(MsgConfirmDelete) {
		return false, nil
	}

	deleted, err := s.Store.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	s.ShowList()
	return deleted, nil
}

// DetailNote returns the note bound to the detail panel, if still present.
func (s *Session) DetailNote() (core.Note, bool) {
	id := s.View.DetailID()
	if id == "" {
		return core.Note{}, false
	}
	return s.Store.Find(id)
}
