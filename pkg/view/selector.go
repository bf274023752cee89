// Package view tracks which of the mutually exclusive panels is visible.
package view

import (
	"fmt"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/simplelog/pkg/core"
)

// Panel is one of the fixed, mutually exclusive views.
type Panel int

const (
	PanelHome Panel = iota
	PanelList
	PanelForm
	PanelDetail
)

// Panels lists every panel in display order.
var Panels = []Panel{PanelHome, PanelList, PanelForm, PanelDetail}

func (p Panel) String() string {
	switch p {
	case PanelHome:
		return "home"
	case PanelList:
		return "list"
	case PanelForm:
		return "form"
	case PanelDetail:
		return "detail"
	default:
		return fmt.Sprintf("panel(%d)", int(p))
	}
}

// FormMode tells whether the form creates or edits a note.
type FormMode int

const (
	ModeCreate FormMode = iota
	ModeEdit
)

func (m FormMode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Form is the state of the add/edit form. NoteID is the hidden field that
// distinguishes edit mode.
type Form struct {
	Mode    FormMode
	NoteID  string
	Title   string
	Content string
}

// Heading returns the form caption for the current mode.
func (f Form) Heading() string {
	if f.Mode == ModeEdit {
		return "Edit Note"
	}
	return "Add New Note"
}

// Selector enforces that exactly one panel is visible.
type Selector struct {
	mu       sync.RWMutex
	current  Panel
	form     Form
	detailID string
	onChange []func(Panel)
}

// NewSelector starts on the home panel.
func NewSelector() *Selector {
	return &Selector{current: PanelHome}
}

// Show hides every other panel and reveals p.
func (s *Selector) Show(p Panel) error {
	if p < PanelHome || p > PanelDetail {
		return fmt.Errorf("unknown panel %d", int(p))
	}
	s.switchTo(p, Form{}, "")
	return nil
}

// ShowForm opens the form. A nil note gives a blank create form; otherwise
// the form is pre-filled in edit mode and keeps the note id.
func (s *Selector) ShowForm(note *core.Note) {
	f := Form{Mode: ModeCreate}
	if note != nil {
		f = Form{Mode: ModeEdit, NoteID: note.ID, Title: note.Title, Content: note.Content}
	}
	s.switchTo(PanelForm, f, "")
}

// ShowDetail reveals the detail panel bound to note.
func (s *Selector) ShowDetail(note core.Note) {
	s.switchTo(PanelDetail, Form{}, note.ID)
}

// Back is the explicit "back to list" action. There is no history.
func (s *Selector) Back() {
	s.switchTo(PanelList, Form{}, "")
}

// switchTo makes p visible; state owned by hidden panels is cleared.
func (s *Selector) switchTo(p Panel, form Form, detailID string) {
	s.mu.Lock()
	s.current = p
	s.form = form
	s.detailID = detailID
	fns := append([]func(Panel){}, s.onChange...)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(p)
	}
}

// Current returns the visible panel.
func (s *Selector) Current() Panel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Visible reports whether p is the visible panel.
func (s *Selector) Visible(p Panel) bool {
	return s.Current() == p
}

// Form returns the form state. Meaningful only while the form is visible.
func (s *Selector) Form() Form {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.form
}

// DetailID returns the note shown by the detail panel, or "".
func (s *Selector) DetailID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detailID
}

// OnChange registers fn to run after every panel switch.
func (s *Selector) OnChange(fn func(Panel)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// SelectorState exposes internal state for observability.
type SelectorState struct {
	Panel    string `json:"panel"`
	FormMode string `json:"form_mode,omitempty"`
	NoteID   string `json:"note_id,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Selector) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := SelectorState{Panel: s.current.String()}
	switch s.current {
	case PanelForm:
		st.FormMode = s.form.Mode.String()
		st.NoteID = s.form.NoteID
	case PanelDetail:
		st.NoteID = s.detailID
	}
	return st
}

// ComponentType implements introspection.Component.
func (s *Selector) ComponentType() string {
	return "view-selector"
}

var _ introspection.Introspectable = (*Selector)(nil)
var _ introspection.Component = (*Selector)(nil)
