// Package tui is the terminal surface of the application: it renders the
// panel chosen by the view selector and turns key presses into session
// actions.
package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aretw0/simplelog/pkg/app"
	"github.com/aretw0/simplelog/pkg/core"
	"github.com/aretw0/simplelog/pkg/notes"
	"github.com/aretw0/simplelog/pkg/view"
)

// StoreChangedMsg tells the model the collection changed underneath it,
// e.g. after a watcher reload.
type StoreChangedMsg struct {
	Event core.Event
}

const (
	focusTitle = iota
	focusContent
)

// Model is the bubbletea model.
type Model struct {
	ctx      context.Context
	session  *app.Session
	prompter *modalPrompter
	logger   *slog.Logger

	cursor  int
	title   textinput.Model
	content textarea.Model
	focus   int

	// pendingDelete is the note id awaiting a y/n answer.
	pendingDelete string
	err           error
	width         int
}

// New creates a model over store. ctx bounds every store write.
func New(ctx context.Context, store *notes.Store, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	prompter := &modalPrompter{}

	ti := textinput.New()
	ti.Placeholder = "Title (optional)"
	ti.CharLimit = 120

	ta := textarea.New()
	ta.Placeholder = "Write your note..."
	ta.ShowLineNumbers = false
	ta.SetHeight(8)

	return Model{
		ctx:      ctx,
		session:  app.NewSession(store, prompter, logger),
		prompter: prompter,
		logger:   logger,
		title:    ti,
		content:  ta,
	}
}

// Session exposes the underlying session.
func (m Model) Session() *app.Session { return m.session }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.content.SetWidth(max(20, msg.Width-4))
		m.title.Width = max(20, msg.Width-4)
		return m, nil

	case StoreChangedMsg:
		m.clampCursor()
		if m.session.View.Current() == view.PanelDetail {
			if _, ok := m.session.DetailNote(); !ok {
				m.session.NavigateBack()
			}
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.prompter.alert != "" {
			m.prompter.dismiss()
			return m, nil
		}
		if m.pendingDelete != "" {
			return m.updateConfirm(msg)
		}

		switch m.session.View.Current() {
		case view.PanelHome:
			return m.updateHome(msg)
		case view.PanelList:
			return m.updateList(msg)
		case view.PanelForm:
			return m.updateForm(msg)
		case view.PanelDetail:
			return m.updateDetail(msg)
		}
	}
	return m, nil
}

func (m Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "l", "enter":
		m.session.ShowList()
	case "a":
		return m.openForm(nil)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list := m.session.Store.List()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(list)-1 {
			m.cursor++
		}
	case "h", "esc":
		m.session.ShowHome()
	case "a":
		return m.openForm(nil)
	case "enter":
		if n, ok := m.selected(list); ok {
			m.session.ShowDetail(n.ID)
		}
	case "e":
		if n, ok := m.selected(list); ok {
			return m.openForm(&n)
		}
	case "d":
		if n, ok := m.selected(list); ok {
			m.pendingDelete = n.ID
		}
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	note, ok := m.session.DetailNote()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "b":
		m.session.NavigateBack()
	case "e":
		if ok {
			return m.openForm(&note)
		}
	case "d":
		if ok {
			m.pendingDelete = note.ID
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.session.CancelForm()
		m.blurInputs()
		return m, nil
	case "tab", "shift+tab":
		m.toggleFocus()
		return m, nil
	case "ctrl+s":
		form := m.session.View.Form()
		err := m.session.SubmitForm(m.ctx, app.FormInput{
			ID:      form.NoteID,
			Title:   m.title.Value(),
			Content: m.content.Value(),
		})
		if err != nil {
			m.logger.Error("save failed", "error", err)
			m.err = err
			return m, nil
		}
		m.err = nil
		if m.session.View.Current() == view.PanelList {
			m.blurInputs()
			m.cursor = 0
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == focusTitle {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.content, cmd = m.content.Update(msg)
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var answer bool
	switch msg.String() {
	case "y", "Y":
		answer = true
	case "n", "N", "esc":
		answer = false
	default:
		return m, nil
	}

	id := m.pendingDelete
	m.pendingDelete = ""
	m.prompter.answer = answer
	if _, err := m.session.ConfirmDelete(m.ctx, id); err != nil {
		m.logger.Error("delete failed", "id", id, "error", err)
		m.err = err
	}
	m.clampCursor()
	return m, nil
}

func (m Model) openForm(note *core.Note) (tea.Model, tea.Cmd) {
	if note != nil {
		if !m.session.ShowEditForm(note.ID) {
			return m, nil
		}
	} else {
		m.session.ShowAddForm()
	}

	form := m.session.View.Form()
	m.title.SetValue(form.Title)
	m.content.SetValue(form.Content)
	m.focus = focusContent
	m.title.Blur()
	return m, m.content.Focus()
}

func (m *Model) toggleFocus() {
	if m.focus == focusTitle {
		m.focus = focusContent
		m.title.Blur()
		m.content.Focus()
		return
	}
	m.focus = focusTitle
	m.content.Blur()
	m.title.Focus()
}

func (m *Model) blurInputs() {
	m.title.Blur()
	m.content.Blur()
}

func (m Model) selected(list []core.Note) (core.Note, bool) {
	if m.cursor < 0 || m.cursor >= len(list) {
		return core.Note{}, false
	}
	return list[m.cursor], true
}

func (m *Model) clampCursor() {
	n := m.session.Store.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
