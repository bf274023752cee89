package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/simplelog/pkg/app"
	"github.com/aretw0/simplelog/pkg/core"
	"github.com/aretw0/simplelog/pkg/view"
)

const timeLayout = "2006-01-02 15:04"

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	switch m.session.View.Current() {
	case view.PanelHome:
		m.renderHome(&b)
	case view.PanelList:
		m.renderList(&b)
	case view.PanelForm:
		m.renderForm(&b)
	case view.PanelDetail:
		m.renderDetail(&b)
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("error: "+m.err.Error()) + "\n")
	}
	if m.prompter.alert != "" {
		b.WriteString("\n" + modalStyle.Render(m.prompter.alert+"\n\n(press any key)") + "\n")
	}
	if m.pendingDelete != "" {
		b.WriteString("\n" + modalStyle.Render(app.MsgConfirmDelete+"\n\n[y] yes  [n] no") + "\n")
	}
	return b.String()
}

func (m Model) renderHome(b *strings.Builder) {
	b.WriteString(headerStyle.Render("My Simple Log") + "\n")
	fmt.Fprintf(b, "%d notes\n", m.session.Store.Len())
	b.WriteString(helpStyle.Render("l: view notes • a: add note • q: quit"))
}

func (m Model) renderList(b *strings.Builder) {
	b.WriteString(headerStyle.Render("Notes") + "\n")

	list := m.session.Store.List()
	if len(list) == 0 {
		b.WriteString(metaStyle.Render("No notes yet. Press a to add one.") + "\n")
	}
	for i, n := range list {
		line := n.DisplayTitle() + " " + metaStyle.Render(n.Created.Local().Format(timeLayout))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render(line) + "\n")
		} else {
			b.WriteString(itemStyle.Render(line) + "\n")
		}
	}
	b.WriteString(helpStyle.Render("↑/↓: move • enter: open • a: add • e: edit • d: delete • esc: home"))
}

func (m Model) renderForm(b *strings.Builder) {
	b.WriteString(headerStyle.Render(m.session.View.Form().Heading()) + "\n")
	b.WriteString(m.title.View() + "\n\n")
	b.WriteString(m.content.View() + "\n")
	b.WriteString(helpStyle.Render("tab: switch field • ctrl+s: save • esc: cancel"))
}

func (m Model) renderDetail(b *strings.Builder) {
	note, ok := m.session.DetailNote()
	if !ok {
		b.WriteString(metaStyle.Render("This note no longer exists.") + "\n")
		b.WriteString(helpStyle.Render("esc: back"))
		return
	}
	b.WriteString(headerStyle.Render(note.DisplayTitle()) + "\n")
	b.WriteString(metaStyle.Render(dates(note)) + "\n\n")
	b.WriteString(note.Content + "\n")
	b.WriteString(helpStyle.Render("e: edit • d: delete • esc: back to list"))
}

func dates(n core.Note) string {
	s := "Created " + n.Created.Local().Format(timeLayout)
	if !n.Updated.Equal(n.Created) {
		s += " • Updated " + n.Updated.Local().Format(timeLayout)
	}
	return s
}
