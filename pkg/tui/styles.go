package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("63")
	subtle  = lipgloss.Color("242")
	danger  = lipgloss.Color("203")

	headerStyle = lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			MarginBottom(1)

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			PaddingLeft(1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(primary)

	metaStyle = lipgloss.NewStyle().
			Foreground(subtle)

	helpStyle = lipgloss.NewStyle().
			Foreground(subtle).
			MarginTop(1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(danger).
			Padding(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(danger)
)
