package ui

import tea "github.com/charmbracelet/bubbletea"

// View is a region of the screen with its own update and render cycle.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
}
