package ui

import (
	"researchctl/internal/status"
	"researchctl/internal/ui/textutil"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

const defaultBarWidth = 60

// StatusBar renders the controller's progress indicator and status line.
type StatusBar struct {
	bar   progress.Model
	width int
}

// NewStatusBar creates a status bar of the default width.
func NewStatusBar() *StatusBar {
	bar := progress.New(
		progress.WithSolidFill(status.ColorNeutral.Hex()),
		progress.WithWidth(defaultBarWidth),
	)
	return &StatusBar{bar: bar, width: defaultBarWidth}
}

// SetWidth resizes the bar and the status line.
func (s *StatusBar) SetWidth(w int) {
	if w < 20 {
		w = 20
	}
	s.width = w
	s.bar.Width = w
}

// Render draws st. The status line is blank while the message is hidden so
// the layout does not jump.
func (s *StatusBar) Render(st status.State) string {
	s.bar.FullColor = st.Progress.Color.Hex()
	line := ""
	if st.Message.Visible && st.Message.Text != "" {
		line = MessageStyle(st.Message.Color).Render(textutil.Truncate(st.Message.Text, s.width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, s.bar.ViewAs(st.Progress.Percent/100), line)
}
