package ui

import (
	"researchctl/internal/status"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"  // Cyan/green - for titles, highlights
	ColorHighlight = "205" // Magenta - for borders
	ColorMuted     = "241" // Gray - for dimmed text, hints
	ColorText      = "252" // Light gray - for normal text
)

// Styles contains shared style definitions used across views.
var Styles = struct {
	Title   lipgloss.Style // Bold accent color - for pane titles
	Box     lipgloss.Style // Rounded border around the activity pane
	Muted   lipgloss.Style // Dimmed text (timestamps, metadata)
	Normal  lipgloss.Style
	Hint    lipgloss.Style // Key help
	Empty   lipgloss.Style // Empty state text (muted, italic)
	Success lipgloss.Style
	Danger  lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(0, 1),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Empty: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
	Success: lipgloss.NewStyle().
		Foreground(lipgloss.Color(status.ColorSuccess.Hex())),
	Danger: lipgloss.NewStyle().
		Foreground(lipgloss.Color(status.ColorError.Hex())),
}

// MessageStyle returns the status line style for c.
func MessageStyle(c status.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(c == status.ColorError).
		Foreground(lipgloss.Color(c.Hex()))
}
