package ui

import (
	"fmt"
	"sort"
	"strings"

	"researchctl/internal/progress"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/viewport"
)

// ActivityWindow lists request activity with scrollback.
type ActivityWindow struct {
	events   []progress.Event
	viewport viewport.Model
}

// Ensure ActivityWindow implements View.
var _ View = (*ActivityWindow)(nil)

const (
	defaultActivityWidth  = 70
	defaultActivityHeight = 8
	maxActivityEvents     = 200
)

// NewActivityWindow creates an empty activity window.
func NewActivityWindow() *ActivityWindow {
	vp := viewport.New(defaultActivityWidth, defaultActivityHeight)
	vp.Style = Styles.Box
	a := &ActivityWindow{viewport: vp}
	a.refreshContent()
	return a
}

// Init implements View.
func (a *ActivityWindow) Init() tea.Cmd {
	return a.viewport.Init()
}

// Update implements View.
func (a *ActivityWindow) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case progress.Event:
		a.events = append(a.events, msg)
		if len(a.events) > maxActivityEvents {
			a.events = a.events[len(a.events)-maxActivityEvents:]
		}
		a.refreshContent()
		return a, nil
	case tea.WindowSizeMsg:
		w := msg.Width - 4
		h := msg.Height / 3
		if w < 40 {
			w = 40
		}
		if h < 6 {
			h = 6
		}
		a.viewport.Width = w
		a.viewport.Height = h
		a.refreshContent()
		return a, nil
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

// View implements View.
func (a *ActivityWindow) View() string {
	return Styles.Title.Render("Activity") + "\n" + a.viewport.View()
}

// Events returns the events received so far.
func (a *ActivityWindow) Events() []progress.Event {
	return a.events
}

// refreshContent rebuilds the viewport content from accumulated events.
func (a *ActivityWindow) refreshContent() {
	if len(a.events) == 0 {
		a.viewport.SetContent(Styles.Empty.Render("No requests yet"))
		return
	}
	var lines []string
	for _, ev := range a.events {
		ts := Styles.Muted.Render(ev.Timestamp.Format("15:04:05"))
		lines = append(lines, fmt.Sprintf("[%s] %s %s", ts, statusIcon(ev.Status), ev.Message))
		keys := make([]string, 0, len(ev.Metadata))
		for k := range ev.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, Styles.Muted.Render(fmt.Sprintf("      %s: %s", k, ev.Metadata[k])))
		}
	}
	a.viewport.SetContent(strings.Join(lines, "\n"))
	a.viewport.GotoBottom()
}

func statusIcon(s progress.Status) string {
	switch s {
	case progress.StatusRunning:
		return "●"
	case progress.StatusDone:
		return Styles.Success.Render("✓")
	case progress.StatusError:
		return Styles.Danger.Render("✗")
	case progress.StatusWarning:
		return "!"
	default:
		return "•"
	}
}
