package ui

import (
	"strings"
	"testing"
	"time"

	"researchctl/internal/progress"

	tea "github.com/charmbracelet/bubbletea"
)

func TestActivityWindow_EmptyState(t *testing.T) {
	w := NewActivityWindow()
	if !strings.Contains(w.View(), "No requests yet") {
		t.Errorf("empty window should show placeholder, got %q", w.View())
	}
}

func TestActivityWindow_AppendsEventsWithSortedMetadata(t *testing.T) {
	w := NewActivityWindow()
	w.Update(tea.WindowSizeMsg{Width: 120, Height: 60})
	w.Update(progress.Event{
		Message:   "/api/step1 answered 200",
		Status:    progress.StatusDone,
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Metadata:  map[string]string{"content-type": "text/html", "bytes": "512"},
	})

	view := w.View()
	if !strings.Contains(view, "/api/step1 answered 200") {
		t.Errorf("view missing event message: %q", view)
	}
	if !strings.Contains(view, "03:04:05") {
		t.Errorf("view missing timestamp: %q", view)
	}
	bytesAt := strings.Index(view, "bytes: 512")
	typeAt := strings.Index(view, "content-type: text/html")
	if bytesAt < 0 || typeAt < 0 || bytesAt > typeAt {
		t.Errorf("metadata should be listed in key order: %q", view)
	}
}

func TestActivityWindow_CapsHistory(t *testing.T) {
	w := NewActivityWindow()
	for i := 0; i < maxActivityEvents+10; i++ {
		w.Update(progress.Event{Message: "x", Status: progress.StatusRunning})
	}
	if got := len(w.Events()); got != maxActivityEvents {
		t.Errorf("Events() len = %d, want %d", got, maxActivityEvents)
	}
}
