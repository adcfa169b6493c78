package export

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// FilenameField is the custom filename input of the export form. Its
// placeholder shows the suggestion, and activating it while empty fills the
// suggestion in.
type FilenameField struct {
	input      textinput.Model
	suggestion string
}

// NewFilenameField creates a field seeded with the default suggestion.
func NewFilenameField() *FilenameField {
	ti := textinput.New()
	ti.Prompt = "Filename: "
	ti.CharLimit = 255
	f := &FilenameField{input: ti}
	f.SetHeading("")
	return f
}

// SetHeading recomputes the suggestion from a page heading.
func (f *FilenameField) SetHeading(heading string) {
	f.suggestion = Suggest(heading)
	f.input.Placeholder = "e.g., " + f.suggestion
}

// Suggestion returns the current suggested filename.
func (f *FilenameField) Suggestion() string {
	return f.suggestion
}

// Placeholder returns the text shown while the field is empty.
func (f *FilenameField) Placeholder() string {
	return f.input.Placeholder
}

// Activate focuses the field, filling in the suggestion if it is empty.
func (f *FilenameField) Activate() tea.Cmd {
	if f.input.Value() == "" {
		f.input.SetValue(f.suggestion)
		f.input.CursorEnd()
	}
	return f.input.Focus()
}

// Focused reports whether the field has focus.
func (f *FilenameField) Focused() bool {
	return f.input.Focused()
}

// Value returns the typed filename.
func (f *FilenameField) Value() string {
	return f.input.Value()
}

// SetValue replaces the typed filename.
func (f *FilenameField) SetValue(v string) {
	f.input.SetValue(v)
}

// Update forwards input messages to the text input.
func (f *FilenameField) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

// View renders the field.
func (f *FilenameField) View() string {
	return f.input.View()
}
