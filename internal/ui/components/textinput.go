package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// TextInput wraps bubbles/textinput with focus tracking. The wrapped model
// is not exported so every value change goes through Update or SetValue.
type TextInput struct {
	model textinput.Model
}

// NewTextInput creates a focused input. charLimit <= 0 means unlimited.
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = charLimit
	if charLimit <= 0 {
		ti.CharLimit = 0
	}
	ti.Focus()
	return TextInput{model: ti}
}

// Update forwards msg to the input. Blurred inputs ignore key presses.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.model, cmd = t.model.Update(msg)
	return t, cmd
}

// View renders the input at the given width.
func (t TextInput) View(width int) string {
	if width > 4 {
		t.model.SetWidth(width - 4)
	}
	return t.model.View()
}

func (t TextInput) Value() string { return t.model.Value() }

// SetValue replaces the text and moves the cursor to the end.
func (t *TextInput) SetValue(s string) {
	t.model.SetValue(s)
	t.model.CursorEnd()
}

func (t *TextInput) Focus() tea.Cmd { return t.model.Focus() }

func (t *TextInput) Blur() { t.model.Blur() }

func (t TextInput) Focused() bool { return t.model.Focused() }
