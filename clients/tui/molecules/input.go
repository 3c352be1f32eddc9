// Package molecules provides mid-level TUI components.
package molecules

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// SubmitMsg is sent when the user presses Enter on the task form.
type SubmitMsg struct {
	Name string
	Due  string
}

// Field identifies a form input.
type Field int

const (
	FieldName Field = iota
	FieldDue
)

// TaskForm pairs a name input with an optional due time input.
// Enter submits, Tab moves between fields.
type TaskForm struct {
	name    textinput.Model
	due     textinput.Model
	field   Field
	focused bool
	label   lipgloss.Style
}

// NewTaskForm creates a form focused on the name field.
func NewTaskForm(label lipgloss.Style) TaskForm {
	name := textinput.New()
	name.Placeholder = "New task"
	name.Prompt = "> "
	name.CharLimit = 256

	due := textinput.New()
	due.Placeholder = "HH:MM (optional)"
	due.Prompt = "@ "
	due.CharLimit = 16

	f := TaskForm{name: name, due: due, label: label}
	f.SetWidth(40)
	return f
}

// SetWidth sets the input widths.
func (f *TaskForm) SetWidth(w int) {
	if w < 20 {
		w = 20
	}
	f.name.SetWidth(w - 24)
	f.due.SetWidth(18)
}

// Focus focuses the current field.
func (f *TaskForm) Focus() tea.Cmd {
	f.focused = true
	if f.field == FieldDue {
		f.name.Blur()
		return f.due.Focus()
	}
	f.due.Blur()
	return f.name.Focus()
}

// Blur removes focus from both fields.
func (f *TaskForm) Blur() {
	f.focused = false
	f.name.Blur()
	f.due.Blur()
}

// Focused reports whether the form owns the keyboard.
func (f *TaskForm) Focused() bool {
	return f.focused
}

// Field returns the field with focus.
func (f *TaskForm) Field() Field {
	return f.field
}

// Next moves focus to the following field. It reports false when focus
// leaves the form.
func (f *TaskForm) Next() (bool, tea.Cmd) {
	if f.field == FieldName {
		f.field = FieldDue
		return true, f.Focus()
	}
	f.field = FieldName
	f.Blur()
	return false, nil
}

// SetValues fills both fields.
func (f *TaskForm) SetValues(name, due string) {
	f.name.SetValue(name)
	f.due.SetValue(due)
}

// Values returns the raw field contents.
func (f *TaskForm) Values() (name, due string) {
	return f.name.Value(), f.due.Value()
}

// Reset clears both fields and returns focus to the name.
func (f *TaskForm) Reset() tea.Cmd {
	f.name.Reset()
	f.due.Reset()
	f.field = FieldName
	return f.Focus()
}

// Update handles key events while focused.
func (f TaskForm) Update(msg tea.Msg) (TaskForm, tea.Cmd) {
	if !f.focused {
		return f, nil
	}

	if key, ok := msg.(tea.KeyPressMsg); ok && key.String() == "enter" {
		name, due := f.Values()
		if strings.TrimSpace(name) == "" {
			return f, nil
		}
		return f, func() tea.Msg { return SubmitMsg{Name: name, Due: due} }
	}

	var cmd tea.Cmd
	if f.field == FieldDue {
		f.due, cmd = f.due.Update(msg)
	} else {
		f.name, cmd = f.name.Update(msg)
	}
	return f, cmd
}

// View renders both inputs on one line.
func (f TaskForm) View() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		f.name.View(),
		f.label.Render("  "),
		f.due.View(),
	)
}
