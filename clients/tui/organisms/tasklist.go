// Package organisms provides the composite panels of the daily TUI.
package organisms

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/dohr-michael/daily/internal/tasks"
)

// TaskListStyles holds the styles used to render rows.
type TaskListStyles struct {
	Cursor lipgloss.Style
	Done   lipgloss.Style
	Due    lipgloss.Style
	Muted  lipgloss.Style
	Delete lipgloss.Style
}

// TaskList renders the task snapshot with a cursor.
type TaskList struct {
	items   []tasks.Task
	cursor  int
	focused bool
	mode    Mode
	width   int
	height  int
	styles  TaskListStyles
}

// NewTaskList creates an empty list.
func NewTaskList(styles TaskListStyles) TaskList {
	return TaskList{styles: styles}
}

// SetItems replaces the snapshot and keeps the cursor in range.
func (l *TaskList) SetItems(items []tasks.Task) {
	l.items = items
	l.clamp()
}

// Items returns the current snapshot.
func (l *TaskList) Items() []tasks.Task { return l.items }

// SetSize updates the rendering area.
func (l *TaskList) SetSize(w, h int) { l.width, l.height = w, h }

// SetFocused toggles the cursor highlight.
func (l *TaskList) SetFocused(f bool) { l.focused = f }

// SetMode switches between normal and edit mode.
func (l *TaskList) SetMode(m Mode) { l.mode = m }

// Mode returns the current mode.
func (l *TaskList) Mode() Mode { return l.mode }

// Cursor returns the cursor index.
func (l *TaskList) Cursor() int { return l.cursor }

// Move shifts the cursor by delta, clamped to the list.
func (l *TaskList) Move(delta int) {
	l.cursor += delta
	l.clamp()
}

// Selected returns the task under the cursor.
func (l *TaskList) Selected() (tasks.Task, bool) {
	if len(l.items) == 0 {
		return tasks.Task{}, false
	}
	return l.items[l.cursor], true
}

func (l *TaskList) clamp() {
	if l.cursor >= len(l.items) {
		l.cursor = len(l.items) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// View renders the visible rows.
func (l TaskList) View() string {
	if len(l.items) == 0 {
		return l.styles.Muted.Render("No tasks yet. Type a name above and press enter.")
	}

	start, end := l.window()
	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(l.row(i))
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// window keeps the cursor visible when the list is taller than the area.
func (l TaskList) window() (int, int) {
	n := len(l.items)
	if l.height <= 0 || n <= l.height {
		return 0, n
	}
	start := l.cursor - l.height + 1
	if start < 0 {
		start = 0
	}
	return start, start + l.height
}

func (l TaskList) row(i int) string {
	t := l.items[i]

	pointer := "  "
	if l.focused && i == l.cursor {
		pointer = l.styles.Cursor.Render("▸ ")
	}

	box := "[ ]"
	name := t.Name
	if t.Completed {
		box = l.styles.Done.Render("[x]")
		name = l.styles.Done.Strikethrough(true).Render(t.Name)
	}
	if l.mode == ModeEdit {
		box = l.styles.Delete.Render("[-]")
	}

	line := fmt.Sprintf("%s%s %s", pointer, box, name)
	if t.DueTime != nil {
		line += " " + l.styles.Due.Render("@ "+dueLabel(*t.DueTime))
	}
	return line
}

func dueLabel(d time.Time) string {
	now := time.Now()
	if d.Year() == now.Year() && d.YearDay() == now.YearDay() {
		return d.Format("15:04")
	}
	return tasks.FormatDue(d)
}
