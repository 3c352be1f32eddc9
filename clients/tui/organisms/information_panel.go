package organisms

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// InformationPanel is the status bar: progress, mode, notification state
// and the last error or hint.
type InformationPanel struct {
	done, total  int
	mode         Mode
	notification string
	message      string
	width        int
	style        lipgloss.Style
}

// NewInformationPanel creates a new status bar panel.
func NewInformationPanel(style lipgloss.Style) InformationPanel {
	return InformationPanel{style: style}
}

// SetProgress updates the completed/total counts.
func (p *InformationPanel) SetProgress(done, total int) { p.done, p.total = done, total }

// SetMode updates the displayed list mode.
func (p *InformationPanel) SetMode(mode Mode) { p.mode = mode }

// SetNotification updates the notification authorization label.
func (p *InformationPanel) SetNotification(s string) { p.notification = s }

// SetMessage shows a transient message (errors, confirmations).
func (p *InformationPanel) SetMessage(s string) { p.message = s }

// Message returns the transient message.
func (p *InformationPanel) Message() string { return p.message }

// SetWidth updates the rendering width.
func (p *InformationPanel) SetWidth(w int) { p.width = w }

// ProgressBar renders done/total as a bar of the given width.
func ProgressBar(done, total, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// View renders the status bar.
func (p InformationPanel) View() string {
	parts := []string{
		fmt.Sprintf("%s %d/%d", ProgressBar(p.done, p.total, 10), p.done, p.total),
		p.mode.String(),
	}
	if p.notification != "" {
		parts = append(parts, "notifications: "+p.notification)
	}
	if p.message != "" {
		parts = append(parts, p.message)
	}
	content := strings.Join(parts, " | ")
	if p.width > 0 {
		return p.style.Width(p.width).Render(content)
	}
	return p.style.Render(content)
}
