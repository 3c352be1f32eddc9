package tui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/dohr-michael/daily/internal/events"
)

// Project converts a bus event into a typed tea.Msg.
// Returns nil for events that don't map to a TUI message.
func Project(e events.Event) tea.Msg {
	switch e.Type {
	case events.EventReminderFired:
		p, ok := events.ExtractPayload[events.ReminderFiredPayload](e)
		if !ok {
			return nil
		}
		return ReminderFiredMsg{ID: p.ReminderID, Title: p.Title, Body: p.Body}
	case events.EventReminderScheduled:
		p, ok := events.ExtractPayload[events.ReminderScheduledPayload](e)
		if !ok {
			return nil
		}
		return ReminderScheduledMsg{ID: p.ReminderID, FireAt: p.FireAt}
	case events.EventTaskAdded, events.EventTaskToggled, events.EventTaskDeleted:
		return TasksChangedMsg{}
	default:
		return nil
	}
}

// listen waits for the next projectable event on ch.
func listen(ch <-chan events.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		for e := range ch {
			if msg := Project(e); msg != nil {
				return msg
			}
		}
		return eventsClosedMsg{}
	}
}
