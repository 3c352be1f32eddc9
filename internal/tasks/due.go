package tasks

import (
	"strings"
	"time"
)

var dueLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	time.RFC3339,
}

// ParseDue reads a due time typed by the user. "HH:MM" means that time on
// now's date; full dates are accepted as "YYYY-MM-DD HH:MM" or RFC 3339.
// An empty string yields nil.
func ParseDue(s string, now time.Time) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if clock, err := time.Parse("15:04", s); err == nil {
		d := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())
		return &d, nil
	}
	for _, layout := range dueLayouts {
		if d, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return &d, nil
		}
	}
	return nil, &ValidationError{Field: "due time", Reason: `use "HH:MM" or "YYYY-MM-DD HH:MM"`}
}

// FormatDue renders a due time the way ParseDue reads it.
func FormatDue(d time.Time) string {
	return d.Format("2006-01-02 15:04")
}
