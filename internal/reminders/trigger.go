package reminders

import (
	"fmt"
	"time"

	cron "github.com/netresearch/go-cron"
)

// Trigger matches calendar components the way a calendar-based notification
// trigger does. Hour and Minute are always matched; Day, Month and Year are
// matched only when non-zero.
type Trigger struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Day    int `json:"day,omitempty"`
	Month  int `json:"month,omitempty"`
	Year   int `json:"year,omitempty"`
}

// TimeOfDay keeps only the hour and minute of t. The reminder fires at the
// next occurrence of that wall-clock time.
func TimeOfDay(t time.Time) Trigger {
	return Trigger{Hour: t.Hour(), Minute: t.Minute()}
}

// Exact keeps the full calendar date of t, to the minute.
func Exact(t time.Time) Trigger {
	return Trigger{
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Day:    t.Day(),
		Month:  int(t.Month()),
		Year:   t.Year(),
	}
}

// Validate checks component ranges.
func (t Trigger) Validate() error {
	switch {
	case t.Hour < 0 || t.Hour > 23:
		return fmt.Errorf("hour out of range: %d", t.Hour)
	case t.Minute < 0 || t.Minute > 59:
		return fmt.Errorf("minute out of range: %d", t.Minute)
	case t.Day < 0 || t.Day > 31:
		return fmt.Errorf("day out of range: %d", t.Day)
	case t.Month < 0 || t.Month > 12:
		return fmt.Errorf("month out of range: %d", t.Month)
	case t.Year < 0:
		return fmt.Errorf("year out of range: %d", t.Year)
	}
	return nil
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// CronSpec renders the trigger as a 5-field cron expression. Year is not
// expressible and is checked separately by Next.
func (t Trigger) CronSpec() string {
	field := func(v int) string {
		if v == 0 {
			return "*"
		}
		return fmt.Sprint(v)
	}
	return fmt.Sprintf("%d %d %s %s *", t.Minute, t.Hour, field(t.Day), field(t.Month))
}

// Next returns the first matching minute strictly after after, in after's
// location. ok is false when no such time exists.
func (t Trigger) Next(after time.Time) (next time.Time, ok bool) {
	if err := t.Validate(); err != nil {
		return time.Time{}, false
	}
	schedule, err := cronParser.Parse(t.CronSpec())
	if err != nil {
		return time.Time{}, false
	}

	next = schedule.Next(after)
	if t.Year != 0 {
		for !next.IsZero() && next.Year() < t.Year {
			next = schedule.Next(next)
		}
		if next.Year() != t.Year {
			return time.Time{}, false
		}
	}
	if next.IsZero() {
		return time.Time{}, false
	}
	return next, true
}

// String renders the trigger for display.
func (t Trigger) String() string {
	if t.Year != 0 && t.Month != 0 && t.Day != 0 {
		return fmt.Sprintf("%04d-%02d-%02d %02d:%02d", t.Year, t.Month, t.Day, t.Hour, t.Minute)
	}
	return fmt.Sprintf("next %02d:%02d", t.Hour, t.Minute)
}
