package reminders

import (
	"testing"
	"time"
)

func TestTriggerNextTimeOfDay(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name  string
		due   time.Time
		after time.Time
		want  time.Time
	}{
		{
			name:  "later today",
			due:   time.Date(2026, 10, 19, 9, 30, 0, 0, loc),
			after: time.Date(2026, 10, 19, 8, 0, 0, 0, loc),
			want:  time.Date(2026, 10, 19, 9, 30, 0, 0, loc),
		},
		{
			name:  "already passed today rolls to tomorrow",
			due:   time.Date(2026, 10, 19, 9, 30, 0, 0, loc),
			after: time.Date(2026, 10, 19, 10, 0, 0, 0, loc),
			want:  time.Date(2026, 10, 20, 9, 30, 0, 0, loc),
		},
		{
			name:  "date is discarded",
			due:   time.Date(2026, 12, 25, 9, 30, 0, 0, loc),
			after: time.Date(2026, 10, 19, 8, 0, 0, 0, loc),
			want:  time.Date(2026, 10, 19, 9, 30, 0, 0, loc),
		},
		{
			name:  "exact minute is not after",
			due:   time.Date(2026, 10, 19, 9, 30, 0, 0, loc),
			after: time.Date(2026, 10, 19, 9, 30, 0, 0, loc),
			want:  time.Date(2026, 10, 20, 9, 30, 0, 0, loc),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TimeOfDay(tt.due).Next(tt.after)
			if !ok {
				t.Fatal("expected a next occurrence")
			}
			if !got.Equal(tt.want) {
				t.Errorf("Next = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTriggerNextExact(t *testing.T) {
	loc := time.UTC
	due := time.Date(2026, 10, 25, 9, 30, 0, 0, loc)

	got, ok := Exact(due).Next(time.Date(2026, 10, 19, 12, 0, 0, 0, loc))
	if !ok || !got.Equal(due) {
		t.Fatalf("Next = %v, %v; want %v", got, ok, due)
	}

	if _, ok := Exact(due).Next(due.Add(time.Hour)); ok {
		t.Error("expected no occurrence for a past exact trigger")
	}

	nextYear := time.Date(2027, 3, 1, 7, 0, 0, 0, loc)
	got, ok = Exact(nextYear).Next(time.Date(2026, 10, 19, 12, 0, 0, 0, loc))
	if !ok || !got.Equal(nextYear) {
		t.Fatalf("Next = %v, %v; want %v", got, ok, nextYear)
	}
}

func TestTriggerCronSpec(t *testing.T) {
	tests := []struct {
		trigger Trigger
		want    string
	}{
		{Trigger{Hour: 9, Minute: 30}, "30 9 * * *"},
		{Trigger{Hour: 0, Minute: 0, Day: 25, Month: 12, Year: 2026}, "0 0 25 12 *"},
	}
	for _, tt := range tests {
		if got := tt.trigger.CronSpec(); got != tt.want {
			t.Errorf("CronSpec(%+v) = %q, want %q", tt.trigger, got, tt.want)
		}
	}
}

func TestTriggerValidate(t *testing.T) {
	bad := []Trigger{
		{Hour: 24},
		{Minute: 60},
		{Hour: -1},
		{Day: 32},
		{Month: 13},
	}
	for _, tr := range bad {
		if err := tr.Validate(); err == nil {
			t.Errorf("Validate(%+v) expected error", tr)
		}
		if _, ok := tr.Next(time.Now()); ok {
			t.Errorf("Next(%+v) expected no occurrence", tr)
		}
	}
}
