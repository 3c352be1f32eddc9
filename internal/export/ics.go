package export

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dohr-michael/daily/internal/reminders"
	"github.com/dohr-michael/daily/internal/tasks"
)

const icsStampLayout = "20060102T150405Z"

// BuildCalendar renders tasks as VTODO components. Tasks with a due time
// carry a DUE property and a display alarm at that time.
func BuildCalendar(list []tasks.Task, now time.Time) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//daily//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	stamp := now.UTC().Format(icsStampLayout)
	for _, t := range list {
		lines = append(lines,
			"BEGIN:VTODO",
			"UID:"+escapeICSText(t.ID+"@daily"),
			"DTSTAMP:"+stamp,
			"SUMMARY:"+escapeICSText(t.Name),
		)
		if t.Completed {
			lines = append(lines, "STATUS:COMPLETED", "PERCENT-COMPLETE:100")
		} else {
			lines = append(lines, "STATUS:NEEDS-ACTION")
		}
		if t.DueTime != nil {
			content := reminders.NewTaskContent(t.Name, false)
			lines = append(lines,
				"DUE:"+t.DueTime.UTC().Format(icsStampLayout),
				"BEGIN:VALARM",
				"ACTION:DISPLAY",
				"DESCRIPTION:"+escapeICSText(content.Body),
				"TRIGGER;VALUE=DATE-TIME:"+t.DueTime.UTC().Format(icsStampLayout),
				"END:VALARM",
			)
		}
		lines = append(lines, "END:VTODO")
	}
	lines = append(lines, "END:VCALENDAR")

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(foldICSLine(line))
		b.WriteString("\r\n")
	}
	return b.String()
}

// icsLineLimit is the maximum content line length in octets, excluding CRLF.
const icsLineLimit = 75

// foldICSLine splits a content line into CRLF + space continuations of at
// most icsLineLimit octets, never inside a UTF-8 sequence.
func foldICSLine(line string) string {
	if len(line) <= icsLineLimit {
		return line
	}
	var b strings.Builder
	limit := icsLineLimit
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		// The leading space counts towards the limit.
		limit = icsLineLimit - 1
	}
	b.WriteString(line)
	return b.String()
}

func escapeICSText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
