// Package export renders the task list for other tools.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dohr-michael/daily/internal/tasks"
)

// Format is an export format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatICS  Format = "ics"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatICS, FormatCSV, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want json, yaml, ics, csv or pdf)", s)
	}
}

// Write renders list to w. now stamps ICS entries.
func Write(w io.Writer, list []tasks.Task, format Format, now time.Time) error {
	if list == nil {
		list = []tasks.Task{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(list); err != nil {
			return err
		}
		return enc.Close()
	case FormatICS:
		_, err := io.WriteString(w, BuildCalendar(list, now))
		return err
	case FormatCSV:
		return writeCSV(w, list)
	case FormatPDF:
		return writePDF(w, list, now)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}
