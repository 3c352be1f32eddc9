package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/dohr-michael/daily/internal/tasks"
)

func writeCSV(w io.Writer, list []tasks.Task) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "name", "due_time", "completed"})
	for _, t := range list {
		due := ""
		if t.DueTime != nil {
			due = t.DueTime.Format(time.RFC3339)
		}
		_ = cw.Write([]string{t.ID, t.Name, due, strconv.FormatBool(t.Completed)})
	}
	cw.Flush()
	return cw.Error()
}

// writePDF renders a printable checklist.
func writePDF(w io.Writer, list []tasks.Task, now time.Time) error {
	done := 0
	for _, t := range list {
		if t.Completed {
			done++
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("daily", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Tasks for "+now.Format("Monday, January 2 2006"))
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("%d of %d completed", done, len(list)))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 12)
	for _, t := range list {
		box := "[  ]"
		if t.Completed {
			box = "[x]"
		}
		line := box + "  " + t.Name
		if t.DueTime != nil {
			line += "   @ " + tasks.FormatDue(*t.DueTime)
		}
		pdf.MultiCell(0, 7, tr(line), "0", "L", false)
	}
	if len(list) == 0 {
		pdf.SetFont("Arial", "I", 12)
		pdf.Cell(0, 7, "No tasks yet.")
	}

	return pdf.Output(w)
}
