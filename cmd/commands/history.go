package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/daily/internal/config"
	"github.com/dohr-michael/daily/internal/events"
	"github.com/dohr-michael/daily/internal/storage"
)

// NewHistoryCommand returns the history subcommand.
func NewHistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent task and reminder events",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Number of events to show",
				Value:   20,
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			list, err := storage.ReadHistory(config.HistoryPath(), cmd.Int("limit"))
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}
			if len(list) == 0 {
				fmt.Println("No events recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tEVENT\tDETAIL")
			for _, e := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Timestamp.Local().Format(time.DateTime), e.Type, describeEvent(e))
			}
			return w.Flush()
		},
	}
}

func describeEvent(e events.Event) string {
	switch e.Type {
	case events.EventTaskAdded:
		if p, ok := events.ExtractPayload[events.TaskAddedPayload](e); ok {
			if p.DueTime != nil {
				return fmt.Sprintf("%s %q due %s", shortID(p.TaskID), p.Name, p.DueTime.Local().Format(time.DateTime))
			}
			return fmt.Sprintf("%s %q", shortID(p.TaskID), p.Name)
		}
	case events.EventTaskToggled:
		if p, ok := events.ExtractPayload[events.TaskToggledPayload](e); ok {
			return fmt.Sprintf("%s completed=%t", shortID(p.TaskID), p.Completed)
		}
	case events.EventTaskDeleted:
		if p, ok := events.ExtractPayload[events.TaskDeletedPayload](e); ok {
			return fmt.Sprintf("%s %q", shortID(p.TaskID), p.Name)
		}
	case events.EventReminderScheduled:
		if p, ok := events.ExtractPayload[events.ReminderScheduledPayload](e); ok {
			return fmt.Sprintf("%s at %s", shortID(p.ReminderID), p.FireAt.Local().Format(time.DateTime))
		}
	case events.EventReminderCancelled:
		if p, ok := events.ExtractPayload[events.ReminderCancelledPayload](e); ok {
			return shortID(p.ReminderID)
		}
	case events.EventReminderFired:
		if p, ok := events.ExtractPayload[events.ReminderFiredPayload](e); ok {
			return fmt.Sprintf("%s %s", shortID(p.ReminderID), p.Body)
		}
	}
	return ""
}
