package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"
)

// NewRemindersCommand returns the reminders subcommand.
func NewRemindersCommand() *cli.Command {
	return &cli.Command{
		Name:  "reminders",
		Usage: "List pending reminders",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			pending, err := a.center.Pending()
			if err != nil {
				return fmt.Errorf("list reminders: %w", err)
			}
			fmt.Printf("Notifications: %s\n", a.center.Status())
			if len(pending) == 0 {
				fmt.Println("No pending reminders.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tFIRES AT\tTRIGGER\tBODY")
			for _, reg := range pending {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					shortID(reg.ID),
					reg.FireAt.Local().Format(time.DateTime),
					reg.Trigger,
					reg.Content.Body,
				)
			}
			return w.Flush()
		},
	}
}
