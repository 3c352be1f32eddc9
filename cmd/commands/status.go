package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/daily/internal/config"
	"github.com/dohr-michael/daily/internal/heartbeat"
)

// NewStatusCommand returns the status subcommand.
func NewStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show reminder watcher status",
		Action: func(_ context.Context, _ *cli.Command) error {
			status, hb, err := heartbeat.Check(config.HeartbeatPath(), 2*heartbeat.DefaultInterval)
			if err != nil {
				return fmt.Errorf("check heartbeat: %w", err)
			}

			switch status {
			case heartbeat.StatusAlive:
				fmt.Printf("Watcher: ALIVE (PID %d, uptime %s, %s)\n", hb.PID, hb.Uptime, pendingLabel(hb.Pending))
			case heartbeat.StatusStale:
				fmt.Printf("Watcher: STALE (PID %d, last heartbeat %s ago)\n",
					hb.PID, time.Since(hb.Timestamp).Truncate(time.Second))
			case heartbeat.StatusDead:
				fmt.Println("Watcher: NOT RUNNING (reminders fire only while `daily watch` or `daily tui` runs)")
			}
			return nil
		},
	}
}

func pendingLabel(n int) string {
	switch {
	case n < 0:
		return "pending reminders unknown"
	case n == 1:
		return "1 pending reminder"
	default:
		return fmt.Sprintf("%d pending reminders", n)
	}
}
