package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/daily/internal/config"
)

// NewEnvCommand returns the env subcommand, which edits $DAILY_PATH/.env.
// Config values can reference these variables with ${{ .Env.NAME }}.
func NewEnvCommand() *cli.Command {
	return &cli.Command{
		Name:  "env",
		Usage: "Manage variables in the .env file",
		Commands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Set a variable (send SIGHUP to a running watcher to apply)",
				ArgsUsage: "<KEY> <VALUE>",
				Action: func(_ context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 2 {
						return fmt.Errorf("usage: daily env set <KEY> <VALUE>")
					}
					key, value := cmd.Args().Get(0), cmd.Args().Get(1)
					if err := config.SetDotenv(config.DotenvPath(), key, value); err != nil {
						return err
					}
					fmt.Printf("%s saved to %s\n", key, config.DotenvPath())
					return nil
				},
			},
		},
	}
}
