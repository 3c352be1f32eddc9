package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/dohr-michael/daily/internal/tasks"
)

// NewAddCommand returns the add subcommand.
func NewAddCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a task",
		ArgsUsage: "<name...>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "at",
				Usage: `Due time, "HH:MM" or "YYYY-MM-DD HH:MM"; schedules a reminder`,
			},
		},
		Action: runAdd,
	}
}

func runAdd(ctx context.Context, cmd *cli.Command) error {
	name := strings.Join(cmd.Args().Slice(), " ")
	due, err := tasks.ParseDue(cmd.String("at"), time.Now())
	if err != nil {
		return err
	}

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id, reminder, err := a.store.Add(ctx, name, due)
	if err != nil {
		return err
	}
	t, _ := a.store.Get(id)
	fmt.Printf("Added %s: %s\n", shortID(id), t.Name)

	if due == nil {
		return nil
	}
	if err := <-reminder; err != nil {
		fmt.Fprintf(os.Stderr, "Reminder not scheduled: %v\n", err)
		return nil
	}
	fmt.Printf("Reminder: %s\n", a.scheduler.TriggerFor(*due))
	return nil
}

// NewListCommand returns the list subcommand.
func NewListCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List tasks",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			list := a.store.List()
			done, total := a.store.Progress()
			if term.IsTerminal(int(os.Stdout.Fd())) {
				renderStyled(os.Stdout, list, done, total)
				return nil
			}
			return renderPlain(os.Stdout, list, done, total)
		},
	}
}

var (
	listIDStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	listDoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")).Strikethrough(true)
	listDueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
	listMuted     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")).Italic(true)
	listProgress  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")).Bold(true)
)

func renderStyled(w io.Writer, list []tasks.Task, done, total int) {
	if total == 0 {
		fmt.Fprintln(w, listMuted.Render("No tasks yet. Add one with `daily add <name>`."))
		return
	}
	for _, t := range list {
		box, name := "[ ]", t.Name
		if t.Completed {
			box, name = "[x]", listDoneStyle.Render(t.Name)
		}
		line := fmt.Sprintf("%s %s %s", listIDStyle.Render(shortID(t.ID)), box, name)
		if t.DueTime != nil {
			line += " " + listDueStyle.Render("@ "+tasks.FormatDue(*t.DueTime))
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, listProgress.Render(progressLine(done, total)))
}

func renderPlain(w io.Writer, list []tasks.Task, done, total int) error {
	if total == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tDUE\tNAME")
	for _, t := range list {
		due := "-"
		if t.DueTime != nil {
			due = tasks.FormatDue(*t.DueTime)
		}
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", shortID(t.ID), mark, due, t.Name)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w, progressLine(done, total))
	return nil
}

func progressLine(done, total int) string {
	return fmt.Sprintf("%d/%d completed", done, total)
}

// shortID trims the id prefix and keeps enough characters to be typed back.
func shortID(id string) string {
	s := strings.TrimPrefix(id, "task_")
	if len(s) > 8 {
		s = s[:8]
	}
	return s
}

// NewDoneCommand returns the done subcommand.
func NewDoneCommand() *cli.Command {
	return &cli.Command{
		Name:      "done",
		Usage:     "Toggle a task's completion",
		ArgsUsage: "<task_id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ref := cmd.Args().First()
			if ref == "" {
				return fmt.Errorf("usage: daily done <task_id>")
			}

			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			t, err := a.store.Lookup(ref)
			if err != nil {
				return err
			}
			a.store.ToggleComplete(t.ID)

			state := "completed"
			if t.Completed {
				state = "reopened"
			}
			fmt.Printf("Task %s %s.\n", shortID(t.ID), state)
			return nil
		},
	}
}

// NewRemoveCommand returns the rm subcommand.
func NewRemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Delete a task",
		ArgsUsage: "<task_id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ref := cmd.Args().First()
			if ref == "" {
				return fmt.Errorf("usage: daily rm <task_id>")
			}

			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			t, err := a.store.Lookup(ref)
			if err != nil {
				return err
			}
			a.store.Delete(ctx, t.ID)
			fmt.Printf("Task %s deleted.\n", shortID(t.ID))
			return nil
		},
	}
}
