package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"kanban/internal/board"
	"kanban/internal/models"
)

const dateLayout = "2006-01-02"

// loadedEnvironment opens the store and applies one snapshot so commands can
// look tasks up.
func loadedEnvironment(cmd *cobra.Command) (*environment, error) {
	env, err := openEnvironment(cmd)
	if err != nil {
		return nil, err
	}
	if err := env.board.Load(cmd.Context()); err != nil {
		env.Close()
		return nil, err
	}
	return env, nil
}

func boardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Print the board columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadedEnvironment(cmd)
			if err != nil {
				return err
			}
			defer env.Close()
			return printBoard(cmd.OutOrStdout(), env.board.View())
		},
	}
}

func printBoard(w io.Writer, view board.View) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, col := range view.Columns {
		fmt.Fprintf(tw, "%s (%d)\n", col.Status, len(col.Tasks))
		for _, t := range col.Tasks {
			fmt.Fprintf(tw, "  [%s]\t%s\t%s\t%s\n", t.Priority, t.Title, t.Date.Format("02/01/2006"), t.ID)
		}
		fmt.Fprintln(tw)
	}
	if len(view.Unassigned) > 0 {
		fmt.Fprintf(tw, "UNASSIGNED (%d)\n", len(view.Unassigned))
		for _, t := range view.Unassigned {
			fmt.Fprintf(tw, "  [%s]\t%s\t%s\t%s\n", t.Status, t.Title, t.Date.Format("02/01/2006"), t.ID)
		}
	}
	return tw.Flush()
}

// taskFlags binds the task form to command flags.
type taskFlags struct {
	title       string
	description string
	status      string
	priority    string
	date        string
}

func (f *taskFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "task title")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "task description")
	cmd.Flags().StringVarP(&f.status, "status", "s", "", "TODO, IN PROGRESS or COMPLETED")
	cmd.Flags().StringVarP(&f.priority, "priority", "p", "", "High, Medium or Low")
	cmd.Flags().StringVar(&f.date, "date", "", "due date (YYYY-MM-DD)")
}

// apply overrides the draft with the flags that were set.
func (f *taskFlags) apply(cmd *cobra.Command, draft models.Fields) (models.Fields, error) {
	flags := cmd.Flags()
	if flags.Changed("title") {
		draft.Title = f.title
	}
	if flags.Changed("description") {
		draft.Description = f.description
	}
	if flags.Changed("status") {
		draft.Status = parseStatus(f.status)
	}
	if flags.Changed("priority") {
		draft.Priority = parsePriority(f.priority)
	}
	if flags.Changed("date") {
		d, err := time.Parse(dateLayout, f.date)
		if err != nil {
			return draft, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", f.date)
		}
		draft.Date = d
	}
	return draft, nil
}

// parseStatus accepts column names in any case, with "_" for the space.
func parseStatus(s string) models.Status {
	return models.Status(strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "_", " "))
}

func parsePriority(s string) models.Priority {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.Priority(s)
	}
	return models.Priority(strings.ToUpper(s[:1]) + strings.ToLower(s[1:]))
}

func addCmd() *cobra.Command {
	var f taskFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			ctrl := env.board.Controller()
			surface := ctrl.BeginCreate()
			draft, err := f.apply(cmd, surface.Draft)
			if err != nil {
				return err
			}
			id, err := ctrl.Save(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func editCmd() *cobra.Command {
	var f taskFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadedEnvironment(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			ctrl := env.board.Controller()
			surface := ctrl.BeginEdit(args[0])
			if surface.Mode != board.Editing {
				fmt.Fprintf(cmd.ErrOrStderr(), "task %s not found, creating a new one\n", args[0])
			}
			draft, err := f.apply(cmd, surface.Draft)
			if err != nil {
				return err
			}
			id, err := ctrl.Save(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func moveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <status>",
		Short: "Move a task to another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadedEnvironment(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			return env.board.Controller().ChangeStatus(cmd.Context(), args[0], parseStatus(args[1]))
		},
	}
}

func rmCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			confirm := promptConfirm(cmd.InOrStdin(), cmd.OutOrStdout())
			if yes {
				confirm = func(string) bool { return true }
			}
			return env.board.Controller().Delete(cmd.Context(), args[0], confirm)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

// promptConfirm asks on out and reads the answer from in.
func promptConfirm(in io.Reader, out io.Writer) board.ConfirmFunc {
	return func(id string) bool {
		fmt.Fprintf(out, "Are you sure you want to delete this task? [y/N] ")
		answer, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	}
}
