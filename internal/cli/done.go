package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lemonpay/lemontask/internal/model"
)

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as done",
	Long: `Toggle a task's completion by its ID or a unique ID prefix.

Examples:
  lemontask done abc123
  lemontask done abc123 --undo`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

var doneUndo bool

func init() {
	doneCmd.Flags().BoolVar(&doneUndo, "undo", false, "Mark task as not done")
}

func runDone(cmd *cobra.Command, args []string) error {
	kv, session, tasks, err := openSession()
	if err != nil {
		return err
	}
	defer func() {
		_ = kv.Close()
	}()

	return withUser(session, func(user *model.SafeUser) error {
		items, err := tasks.List(user.ID)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		t, err := findTask(items, args[0])
		if err != nil {
			return err
		}

		want := !doneUndo
		if t.Completed != want {
			if t, err = tasks.Toggle(user.ID, t.ID); err != nil {
				return fmt.Errorf("failed to update task: %w", err)
			}
		}

		if t.Completed {
			fmt.Printf("✓ Completed: \"%s\"\n", t.Title)
		} else {
			fmt.Printf("○ Reopened: \"%s\"\n", t.Title)
		}
		return nil
	})
}
