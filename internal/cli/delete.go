package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lemonpay/lemontask/internal/model"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [task-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Delete a task by its ID or a unique ID prefix.

Examples:
  lemontask delete abc123
  lemontask rm abc123 --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

var deleteForce bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Do not ask for confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
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

		if !deleteForce {
			fmt.Printf("About to delete: \"%s\" (ID: %s)\n", t.Title, t.ID)
			fmt.Print("Are you sure? [y/N]: ")
			var confirm string
			fmt.Scanln(&confirm)
			if confirm != "y" && confirm != "Y" {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		if err := tasks.Delete(user.ID, t.ID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		fmt.Printf("🗑️  Deleted: \"%s\"\n", t.Title)
		return nil
	})
}
