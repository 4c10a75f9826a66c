package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lemonpay/lemontask/internal/model"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove completed tasks",
	Long:  `Remove all completed tasks from the logged-in account's list.`,
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().Bool("force", false, "Do not ask for confirmation")
}

func runClear(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	if !force {
		fmt.Print("Remove all completed tasks? (y/N): ")
		var response string
		_, _ = fmt.Scanln(&response)
		if strings.ToLower(response) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	kv, session, tasks, err := openSession()
	if err != nil {
		return err
	}
	defer func() {
		_ = kv.Close()
	}()

	return withUser(session, func(user *model.SafeUser) error {
		removed, err := tasks.ClearCompleted(user.ID)
		if err != nil {
			return fmt.Errorf("failed to clear tasks: %w", err)
		}
		if removed == 0 {
			fmt.Println("No completed tasks to remove.")
			return nil
		}
		fmt.Printf("🧹 Removed %d completed task(s).\n", removed)
		return nil
	})
}
