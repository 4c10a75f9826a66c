package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lemonpay/lemontask/internal/model"
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task to your list.

Examples:
  lemontask add "Buy groceries"
  lemontask add "Meeting with team" --due "2025-01-15 09:00"
  lemontask add "Feature work" --desc "spike the new parser"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addDescription string
	addDue         string
)

func init() {
	addCmd.Flags().StringVarP(&addDescription, "desc", "D", "", "Task description")
	addCmd.Flags().StringVarP(&addDue, "due", "d", "", "Due date (e.g. '2025-01-15 09:00')")
}

// dueDateFormats mirrors what the TUI form accepts.
var dueDateFormats = []string{
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

func parseDue(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range dueDateFormats {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("due date %q not understood, try YYYY-MM-DD or YYYY-MM-DD HH:MM", value)
}

func runAdd(cmd *cobra.Command, args []string) error {
	kv, session, tasks, err := openSession()
	if err != nil {
		return err
	}
	defer func() {
		_ = kv.Close()
	}()

	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return fmt.Errorf("title is required")
	}

	due, err := parseDue(addDue)
	if err != nil {
		return err
	}

	return withUser(session, func(user *model.SafeUser) error {
		t, err := tasks.Add(user.ID, title, strings.TrimSpace(addDescription), due)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		fmt.Printf("✓ Added: \"%s\" (%s)\n", t.Title, shortID(t.ID))
		return nil
	})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
