package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lemonpay/lemontask/internal/model"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your tasks",
	Long: `List the tasks of the logged-in account.

Examples:
  lemontask list
  lemontask list --done`,
	RunE: runList,
}

var listIncludeDone bool

func init() {
	listCmd.Flags().BoolVar(&listIncludeDone, "done", false, "Include completed tasks")
}

func runList(cmd *cobra.Command, args []string) error {
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

		if !listIncludeDone {
			pending := items[:0]
			for _, t := range items {
				if !t.Completed {
					pending = append(pending, t)
				}
			}
			items = pending
		}

		if len(items) == 0 {
			fmt.Println("No tasks found. Add one with: lemontask add \"Your task\"")
			return nil
		}

		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Completed != items[j].Completed {
				return !items[i].Completed
			}
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})

		printTasks(user.Email, items)
		return nil
	})
}

func printTasks(owner string, items []model.Task) {
	pending := 0
	for _, t := range items {
		if !t.Completed {
			pending++
		}
	}

	fmt.Printf("\n📋 %s (%d pending)\n", owner, pending)
	fmt.Println(strings.Repeat("─", 60))

	for _, t := range items {
		printTask(t)
	}
	fmt.Println()
}

func printTask(t model.Task) {
	icon := "[ ]"
	if t.Completed {
		icon = "[x]"
	}

	due := ""
	if t.DueDate != nil {
		due = t.DueDate.Format("Jan 2")
		if !t.Completed && t.DueDate.Before(time.Now()) {
			due += " ⚠"
		}
	}

	title := t.Title
	if len(title) > 40 {
		title = title[:37] + "..."
	}

	fmt.Printf("  %s  %-8s  %-40s  %s\n", icon, shortID(t.ID), title, due)
}
