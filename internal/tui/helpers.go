package tui

import "time"

// truncate shortens a string to max length with ellipsis
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// dueDateFormats are accepted by the task form's due date field.
var dueDateFormats = []string{
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// parseDueDate parses a form value into a due date, nil when empty.
func parseDueDate(value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	for _, layout := range dueDateFormats {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return &t, true
		}
	}
	return nil, false
}

// formatDueDate renders a due date for display, empty when nil.
func formatDueDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02/01/2006 15:04")
}
