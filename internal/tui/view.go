package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current screen
func (m Model) View() string {
	var body string

	switch m.screen {
	case ScreenLogin, ScreenSignup:
		body = m.viewAuth()
	case ScreenTaskList:
		body = m.viewTaskList()
	case ScreenTaskDetail:
		body = m.viewTaskDetail()
	}

	switch m.mode {
	case ModeTaskForm:
		body = m.overlay(m.viewTaskForm())
	case ModeHelp:
		body = m.overlay(m.viewHelp())
	}

	return body
}

// overlay centers a panel over the screen when dimensions are known.
func (m Model) overlay(panel string) string {
	if m.width == 0 || m.height == 0 {
		return panel
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

func (m Model) viewAuth() string {
	var b strings.Builder

	title := "LemonTask — Login"
	action := "login"
	switchHint := "ctrl+s: create an account"
	if m.screen == ScreenSignup {
		title = "LemonTask — Sign Up"
		action = "sign up"
		switchHint = "ctrl+s: back to login"
	}

	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n\n")

	labels := []string{"Email", "Password", "Confirm"}
	for i := 0; i < m.authFieldCount(); i++ {
		b.WriteString(LabelStyle.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(m.authInputs[i].View())
		b.WriteString("\n\n")
	}

	if m.authErr != "" {
		b.WriteString(ErrorStyle.Render(m.authErr))
		b.WriteString("\n\n")
	}

	b.WriteString(HelpStyle.Render(fmt.Sprintf(
		"tab: next field • enter: %s • %s • esc: quit", action, switchHint)))

	return m.overlay(FormStyle.Render(b.String()))
}

func (m Model) viewTaskList() string {
	var b strings.Builder

	user := m.session.CurrentUser()
	header := "LemonTask"
	if user != nil {
		header = fmt.Sprintf("LemonTask — %s", user.Email)
	}
	b.WriteString(TitleStyle.Render(header))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(HelpStyle.Render("No tasks yet. Press 'a' to add one."))
		b.WriteString("\n")
	}

	for i, t := range m.items {
		icon := "[ ]"
		if t.Completed {
			icon = "[x]"
		}

		line := fmt.Sprintf("%s %s", icon, truncate(t.Title, 48))
		if t.DueDate != nil && !t.Completed {
			due := fmt.Sprintf("  due %s", formatDueDate(t.DueDate))
			if t.IsOverdue() {
				due = OverdueStyle.Render(due + " (overdue)")
			} else {
				due = LabelStyle.Render(due)
			}
			line += due
		}

		style := TaskItemStyle
		if t.Completed {
			style = TaskDoneStyle
		}
		if i == m.cursor {
			style = TaskItemSelectedStyle
			line = "❯ " + line
		} else {
			line = "  " + line
		}

		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.message != "" {
		b.WriteString(HelpStyle.Render(m.message))
		b.WriteString("\n")
	}
	b.WriteString(StatusBarStyle.Render(
		"a: add • e: edit • x: done • d: delete • c: clear • enter: detail • L: logout • ?: help"))

	return ListStyle.Render(b.String())
}

func (m Model) viewTaskDetail() string {
	t := m.findItem(m.detailID)
	if t == nil {
		return ListStyle.Render(ErrorStyle.Render("Task not found") +
			"\n\n" + HelpStyle.Render("esc: back"))
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Task Detail"))
	b.WriteString("\n\n")

	status := "Pending"
	if t.Completed {
		status = "Completed"
	}

	b.WriteString(LabelStyle.Render("Title:       "))
	b.WriteString(t.Title)
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Status:      "))
	b.WriteString(status)
	b.WriteString("\n")
	if t.Description != "" {
		b.WriteString(LabelStyle.Render("Description: "))
		b.WriteString(t.Description)
		b.WriteString("\n")
	}
	if t.DueDate != nil {
		b.WriteString(LabelStyle.Render("Due:         "))
		if t.IsOverdue() {
			b.WriteString(OverdueStyle.Render(formatDueDate(t.DueDate) + " (overdue)"))
		} else {
			b.WriteString(formatDueDate(t.DueDate))
		}
		b.WriteString("\n")
	}
	b.WriteString(LabelStyle.Render("Created:     "))
	b.WriteString(t.CreatedAt.Format("02/01/2006 15:04"))
	b.WriteString("\n\n")

	if m.message != "" {
		b.WriteString(HelpStyle.Render(m.message))
		b.WriteString("\n")
	}
	b.WriteString(StatusBarStyle.Render("e: edit • x: done • d: delete • esc: back"))

	return ListStyle.Render(b.String())
}

func (m Model) viewTaskForm() string {
	var b strings.Builder

	title := "New Task"
	if m.editingID != "" {
		title = "Edit Task"
	}
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n\n")

	labels := []string{"Title", "Description", "Due date"}
	for i, in := range m.formInputs {
		b.WriteString(LabelStyle.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}

	if m.formErr != "" {
		b.WriteString(ErrorStyle.Render(m.formErr))
		b.WriteString("\n\n")
	}

	b.WriteString(HelpStyle.Render("tab: next field • enter: save • esc: cancel"))

	return FormStyle.Render(b.String())
}

func (m Model) viewHelp() string {
	rows := []string{
		"↑/k, ↓/j    move",
		"a           add task",
		"e           edit task",
		"x           toggle done",
		"d           delete task",
		"c           clear completed",
		"enter       task detail",
		"L           logout",
		"ctrl+c      quit",
	}

	return FormStyle.Render(
		TitleStyle.Render("Keys") + "\n\n" +
			strings.Join(rows, "\n") + "\n\n" +
			HelpStyle.Render("press any key to close"))
}
