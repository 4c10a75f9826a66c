package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lemonpay/lemontask/internal/auth"
	"github.com/lemonpay/lemontask/internal/logger"
)

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}

		switch m.screen {
		case ScreenLogin, ScreenSignup:
			return m.updateAuth(msg)
		case ScreenTaskList:
			switch m.mode {
			case ModeTaskForm:
				return m.updateTaskForm(msg)
			case ModeHelp:
				m.mode = ModeNormal
				return m, nil
			}
			return m.updateTaskList(msg)
		case ScreenTaskDetail:
			if m.mode == ModeTaskForm {
				return m.updateTaskForm(msg)
			}
			return m.updateTaskDetail(msg)
		}
	}

	return m, nil
}

// --- Auth screens ---

func (m Model) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		if m.screen == ScreenSignup {
			m.toAuthScreen(ScreenLogin)
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, keys.Switch):
		if m.screen == ScreenLogin {
			m.toAuthScreen(ScreenSignup)
		} else {
			m.toAuthScreen(ScreenLogin)
		}
		return m, nil

	// Plain j/k must reach the inputs, so field cycling matches arrows only
	case key.Matches(msg, keys.Tab), msg.String() == "down":
		m.focusAuthField((m.authFocus + 1) % m.authFieldCount())
		return m, textinput.Blink

	case msg.String() == "shift+tab", msg.String() == "up":
		m.focusAuthField((m.authFocus - 1 + m.authFieldCount()) % m.authFieldCount())
		return m, textinput.Blink

	case key.Matches(msg, keys.Enter):
		if m.authFocus < m.authFieldCount()-1 {
			m.focusAuthField(m.authFocus + 1)
			return m, textinput.Blink
		}
		m.submitAuth()
		return m, nil
	}

	var cmd tea.Cmd
	m.authInputs[m.authFocus], cmd = m.authInputs[m.authFocus].Update(msg)
	return m, cmd
}

func (m *Model) focusAuthField(idx int) {
	m.authInputs[m.authFocus].Blur()
	m.authFocus = idx
	m.authInputs[m.authFocus].Focus()
}

func (m *Model) toAuthScreen(screen Screen) {
	m.screen = screen
	m.authErr = ""
	for i := range m.authInputs {
		m.authInputs[i].SetValue("")
		m.authInputs[i].Blur()
	}
	m.authFocus = authFieldEmail
	m.authInputs[m.authFocus].Focus()
}

func (m *Model) submitAuth() {
	email := strings.TrimSpace(m.authInputs[authFieldEmail].Value())
	password := m.authInputs[authFieldPassword].Value()

	var result auth.Result
	if m.screen == ScreenSignup {
		if password != m.authInputs[authFieldConfirm].Value() {
			m.authErr = "Passwords do not match"
			return
		}
		result = m.session.Signup(email, password)
	} else {
		result = m.session.Login(email, password)
	}

	if !result.Success {
		m.authErr = result.Error
		return
	}

	m.screen = ScreenTaskList
	m.mode = ModeNormal
	m.authErr = ""
	m.cursor = 0
	m.message = fmt.Sprintf("Welcome, %s", result.User.Email)
	m.loadTasks()
}

// toLogin drops back to the login screen, e.g. after session expiry.
func (m *Model) toLogin(reason string) {
	m.toAuthScreen(ScreenLogin)
	m.authErr = reason
	m.items = nil
	m.cursor = 0
	m.message = ""
}

// --- Task list ---

func (m Model) updateTaskList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "q":
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Add):
		m.openTaskForm("")
		return m, textinput.Blink

	case key.Matches(msg, keys.Edit):
		if t := m.currentItem(); t != nil {
			m.openTaskForm(t.ID)
			return m, textinput.Blink
		}

	case key.Matches(msg, keys.Enter):
		if t := m.currentItem(); t != nil {
			m.detailID = t.ID
			m.screen = ScreenTaskDetail
		}

	case key.Matches(msg, keys.Done):
		if t := m.currentItem(); t != nil {
			m.toggleTask(t.ID)
		}

	case key.Matches(msg, keys.Delete):
		if t := m.currentItem(); t != nil {
			m.deleteTask(t.ID)
			if m.cursor >= len(m.items) && m.cursor > 0 {
				m.cursor--
			}
		}

	case key.Matches(msg, keys.Clear):
		m.clearCompleted()

	case key.Matches(msg, keys.Logout):
		if err := m.session.Logout(); err != nil {
			m.message = fmt.Sprintf("Logout error: %v", err)
		} else {
			m.toLogin("")
		}

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, keys.Escape):
		m.message = ""
	}

	return m, nil
}

// --- Task detail ---

func (m Model) updateTaskDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape), msg.String() == "q":
		m.screen = ScreenTaskList
		return m, nil

	case key.Matches(msg, keys.Edit):
		m.openTaskForm(m.detailID)
		return m, textinput.Blink

	case key.Matches(msg, keys.Done):
		m.toggleTask(m.detailID)

	case key.Matches(msg, keys.Delete):
		m.deleteTask(m.detailID)
		if m.screen == ScreenTaskDetail {
			m.screen = ScreenTaskList
		}

	case key.Matches(msg, keys.Logout):
		if err := m.session.Logout(); err != nil {
			m.message = fmt.Sprintf("Logout error: %v", err)
		} else {
			m.toLogin("")
		}
	}

	return m, nil
}

// --- Task form (add/edit overlay) ---

func (m *Model) openTaskForm(taskID string) {
	m.mode = ModeTaskForm
	m.editingID = taskID
	m.formErr = ""

	for i := range m.formInputs {
		m.formInputs[i].SetValue("")
		m.formInputs[i].Blur()
	}

	if taskID != "" {
		if t := m.findItem(taskID); t != nil {
			m.formInputs[taskFieldTitle].SetValue(t.Title)
			m.formInputs[taskFieldDescription].SetValue(t.Description)
			m.formInputs[taskFieldDue].SetValue(formatDueDate(t.DueDate))
		}
	}

	m.formFocus = taskFieldTitle
	m.formInputs[m.formFocus].Focus()
	m.formInputs[m.formFocus].CursorEnd()
}

func (m Model) updateTaskForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		return m, nil

	case key.Matches(msg, keys.Tab), msg.String() == "down":
		m.focusFormField((m.formFocus + 1) % len(m.formInputs))
		return m, textinput.Blink

	case msg.String() == "shift+tab", msg.String() == "up":
		m.focusFormField((m.formFocus - 1 + len(m.formInputs)) % len(m.formInputs))
		return m, textinput.Blink

	case key.Matches(msg, keys.Enter):
		if m.formFocus < len(m.formInputs)-1 {
			m.focusFormField(m.formFocus + 1)
			return m, textinput.Blink
		}
		m.submitTaskForm()
		return m, nil
	}

	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

func (m *Model) focusFormField(idx int) {
	m.formInputs[m.formFocus].Blur()
	m.formFocus = idx
	m.formInputs[m.formFocus].Focus()
}

func (m *Model) submitTaskForm() {
	title := strings.TrimSpace(m.formInputs[taskFieldTitle].Value())
	description := strings.TrimSpace(m.formInputs[taskFieldDescription].Value())
	dueRaw := strings.TrimSpace(m.formInputs[taskFieldDue].Value())

	if title == "" {
		m.formErr = "Title is required"
		return
	}
	due, ok := parseDueDate(dueRaw)
	if !ok {
		m.formErr = "Due date not understood, try YYYY-MM-DD HH:MM"
		return
	}

	user := m.session.CurrentUser()
	if user == nil {
		m.toLogin(auth.ErrAuthRequired.Error())
		return
	}

	err := m.session.WithAuth(func(string) error {
		if m.editingID == "" {
			_, err := m.tasks.Add(user.ID, title, description, due)
			return err
		}
		t, err := m.tasks.Get(user.ID, m.editingID)
		if err != nil {
			return err
		}
		t.Title = title
		t.Description = description
		t.DueDate = due
		return m.tasks.Update(user.ID, t)
	})
	if m.handleAuthErr(err) {
		return
	}
	if err != nil {
		logger.Error("Task save failed", logger.F("error", err))
		m.formErr = "Could not save task"
		return
	}

	if m.editingID == "" {
		m.message = fmt.Sprintf("Added: %s", title)
	} else {
		m.message = fmt.Sprintf("Updated: %s", title)
	}
	m.mode = ModeNormal
	m.loadTasks()
}

// --- Guarded task mutations ---

// handleAuthErr reports whether err was a guard failure, dropping back to
// the login screen when it was.
func (m *Model) handleAuthErr(err error) bool {
	if errors.Is(err, auth.ErrSessionExpired) || errors.Is(err, auth.ErrAuthRequired) {
		m.toLogin(err.Error())
		return true
	}
	return false
}

func (m *Model) toggleTask(taskID string) {
	user := m.session.CurrentUser()
	if user == nil {
		m.toLogin(auth.ErrAuthRequired.Error())
		return
	}

	err := m.session.WithAuth(func(string) error {
		t, err := m.tasks.Toggle(user.ID, taskID)
		if err != nil {
			return err
		}
		if t.Completed {
			m.message = fmt.Sprintf("Completed: %s", t.Title)
		} else {
			m.message = fmt.Sprintf("Reopened: %s", t.Title)
		}
		return nil
	})
	if m.handleAuthErr(err) {
		return
	}
	if err != nil {
		m.message = fmt.Sprintf("Error: %v", err)
		return
	}
	m.loadTasks()
}

func (m *Model) deleteTask(taskID string) {
	user := m.session.CurrentUser()
	if user == nil {
		m.toLogin(auth.ErrAuthRequired.Error())
		return
	}

	err := m.session.WithAuth(func(string) error {
		return m.tasks.Delete(user.ID, taskID)
	})
	if m.handleAuthErr(err) {
		return
	}
	if err != nil {
		m.message = fmt.Sprintf("Error: %v", err)
		return
	}
	m.message = "Task deleted"
	m.loadTasks()
}

func (m *Model) clearCompleted() {
	user := m.session.CurrentUser()
	if user == nil {
		m.toLogin(auth.ErrAuthRequired.Error())
		return
	}

	var removed int
	err := m.session.WithAuth(func(string) error {
		var err error
		removed, err = m.tasks.ClearCompleted(user.ID)
		return err
	})
	if m.handleAuthErr(err) {
		return
	}
	if err != nil {
		m.message = fmt.Sprintf("Error: %v", err)
		return
	}
	if removed == 0 {
		m.message = "No completed tasks"
	} else {
		m.message = fmt.Sprintf("Cleared %d completed", removed)
	}
	m.cursor = 0
	m.loadTasks()
}
