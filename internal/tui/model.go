package tui

import (
	"sort"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/lemonpay/lemontask/internal/auth"
	"github.com/lemonpay/lemontask/internal/logger"
	"github.com/lemonpay/lemontask/internal/model"
	"github.com/lemonpay/lemontask/internal/task"
)

// Screen represents the current screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenSignup
	ScreenTaskList
	ScreenTaskDetail
)

// Mode represents the current UI mode within the task screens
type Mode int

const (
	ModeNormal Mode = iota
	ModeTaskForm
	ModeHelp
)

// Indices into the auth form inputs
const (
	authFieldEmail = iota
	authFieldPassword
	authFieldConfirm
)

// Indices into the task form inputs
const (
	taskFieldTitle = iota
	taskFieldDescription
	taskFieldDue
)

// Model is the main TUI model
type Model struct {
	session *auth.Service
	tasks   *task.Store

	screen Screen
	mode   Mode

	// UI state
	width  int
	height int

	// Auth form (email, password, confirm)
	authInputs []textinput.Model
	authFocus  int
	authErr    string

	// Task list
	items  []model.Task
	cursor int

	// Task add/edit form (title, description, due date)
	formInputs []textinput.Model
	formFocus  int
	editingID  string
	formErr    string

	// Detail view
	detailID string

	message string
}

// NewModel creates the TUI model. The session service must already be
// initialized; a restored session skips the login screen.
func NewModel(session *auth.Service, tasks *task.Store) Model {
	logger.Info("Initializing TUI model")

	m := Model{
		session:    session,
		tasks:      tasks,
		screen:     ScreenLogin,
		mode:       ModeNormal,
		authInputs: newAuthInputs(),
		formInputs: newTaskInputs(),
	}

	if session.IsAuthenticated() {
		m.screen = ScreenTaskList
		m.loadTasks()
		logger.Debug("Session already active",
			logger.F("user", session.CurrentUser().Email),
			logger.F("tasks", len(m.items)))
	} else {
		m.authInputs[authFieldEmail].Focus()
	}

	return m
}

func newAuthInputs() []textinput.Model {
	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 128
	email.Width = 36

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128
	password.Width = 36

	confirm := textinput.New()
	confirm.Placeholder = "Confirm password"
	confirm.EchoMode = textinput.EchoPassword
	confirm.EchoCharacter = '•'
	confirm.CharLimit = 128
	confirm.Width = 36

	return []textinput.Model{email, password, confirm}
}

func newTaskInputs() []textinput.Model {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 256
	title.Width = 44

	description := textinput.New()
	description.Placeholder = "Description (optional)"
	description.CharLimit = 512
	description.Width = 44

	due := textinput.New()
	due.Placeholder = "Due date, e.g. 2025-01-15 09:00 (optional)"
	due.CharLimit = 32
	due.Width = 44

	return []textinput.Model{title, description, due}
}

// authFieldCount is how many auth inputs the current screen uses.
func (m *Model) authFieldCount() int {
	if m.screen == ScreenSignup {
		return 3
	}
	return 2
}

func (m *Model) loadTasks() {
	user := m.session.CurrentUser()
	if user == nil {
		m.items = nil
		return
	}

	items, err := m.tasks.List(user.ID)
	if err != nil {
		logger.Error("Failed to load tasks", logger.F("error", err))
		m.message = "Failed to load tasks"
		return
	}

	// Pending first, newest first within each group
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Completed != items[j].Completed {
			return !items[i].Completed
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	m.items = items
	if m.cursor >= len(m.items) {
		m.cursor = 0
	}
}

func (m *Model) currentItem() *model.Task {
	if m.cursor < len(m.items) {
		return &m.items[m.cursor]
	}
	return nil
}

func (m *Model) findItem(id string) *model.Task {
	for i := range m.items {
		if m.items[i].ID == id {
			return &m.items[i]
		}
	}
	return nil
}
