package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Tab    key.Binding
	Enter  key.Binding
	Add    key.Binding
	Edit   key.Binding
	Done   key.Binding
	Delete key.Binding
	Clear  key.Binding
	Switch key.Binding
	Help   key.Binding
	Quit   key.Binding
	Escape key.Binding
	Logout key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Tab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select/submit")),
	Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
	Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Done:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle done")),
	Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear completed")),
	Switch: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "login/signup")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Escape: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back/cancel")),
	Logout: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
}
