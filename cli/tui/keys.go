package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Send      key.Binding
	NextModel key.Binding
	PrevModel key.Binding
	EditSys   key.Binding
	TempUp    key.Binding
	TempDown  key.Binding
	Clear     key.Binding
	Back      key.Binding
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	Increase  key.Binding
	Decrease  key.Binding
	Admin     key.Binding
	Chain     key.Binding
	Reset     key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Send: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "send"),
	),
	NextModel: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next model"),
	),
	PrevModel: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev model"),
	),
	EditSys: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "system prompt"),
	),
	TempUp: key.NewBinding(
		key.WithKeys("ctrl+up"),
		key.WithHelp("ctrl+up", "temperature up"),
	),
	TempDown: key.NewBinding(
		key.WithKeys("ctrl+down"),
		key.WithHelp("ctrl+down", "temperature down"),
	),
	Clear: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "new prompt"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("up/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("dn/j", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "toggle"),
	),
	Increase: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("right/l", "increase"),
	),
	Decrease: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("left/h", "decrease"),
	),
	Admin: key.NewBinding(
		key.WithKeys("f2"),
		key.WithHelp("f2", "admin"),
	),
	Chain: key.NewBinding(
		key.WithKeys("f3"),
		key.WithHelp("f3", "chain"),
	),
	Reset: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "reset chain"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}
