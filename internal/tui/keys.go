package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextField  key.Binding
	PrevField  key.Binding
	Swap       key.Binding
	ToggleUnit key.Binding
	Refresh    key.Binding
	Reload     key.Binding
	Up         key.Binding
	Down       key.Binding
	Enter      key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	NextField:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	PrevField:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
	Swap:       key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "swap")),
	ToggleUnit: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "BTC/sats")),
	Refresh:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
	Reload:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "reload items")),
	Up:         key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "choose item")),
	Down:       key.NewBinding(key.WithKeys("down")),
	Enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select / load chart")),
	Quit:       key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Swap, k.ToggleUnit, k.Refresh, k.Reload, k.Up, k.Enter, k.Quit}
}
