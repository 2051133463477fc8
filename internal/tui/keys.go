package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the matrix key bindings. It implements help.KeyMap.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Next   key.Binding
	Prev   key.Binding
	Jump   key.Binding
	Done   key.Binding
	Delete key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Left:   key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "left quadrant")),
		Right:  key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "right quadrant")),
		Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next quadrant")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev quadrant")),
		Jump:   key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "jump to quadrant")),
		Done:   key.NewBinding(key.WithKeys("x", " "), key.WithHelp("x", "done")),
		Delete: key.NewBinding(key.WithKeys("d", "D"), key.WithHelp("d", "delete")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Done, k.Delete, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Next, k.Prev, k.Jump},
		{k.Done, k.Delete, k.Reload},
		{k.Help, k.Quit},
	}
}
