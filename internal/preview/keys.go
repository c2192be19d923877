package preview

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Damage key.Binding
	Heal   key.Binding
	Kill   key.Binding
	Reset  key.Binding
	Mode   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Damage, k.Heal, k.Mode, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Damage, k.Heal, k.Kill, k.Reset},
		{k.Mode, k.Help, k.Quit},
	}
}

var defaultKeys = keyMap{
	Damage: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "damage"),
	),
	Heal: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "heal"),
	),
	Kill: key.NewBinding(
		key.WithKeys("0"),
		key.WithHelp("0", "kill"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "full health"),
	),
	Mode: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "toggle middle print"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}
