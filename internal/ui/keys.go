package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all application key bindings.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Space    key.Binding
	Home     key.Binding
	End      key.Binding

	// Windows
	TOC      key.Binding
	Metadata key.Binding
	Help     key.Binding

	// Actions
	OpenImage key.Binding
	Enter     key.Binding
	Escape    key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default vim-like key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp/^u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn/^d", "page down"),
		),
		Space: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("Home/g", "top"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("End/G", "bottom"),
		),
		TOC: key.NewBinding(
			key.WithKeys("t", "tab"),
			key.WithHelp("t", "table of contents"),
		),
		Metadata: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "metadata"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		OpenImage: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open nearest image"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "select"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
