package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings used across the application.
type KeyMap struct {
	Quit    key.Binding
	Help    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Refresh key.Binding
	Back    key.Binding

	// Mnemonic tab shortcuts, matching the hints shown in the tab bar.
	// Only active when no view is capturing text input.
	TabChanges key.Binding
	TabStashes key.Binding
}

// DefaultKeyMap returns the default keybindings.
// Tab shortcuts use Alt+key so they never conflict with view-level keys.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		NextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Refresh: key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "refresh")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),

		TabChanges: key.NewBinding(key.WithKeys("alt+c"), key.WithHelp("alt+c", "changes")),
		TabStashes: key.NewBinding(key.WithKeys("alt+t"), key.WithHelp("alt+t", "stashes")),
	}
}
