package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit        key.Binding
	Help        key.Binding
	ToggleTheme key.Binding
	Logs        key.Binding
	Address     key.Binding
	Back        key.Binding
	Reload      key.Binding

	// Pages
	About   key.Binding
	FAQ     key.Binding
	Privacy key.Binding
	Terms   key.Binding

	// Listing
	Search    key.Binding
	ChainMenu key.Binding
	CostMenu  key.Binding
	StageMenu key.Binding
	NewMenu   key.Binding
	Clear     key.Binding
	LoadMore  key.Binding
	Open      key.Binding
	CloseMenu key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Toggle theme"),
		),
		Logs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Application log"),
		),
		Address: key.NewBinding(
			key.WithKeys(":", "ctrl+l"),
			key.WithHelp(":", "Go to location"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "backspace", "esc"),
			key.WithHelp("b", "Back"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload"),
		),

		About: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "About"),
		),
		FAQ: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "FAQ"),
		),
		Privacy: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "Privacy"),
		),
		Terms: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "Terms of Service"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		ChainMenu: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Chain menu"),
		),
		CostMenu: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Cost menu"),
		),
		StageMenu: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Stage menu"),
		),
		NewMenu: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "New projects menu"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Clear filters"),
		),
		LoadMore: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Load more"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open / select"),
		),
		CloseMenu: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close menu"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdown", "Page down"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.ChainMenu, k.CostMenu, k.StageMenu, k.NewMenu, k.Clear},
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.Open, k.LoadMore, k.Back, k.Reload, k.Address},
		{k.About, k.FAQ, k.Privacy, k.Terms},
		{k.ToggleTheme, k.Logs, k.Help, k.Quit},
	}
}
