package tui

import "github.com/charmbracelet/bubbles/key"

// GlobalKeys are always active.
type GlobalKeys struct {
	Quit key.Binding
}

var globalKeys = GlobalKeys{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("Ctrl+c", "quit"),
	),
}

// FeedKeys scroll the activity feed while the dashboard is shown.
type FeedKeys struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
}

var feedKeys = FeedKeys{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑/↓", "scroll"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↑/↓", "scroll"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("PgUp/PgDn", "page"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("PgUp/PgDn", "page"),
	),
	Home: key.NewBinding(
		key.WithKeys("home"),
		key.WithHelp("Home", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("end"),
		key.WithHelp("End", "follow"),
	),
}

// DetailKeys are active in the detail view.
type DetailKeys struct {
	Prev key.Binding
	Next key.Binding
	Back key.Binding
}

var detailKeys = DetailKeys{
	Prev: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←/→", "agent"),
	),
	Next: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("←/→", "agent"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back"),
	),
}

// PaletteKeys are active while the command palette is open.
type PaletteKeys struct {
	Up     key.Binding
	Down   key.Binding
	Cancel key.Binding
}

var paletteKeys = PaletteKeys{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑/↓", "select"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↑/↓", "select"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "close"),
	),
}

// HelpKeys close the help overlay.
type HelpKeys struct {
	Close key.Binding
}

var helpKeys = HelpKeys{
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "close"),
	),
}
