package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up               key.Binding
	Down             key.Binding
	Enter            key.Binding
	Back             key.Binding
	Tab              key.Binding
	Invoices         key.Binding
	Elements         key.Binding
	Projects         key.Binding
	Summary          key.Binding
	Settings         key.Binding
	Select           key.Binding
	SelectAll        key.Binding
	ClearSelection   key.Binding
	Export           key.Binding
	Filter           key.Binding
	ClearFilters     key.Binding
	ToggleAdicionals key.Binding
	TogglePressupost key.Binding
	Scope            key.Binding
	Copy             key.Binding
	Refresh          key.Binding
	Help             key.Binding
	Quit             key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	Invoices: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "invoices"),
	),
	Elements: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "elements"),
	),
	Projects: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "projects"),
	),
	Summary: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "summary"),
	),
	Settings: key.NewBinding(
		key.WithKeys("5"),
		key.WithHelp("5", "settings"),
	),
	Select: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "select"),
	),
	SelectAll: key.NewBinding(
		key.WithKeys("ctrl+a"),
		key.WithHelp("ctrl+a", "select all"),
	),
	ClearSelection: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "unselect all"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export selected"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	ClearFilters: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "clear filters"),
	),
	ToggleAdicionals: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "adicionals"),
	),
	TogglePressupost: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pressupost"),
	),
	Scope: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "project scope"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy filters"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Filter, k.Select, k.Export, k.Scope, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Back, k.Tab},
		{k.Invoices, k.Elements, k.Projects, k.Summary, k.Settings},
		{k.Select, k.SelectAll, k.ClearSelection, k.Export, k.Copy},
		{k.Filter, k.ClearFilters, k.ToggleAdicionals, k.TogglePressupost, k.Scope},
		{k.Refresh, k.Help, k.Quit},
	}
}
