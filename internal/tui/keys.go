package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings handled by the model itself. Everything else
// goes to the focused input or table.
type keyMap struct {
	Clear  key.Binding
	Focus  key.Binding
	Search key.Binding
	Prev   key.Binding
	Next   key.Binding
	Commit key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "input/table"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "edit filter"),
		),
		Prev: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "older query"),
		),
		Next: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "newer query"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save query"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Clear, k.Focus, k.Prev, k.Commit, k.Reload, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Clear, k.Focus, k.Search},
		{k.Prev, k.Next, k.Commit},
		{k.Reload, k.Help, k.Quit},
	}
}

// HelpText returns the help overlay as markdown.
func HelpText() string {
	return `# watchfilter

Type in the filter box to narrow the table. Every word you type must appear
in a row as a **whole word**, in any order, ignoring case.

| Query        | Shows                              |
|--------------|------------------------------------|
| ` + "`apple`" + `      | "Apple Pie", not "Pineapple"       |
| ` + "`red car`" + `    | "red car", not "red bicycle"       |
| ` + "`(q1)`" + `       | rows containing "(q1)" literally   |

## Keys

| Key      | Action                               |
|----------|--------------------------------------|
| esc      | clear the filter and show every row  |
| tab      | switch between filter and table      |
| /        | jump back to the filter              |
| ↑ / ↓    | step through saved queries           |
| enter    | save the current query to history    |
| ctrl+r   | reload the data source               |
| ?        | toggle this help (from the table)    |
| ctrl+c   | quit                                 |
`
}
