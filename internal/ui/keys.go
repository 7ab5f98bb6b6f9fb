package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit          key.Binding
	Search        key.Binding
	NextFocus     key.Binding
	Up            key.Binding
	Down          key.Binding
	Open          key.Binding
	Save          key.Binding
	Delete        key.Binding
	DeleteVisible key.Binding
	Cleanup       key.Binding
	Rescan        key.Binding
	Preview       key.Binding
	CopyPath      key.Binding
	Back          key.Binding

	Confirm    key.Binding
	Cancel     key.Binding
	ToggleList key.Binding

	Toggle         key.Binding
	DeleteSelected key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		NextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pane"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		DeleteVisible: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete visible"),
		),
		Cleanup: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cleanup"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Preview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "preview"),
		),
		CopyPath: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy path"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "cancel"),
		),
		ToggleList: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "show files"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		DeleteSelected: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete selected"),
		),
	}
}

// ShortHelp is the footer of the main screen
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Search, k.NextFocus, k.Open, k.Save, k.Delete, k.DeleteVisible,
		k.Cleanup, k.Rescan, k.Preview, k.CopyPath, k.Quit,
	}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.NextFocus, k.Search},
		{k.Save, k.Preview, k.CopyPath},
		{k.Delete, k.DeleteVisible, k.Cleanup, k.Rescan},
		{k.Back, k.Quit},
	}
}

func (k keyMap) confirmHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel, k.ToggleList}
}

func (k keyMap) cleanupHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.DeleteSelected, k.Back}
}
