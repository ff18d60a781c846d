package tui

import "github.com/charmbracelet/bubbles/key"

type directoryKeys struct {
	Add, Open, Reload, Quit key.Binding
}

var dirKeys = directoryKeys{
	Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "nuova casa")),
	Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apri")),
	Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "ricarica")),
	Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "esci")),
}

type formKeys struct {
	Submit, Cancel, Pick, Paste, ClearPhoto key.Binding
}

var frmKeys = formKeys{
	Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "salva")),
	Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "annulla")),
	Pick:       key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "scegli foto")),
	Paste:      key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "incolla foto")),
	ClearPhoto: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "rimuovi foto")),
}

type checklistKeys struct {
	Up, Down                             key.Binding
	Edit, Commit, Revert, Blur           key.Binding
	AddItem, AddFolder, AddChild, AddSub key.Binding
	Delete, Reload, Back, Quit           key.Binding
}

var clKeys = checklistKeys{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "su")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "giù")),
	Edit:      key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter/e", "modifica")),
	Commit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "conferma")),
	Revert:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "annulla")),
	Blur:      key.NewBinding(key.WithKeys("tab", "shift+tab")),
	AddItem:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "elemento")),
	AddFolder: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cartella")),
	AddChild:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "elemento nella cartella")),
	AddSub:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "sottocartella")),
	Delete:    key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "elimina")),
	Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "ricarica")),
	Back:      key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "tutte le case")),
	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "esci")),
}

func helpLine(bindings ...key.Binding) string {
	out := ""
	for i, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		if i > 0 && out != "" {
			out += " · "
		}
		out += h.Key + " " + h.Desc
	}
	return out
}
