package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit key.Binding
	Back key.Binding

	// Navigation, suppressed while a form captures input
	Wizard   key.Binding
	Invoices key.Binding
	Settings key.Binding

	// Navigation that always works
	JumpWizard   key.Binding
	JumpInvoices key.Binding
	JumpSettings key.Binding
	ForceQuit    key.Binding

	// Actions
	Select     key.Binding
	Export     key.Binding
	MarkSent   key.Binding
	MarkPaid   key.Binding
	Overdue    key.Binding
	NewInvoice key.Binding

	// Positions step
	AddPosition    key.Binding
	RemovePosition key.Binding
	PrevPosition   key.Binding
	NextPosition   key.Binding

	// Movement
	Up   key.Binding
	Down key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:           key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	Back:           key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Wizard:         key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "wizard")),
	Invoices:       key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "invoices")),
	Settings:       key.NewBinding(key.WithKeys(","), key.WithHelp(",", "settings")),
	JumpWizard:     key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "wizard")),
	JumpInvoices:   key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "invoices")),
	JumpSettings:   key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "settings")),
	ForceQuit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Select:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Export:         key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export pdf")),
	MarkSent:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "mark sent")),
	MarkPaid:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "mark paid")),
	Overdue:        key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "check overdue")),
	NewInvoice:     key.NewBinding(key.WithKeys("n", "enter"), key.WithHelp("n", "new invoice")),
	AddPosition:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "add position")),
	RemovePosition: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "remove position")),
	PrevPosition:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "previous position")),
	NextPosition:   key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "next position")),
	Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
}
