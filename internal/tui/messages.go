package tui

import "github.com/andy/invoicewiz/internal/domain"

// SwitchScreenMsg requests a screen change
type SwitchScreenMsg struct {
	Screen Screen
}

// RefreshDataMsg requests data refresh
type RefreshDataMsg struct{}

// ErrorMsg carries error information
type ErrorMsg struct {
	Err error
}

// IssuedMsg reports that the wizard stored and exported an invoice
type IssuedMsg struct {
	Invoice *domain.Invoice
	Path    string
	Err     error
}

// prefillMsg carries the issuer used to start a wizard session
type prefillMsg struct {
	issuer domain.Issuer
}
