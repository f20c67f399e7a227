package domain

import (
	"time"

	"github.com/andy/invoicewiz/internal/pricing"
)

// Draft accumulates the invoice data entered across all wizard steps.
type Draft struct {
	Issuer    Issuer
	Client    ClientDetails
	Text      string
	Positions []LineItem
}

// NewDraft returns an empty draft. All dates are set to now and the invoice
// text to text.
func NewDraft(now time.Time, text string) Draft {
	due := now
	return Draft{
		Client: ClientDetails{
			BillDate:     now,
			DeliveryDate: now,
			BillDueDate:  &due,
		},
		Text:      text,
		Positions: []LineItem{},
	}
}

// Clone returns a deep copy of d.
func (d Draft) Clone() Draft {
	out := d
	out.Client = d.Client.clone()
	out.Positions = ClonePositions(d.Positions)
	return out
}

// ClonePositions copies items into a new slice. A nil input yields an
// empty, non-nil slice.
func ClonePositions(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

// Currency returns the currency of the first position, or fallback when the
// draft has no positions.
func (d Draft) Currency(fallback string) string {
	for _, p := range d.Positions {
		if p.Currency != "" {
			return p.Currency
		}
	}
	return fallback
}

// Totals returns the rounded net, tax and gross totals of all positions.
func (d Draft) Totals() pricing.Summary {
	lines := make([]pricing.Line, len(d.Positions))
	for i, p := range d.Positions {
		lines[i] = p.Line()
	}
	return pricing.Totals(lines)
}
