package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusIssued  InvoiceStatus = "issued"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// ParseInvoiceStatus converts user input into a known status.
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	switch st := InvoiceStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case InvoiceStatusIssued, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue:
		return st, nil
	}
	return "", errors.New("unknown invoice status: " + s)
}

// Invoice is a completed draft that has been numbered and stored.
type Invoice struct {
	ID         int64
	Number     string
	Status     InvoiceStatus
	Draft      Draft
	Currency   string
	NetTotal   decimal.Decimal
	TaxTotal   decimal.Decimal
	GrossTotal decimal.Decimal
	SentAt     *time.Time
	PaidAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewInvoice creates an issued invoice from a completed draft and computes
// its totals.
func NewInvoice(number string, draft Draft, currency string) *Invoice {
	now := time.Now()
	inv := &Invoice{
		Number:    number,
		Status:    InvoiceStatusIssued,
		Draft:     draft.Clone(),
		Currency:  draft.Currency(currency),
		CreatedAt: now,
		UpdatedAt: now,
	}
	inv.CalculateTotals()
	return inv
}

// CalculateTotals recalculates net, tax and gross totals from the positions.
func (i *Invoice) CalculateTotals() {
	sum := i.Draft.Totals()
	i.NetTotal = sum.Net
	i.TaxTotal = sum.Tax
	i.GrossTotal = sum.Gross
}

// MarkSent moves an issued or overdue invoice to sent.
func (i *Invoice) MarkSent(at time.Time) error {
	if i.Status == InvoiceStatusPaid {
		return errors.New("invoice is already paid")
	}
	i.Status = InvoiceStatusSent
	i.SentAt = &at
	i.UpdatedAt = time.Now()
	return nil
}

// MarkPaid records the payment date.
func (i *Invoice) MarkPaid(at time.Time) {
	i.Status = InvoiceStatusPaid
	i.PaidAt = &at
	i.UpdatedAt = time.Now()
}

// IsOverdue reports whether a sent invoice has passed its due date.
func (i *Invoice) IsOverdue(now time.Time) bool {
	return i.Status == InvoiceStatusSent && i.Draft.Client.IsOverdue(now)
}

// Validate returns an error if the invoice is invalid
func (i *Invoice) Validate() error {
	if strings.TrimSpace(i.Number) == "" {
		return errors.New("invoice number is required")
	}
	if i.Status == "" {
		return errors.New("invoice status is required")
	}
	if len(i.Draft.Positions) == 0 {
		return errors.New("invoice needs at least one position")
	}
	if !i.NetTotal.Add(i.TaxTotal).Equal(i.GrossTotal) {
		return errors.New("gross total does not match net plus tax")
	}
	return nil
}
