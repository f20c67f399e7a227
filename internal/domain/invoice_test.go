package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDraft() Draft {
	d := NewDraft(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), "text")
	d.Positions = []LineItem{{Name: "Consulting", Amount: 4, Unit: "h", UnitPrice: 120, Currency: "EUR", TaxPercent: 19}}
	return d
}

func TestNewInvoice(t *testing.T) {
	inv := NewInvoice("INV-2026-001", sampleDraft(), "USD")

	assert.Equal(t, InvoiceStatusIssued, inv.Status)
	assert.Equal(t, "EUR", inv.Currency)
	assert.Equal(t, "480", inv.NetTotal.String())
	assert.Equal(t, "91.2", inv.TaxTotal.String())
	assert.Equal(t, "571.2", inv.GrossTotal.String())
	require.NoError(t, inv.Validate())
}

func TestInvoice_Validate(t *testing.T) {
	inv := NewInvoice("", sampleDraft(), "EUR")
	assert.Error(t, inv.Validate())

	inv = NewInvoice("INV-1", Draft{}, "EUR")
	assert.Error(t, inv.Validate())
}

func TestInvoice_Lifecycle(t *testing.T) {
	inv := NewInvoice("INV-2026-001", sampleDraft(), "EUR")
	due := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	inv.Draft.Client.BillDueDate = &due

	assert.False(t, inv.IsOverdue(due.AddDate(0, 0, 1)), "issued invoices are never overdue")

	require.NoError(t, inv.MarkSent(due.AddDate(0, 0, -20)))
	assert.Equal(t, InvoiceStatusSent, inv.Status)
	assert.False(t, inv.IsOverdue(due.AddDate(0, 0, -1)))
	assert.True(t, inv.IsOverdue(due.AddDate(0, 0, 1)))

	inv.MarkPaid(due)
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	require.NotNil(t, inv.PaidAt)
	assert.Error(t, inv.MarkSent(due))
}

func TestParseInvoiceStatus(t *testing.T) {
	st, err := ParseInvoiceStatus(" Paid ")
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPaid, st)

	_, err = ParseInvoiceStatus("draft")
	assert.Error(t, err)
}
