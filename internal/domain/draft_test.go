package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDraft(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	d := NewDraft(now, "Thanks for your order.")

	assert.Equal(t, Issuer{}, d.Issuer)
	assert.Equal(t, now, d.Client.BillDate)
	assert.Equal(t, now, d.Client.DeliveryDate)
	require.NotNil(t, d.Client.BillDueDate)
	assert.Equal(t, now, *d.Client.BillDueDate)
	assert.Equal(t, "Thanks for your order.", d.Text)
	assert.NotNil(t, d.Positions)
	assert.Empty(t, d.Positions)
}

func TestDraft_CloneIsDeep(t *testing.T) {
	d := NewDraft(time.Now(), "")
	d.Positions = append(d.Positions, LineItem{Name: "Design", Amount: 1, UnitPrice: 100})

	c := d.Clone()
	c.Positions[0].Name = "Changed"
	*c.Client.BillDueDate = c.Client.BillDueDate.AddDate(0, 1, 0)

	assert.Equal(t, "Design", d.Positions[0].Name)
	assert.NotEqual(t, *d.Client.BillDueDate, *c.Client.BillDueDate)
}

func TestLineItem_Recalculate(t *testing.T) {
	li := LineItem{Amount: 2, UnitPrice: 100, TaxPercent: 19, DiscountPercent: 10}

	assert.True(t, li.Recalculate())
	assert.InDelta(t, 214.2, li.GrossAmount, 1e-9)
	assert.False(t, li.Recalculate(), "second pass must not report a change")
}

func TestDraft_Totals(t *testing.T) {
	d := NewDraft(time.Now(), "")
	d.Positions = []LineItem{
		{Amount: 2, UnitPrice: 100, TaxPercent: 19, DiscountPercent: 10},
		{Amount: 1, UnitPrice: 50, TaxPercent: 20},
	}

	sum := d.Totals()
	assert.Equal(t, "230", sum.Net.String())
	assert.Equal(t, "44.2", sum.Tax.String())
	assert.Equal(t, "274.2", sum.Gross.String())
}

func TestDraft_Currency(t *testing.T) {
	d := NewDraft(time.Now(), "")
	assert.Equal(t, "EUR", d.Currency("EUR"))

	d.Positions = []LineItem{{Currency: "USD"}}
	assert.Equal(t, "USD", d.Currency("EUR"))
}
