package domain

import "github.com/andy/invoicewiz/internal/pricing"

// LineItem is one billable position of an invoice.
type LineItem struct {
	Name            string  `form:"name" validate:"min=1"`
	Amount          float64 `form:"amount"`
	Unit            string  `form:"unit" validate:"min=1"`
	UnitPrice       float64 `form:"unitPrice" validate:"gte=1"`
	Currency        string  `form:"currency" validate:"min=1"`
	TaxPercent      float64 `form:"taxPercent"`
	DiscountPercent float64 `form:"discountPercent"`
	// GrossAmount is derived from the other numeric fields.
	GrossAmount float64 `form:"grossAmount"`
}

// Recalculate refreshes GrossAmount and reports whether it changed.
func (li *LineItem) Recalculate() bool {
	next, changed := pricing.Recompute(li.Inputs(), li.GrossAmount)
	if changed {
		li.GrossAmount = next
	}
	return changed
}

// Inputs returns the calculator inputs of a fully entered item.
func (li LineItem) Inputs() pricing.Inputs {
	return pricing.Inputs{
		Amount:          &li.Amount,
		UnitPrice:       &li.UnitPrice,
		TaxPercent:      &li.TaxPercent,
		DiscountPercent: &li.DiscountPercent,
	}
}

// Line converts the item for total calculation.
func (li LineItem) Line() pricing.Line {
	return pricing.Line{
		Amount:          li.Amount,
		UnitPrice:       li.UnitPrice,
		TaxPercent:      li.TaxPercent,
		DiscountPercent: li.DiscountPercent,
	}
}
