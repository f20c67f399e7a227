// Package pricing derives line-item prices and invoice totals.
package pricing

import "math"

// Inputs holds the live form values of one line item. A nil field means the
// user has not entered a usable value yet.
type Inputs struct {
	Amount          *float64
	UnitPrice       *float64
	TaxPercent      *float64
	DiscountPercent *float64
}

// Gross returns amount * unitPrice * (1 + tax/100) * (1 - discount/100).
// The result is not rounded.
func Gross(amount, unitPrice, taxPercent, discountPercent float64) float64 {
	return amount * unitPrice * (1 + taxPercent/100) * (1 - discountPercent/100)
}

// Net returns the discounted price before tax.
func Net(amount, unitPrice, discountPercent float64) float64 {
	return amount * unitPrice * (1 - discountPercent/100)
}

// Ready reports whether all required inputs are defined.
func (in Inputs) Ready() bool {
	return in.Amount != nil && in.UnitPrice != nil && in.TaxPercent != nil
}

// Recompute returns the gross amount for in and whether it differs from
// current. When a required input is missing, current is returned unchanged
// and changed is false. A missing discount counts as zero.
func Recompute(in Inputs, current float64) (next float64, changed bool) {
	if !in.Ready() {
		return current, false
	}

	discount := 0.0
	if in.DiscountPercent != nil {
		discount = *in.DiscountPercent
	}

	next = Gross(*in.Amount, *in.UnitPrice, *in.TaxPercent, discount)
	if math.IsNaN(next) || math.IsInf(next, 0) {
		return current, false
	}
	if next == current {
		return current, false
	}
	return next, true
}
