package pricing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places totals are rounded to.
const MoneyPlaces = 2

// Line is the subset of a line item needed for totals.
type Line struct {
	Amount          float64
	UnitPrice       float64
	TaxPercent      float64
	DiscountPercent float64
}

// TaxShare is the tax collected at one rate.
type TaxShare struct {
	Percent decimal.Decimal
	Base    decimal.Decimal
	Tax     decimal.Decimal
}

// Summary holds rounded invoice totals.
type Summary struct {
	Net   decimal.Decimal
	Tax   decimal.Decimal
	Gross decimal.Decimal
	// Shares is ordered by ascending tax rate.
	Shares []TaxShare
}

// Totals sums lines with decimal arithmetic. Each line's net and tax are
// rounded to cents before summing; gross is net plus tax so the three totals
// always reconcile.
func Totals(lines []Line) Summary {
	byRate := make(map[string]*TaxShare)
	net := decimal.Zero
	tax := decimal.Zero

	for _, l := range lines {
		lineNet := decimal.NewFromFloat(l.Amount).
			Mul(decimal.NewFromFloat(l.UnitPrice)).
			Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(l.DiscountPercent).Div(decimal.NewFromInt(100)))).
			Round(MoneyPlaces)
		rate := decimal.NewFromFloat(l.TaxPercent)
		lineTax := lineNet.Mul(rate).Div(decimal.NewFromInt(100)).Round(MoneyPlaces)

		net = net.Add(lineNet)
		tax = tax.Add(lineTax)

		key := rate.String()
		share, ok := byRate[key]
		if !ok {
			share = &TaxShare{Percent: rate, Base: decimal.Zero, Tax: decimal.Zero}
			byRate[key] = share
		}
		share.Base = share.Base.Add(lineNet)
		share.Tax = share.Tax.Add(lineTax)
	}

	shares := make([]TaxShare, 0, len(byRate))
	for _, s := range byRate {
		shares = append(shares, *s)
	}
	sort.Slice(shares, func(i, j int) bool {
		return shares[i].Percent.LessThan(shares[j].Percent)
	})

	return Summary{
		Net:    net,
		Tax:    tax,
		Gross:  net.Add(tax),
		Shares: shares,
	}
}

// Round quantizes a float amount to cents.
func Round(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(MoneyPlaces)
}
