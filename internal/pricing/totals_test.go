package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotals(t *testing.T) {
	tests := []struct {
		name      string
		lines     []Line
		wantNet   string
		wantTax   string
		wantGross string
		wantRates []string
	}{
		{
			name:      "empty",
			wantNet:   "0",
			wantTax:   "0",
			wantGross: "0",
		},
		{
			name:      "single line with discount",
			lines:     []Line{{Amount: 2, UnitPrice: 100, TaxPercent: 19, DiscountPercent: 10}},
			wantNet:   "180",
			wantTax:   "34.2",
			wantGross: "214.2",
			wantRates: []string{"19"},
		},
		{
			name: "mixed rates",
			lines: []Line{
				{Amount: 1, UnitPrice: 50, TaxPercent: 20},
				{Amount: 2, UnitPrice: 100, TaxPercent: 19, DiscountPercent: 10},
				{Amount: 1, UnitPrice: 100, TaxPercent: 7},
			},
			wantNet:   "330",
			wantTax:   "51.2",
			wantGross: "381.2",
			wantRates: []string{"7", "19", "20"},
		},
		{
			name:      "rounds to cents",
			lines:     []Line{{Amount: 3, UnitPrice: 0.333, TaxPercent: 19}},
			wantNet:   "1",
			wantTax:   "0.19",
			wantGross: "1.19",
			wantRates: []string{"19"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Totals(tt.lines)

			assert.True(t, got.Net.Equal(decimal.RequireFromString(tt.wantNet)), "net = %s, want %s", got.Net, tt.wantNet)
			assert.True(t, got.Tax.Equal(decimal.RequireFromString(tt.wantTax)), "tax = %s, want %s", got.Tax, tt.wantTax)
			assert.True(t, got.Gross.Equal(decimal.RequireFromString(tt.wantGross)), "gross = %s, want %s", got.Gross, tt.wantGross)

			require.Len(t, got.Shares, len(tt.wantRates))
			for i, rate := range tt.wantRates {
				assert.Equal(t, rate, got.Shares[i].Percent.String())
			}
		})
	}
}

func TestTotals_SharesReconcile(t *testing.T) {
	got := Totals([]Line{
		{Amount: 1, UnitPrice: 10, TaxPercent: 19},
		{Amount: 1, UnitPrice: 20, TaxPercent: 19},
	})

	require.Len(t, got.Shares, 1)
	assert.True(t, got.Shares[0].Base.Equal(decimal.NewFromInt(30)))
	assert.True(t, got.Shares[0].Tax.Equal(got.Tax))
}

func TestRound(t *testing.T) {
	assert.Equal(t, "214.2", Round(214.20000000000002).String())
	assert.Equal(t, "0.01", Round(0.005).String())
}
