package tui

import (
	"strings"

	"github.com/shopspring/decimal"
)

// formatMoney formats an amount as "1,234.50 EUR"
func formatMoney(amount decimal.Decimal, currency string) string {
	s := amount.Abs().StringFixed(2)

	dotPos := len(s) - 3
	intPart := s[:dotPos]
	decPart := s[dotPos:]

	// Add commas to integer part
	result := make([]byte, 0, len(intPart)+len(intPart)/3)
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}

	prefix := ""
	if amount.IsNegative() {
		prefix = "-"
	}
	return strings.TrimSpace(prefix + string(result) + decPart + " " + currency)
}

// truncateStr truncates a string to the specified length with ellipsis
func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
