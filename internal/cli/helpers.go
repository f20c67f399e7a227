package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/andy/invoicewiz/internal/domain"
	"github.com/andy/invoicewiz/internal/validation"
	"github.com/shopspring/decimal"
)

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// parseDate accepts YYYY-MM-DD, "today" and "yesterday"
func parseDate(s string, now time.Time) (time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch s {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	t, err := validation.ParseDate(s, now.Location())
	if err != nil || t == nil {
		return time.Time{}, fmt.Errorf("expected format: YYYY-MM-DD, 'today', or 'yesterday'")
	}
	return *t, nil
}

func formatMoney(d decimal.Decimal, currency string) string {
	return strings.TrimSpace(d.StringFixed(2) + " " + currency)
}

func printInvoiceTable(w io.Writer, invoices []*domain.Invoice) {
	fmt.Fprintf(w, "%-5s %-15s %-24s %-12s %14s %-8s\n", "ID", "Number", "Client", "Date", "Gross", "Status")
	fmt.Fprintln(w, strings.Repeat("-", 84))
	for _, inv := range invoices {
		fmt.Fprintf(w, "%-5d %-15s %-24s %-12s %14s %-8s\n",
			inv.ID,
			truncate(inv.Number, 15),
			truncate(inv.Draft.Client.ClientName, 24),
			inv.Draft.Client.BillDate.Format(validation.DateLayout),
			formatMoney(inv.GrossTotal, inv.Currency),
			inv.Status,
		)
	}
}

func printInvoice(w io.Writer, inv *domain.Invoice) {
	c := inv.Draft.Client
	is := inv.Draft.Issuer

	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintf(w, "Invoice: %s (#%d)\n", inv.Number, inv.ID)
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintf(w, "From:    %s, %s, %s %s\n", is.Name, is.Address, is.Postcode, is.Country)
	fmt.Fprintf(w, "To:      %s\n", strings.Join(nonEmpty(c.ClientName, c.ClientAddress, strings.TrimSpace(c.ClientPostcode+" "+c.ClientCountry)), ", "))
	if c.Subject != "" {
		fmt.Fprintf(w, "Subject: %s\n", c.Subject)
	}
	fmt.Fprintf(w, "Date:    %s (delivered %s)\n", c.BillDate.Format(validation.DateLayout), c.DeliveryDate.Format(validation.DateLayout))
	if c.BillDueDate != nil {
		fmt.Fprintf(w, "Due:     %s\n", c.BillDueDate.Format(validation.DateLayout))
	}
	fmt.Fprintf(w, "Status:  %s\n", inv.Status)
	if inv.SentAt != nil {
		fmt.Fprintf(w, "Sent:    %s\n", inv.SentAt.Format(validation.DateLayout))
	}
	if inv.PaidAt != nil {
		fmt.Fprintf(w, "Paid:    %s\n", inv.PaidAt.Format(validation.DateLayout))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Positions:")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	fmt.Fprintf(w, "%-30s %8s %-8s %10s %6s %6s %10s\n", "Name", "Qty", "Unit", "Price", "Tax%", "Disc%", "Gross")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, p := range inv.Draft.Positions {
		fmt.Fprintf(w, "%-30s %8s %-8s %10.2f %6s %6s %10.2f\n",
			truncate(p.Name, 30),
			validation.FormatNumber(p.Amount),
			truncate(p.Unit, 8),
			p.UnitPrice,
			validation.FormatNumber(p.TaxPercent),
			validation.FormatNumber(p.DiscountPercent),
			p.GrossAmount,
		)
	}
	fmt.Fprintln(w, strings.Repeat("-", 80))

	fmt.Fprintf(w, "Net:   %s\n", formatMoney(inv.NetTotal, inv.Currency))
	for _, s := range inv.Draft.Totals().Shares {
		fmt.Fprintf(w, "Tax %s%%: %s\n", s.Percent.String(), formatMoney(s.Tax, inv.Currency))
	}
	fmt.Fprintf(w, "Gross: %s\n", formatMoney(inv.GrossTotal, inv.Currency))
	fmt.Fprintln(w, strings.Repeat("=", 80))
}

func nonEmpty(parts ...string) []string {
	var out []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}
