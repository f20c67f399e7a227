package tui

import (
	"fmt"
	"strings"

	"github.com/andy/invoicewiz/internal/domain"
	"github.com/andy/invoicewiz/internal/i18n"
	"github.com/andy/invoicewiz/internal/pricing"
	"github.com/andy/invoicewiz/internal/validation"
	"github.com/charmbracelet/glamour"
)

// reviewMarkdown summarizes a completed draft for the confirmation view.
func reviewMarkdown(d domain.Draft, msgs i18n.Messages, fallbackCurrency string) string {
	currency := d.Currency(fallbackCurrency)
	var b strings.Builder

	is := d.Issuer
	fmt.Fprintf(&b, "## %s\n\n", msgs.T("wizard.subTitle.stepOne"))
	fmt.Fprintf(&b, "**%s**  \n", md(is.Name))
	fmt.Fprintf(&b, "%s  \n", md(joinParts(is.Address, is.Postcode, is.Country)))
	fmt.Fprintf(&b, "%s: %s  \n", msgs.T("wizard.issuer.taxNumber"), md(is.TaxNumber))
	if is.Email != "" {
		fmt.Fprintf(&b, "%s: %s  \n", msgs.T("wizard.issuer.email"), md(is.Email))
	}
	if is.HasBankDetails() {
		fmt.Fprintf(&b, "%s  \n", md(joinParts(is.BankName, is.IBAN, is.BIC)))
	}

	c := d.Client
	fmt.Fprintf(&b, "\n## %s\n\n", msgs.T("wizard.subTitle.stepTwo"))
	fmt.Fprintf(&b, "**%s**  \n", md(c.ClientName))
	fmt.Fprintf(&b, "%s  \n", md(joinParts(c.ClientAddress, c.ClientPostcode, c.ClientCountry)))
	if c.Subject != "" {
		fmt.Fprintf(&b, "%s: %s  \n", msgs.T("wizard.client.subject"), md(c.Subject))
	}
	fmt.Fprintf(&b, "%s: %s  \n", msgs.T("wizard.client.billNumber"), md(c.BillNumber))
	fmt.Fprintf(&b, "%s: %s  \n", msgs.T("wizard.client.billDate"), validation.FormatDate(c.BillDate))
	fmt.Fprintf(&b, "%s: %s  \n", msgs.T("wizard.client.deliveryDate"), validation.FormatDate(c.DeliveryDate))
	if c.BillDueDate != nil {
		fmt.Fprintf(&b, "%s: %s  \n", msgs.T("wizard.client.billDueDate"), validation.FormatDate(*c.BillDueDate))
	}

	fmt.Fprintf(&b, "\n## %s\n\n", msgs.T("wizard.subTitle.stepThree"))
	for _, line := range strings.Split(d.Text, "\n") {
		fmt.Fprintf(&b, "%s  \n", md(line))
	}

	fmt.Fprintf(&b, "\n## %s\n\n", msgs.T("wizard.subTitle.stepFour"))
	fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
		msgs.T("pdf.position"), msgs.T("pdf.amount"), msgs.T("pdf.unit"), msgs.T("pdf.unitPrice"),
		msgs.T("pdf.tax"), msgs.T("pdf.discount"), msgs.T("pdf.gross"))
	b.WriteString("|---|---:|---|---:|---:|---:|---:|\n")
	for _, p := range d.Positions {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			md(p.Name),
			validation.FormatNumber(p.Amount),
			md(p.Unit),
			formatMoney(pricing.Round(p.UnitPrice), p.Currency),
			validation.FormatNumber(p.TaxPercent),
			validation.FormatNumber(p.DiscountPercent),
			formatMoney(pricing.Round(p.GrossAmount), p.Currency),
		)
	}

	sum := d.Totals()
	fmt.Fprintf(&b, "\n| | |\n|---|---:|\n")
	fmt.Fprintf(&b, "| %s | %s |\n", msgs.T("pdf.net"), formatMoney(sum.Net, currency))
	for _, share := range sum.Shares {
		fmt.Fprintf(&b, "| %s | %s |\n", msgs.T("pdf.taxLine", share.Percent.String()), formatMoney(share.Tax, currency))
	}
	fmt.Fprintf(&b, "| **%s** | **%s** |\n", msgs.T("pdf.total"), formatMoney(sum.Gross, currency))

	return b.String()
}

// renderMarkdown renders in for the terminal with a glamour standard style.
func renderMarkdown(in, style string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(in)
}

// md escapes characters that would break table cells or emphasis.
func md(s string) string {
	return strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`).Replace(s)
}

func joinParts(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
