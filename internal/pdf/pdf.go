// Package pdf renders issued invoices as A4 documents.
package pdf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/andy/invoicewiz/internal/domain"
	"github.com/andy/invoicewiz/internal/i18n"
	"github.com/andy/invoicewiz/internal/pricing"
	"github.com/jung-kurt/gofpdf"
)

const (
	font       = "Helvetica"
	margin     = 20.0
	lineHeight = 5.0
)

// column widths of the positions table, summing to the printable width
var columns = []struct {
	key   string
	width float64
	align string
}{
	{"pdf.position", 52, "L"},
	{"pdf.amount", 16, "R"},
	{"pdf.unit", 18, "L"},
	{"pdf.unitPrice", 24, "R"},
	{"pdf.tax", 16, "R"},
	{"pdf.discount", 18, "R"},
	{"pdf.gross", 26, "R"},
}

// Renderer lays out invoices with labels from one catalog. The catalog may
// be switched while another goroutine renders.
type Renderer struct {
	mu         sync.RWMutex
	msgs       i18n.Messages
	dateLayout string
}

// layout is the state of a single render.
type layout struct {
	msgs       i18n.Messages
	dateLayout string
}

// New creates a Renderer. Dates are printed as 2006-01-02.
func New(msgs i18n.Messages) *Renderer {
	return &Renderer{msgs: msgs, dateLayout: "2006-01-02"}
}

// SetMessages switches the catalog used for labels.
func (r *Renderer) SetMessages(msgs i18n.Messages) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = msgs
}

func (r *Renderer) snapshot() *layout {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &layout{msgs: r.msgs, dateLayout: r.dateLayout}
}

// WriteFile renders inv to path, creating parent directories.
func (r *Renderer) WriteFile(path string, inv *domain.Invoice) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := r.Render(f, inv); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// Render writes the invoice document to w.
func (r *Renderer) Render(w io.Writer, inv *domain.Invoice) error {
	l := r.snapshot()
	doc := gofpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(true, 30)
	doc.SetTitle(tr(l.msgs.T("pdf.invoice")+" "+inv.Number), false)
	doc.SetFooterFunc(func() { l.footer(doc, tr, inv.Draft.Issuer) })

	doc.AddPage()
	l.header(doc, tr, inv)
	l.positions(doc, tr, inv)
	l.totals(doc, tr, inv)

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("failed to render invoice %s: %w", inv.Number, err)
	}
	return nil
}

func (r *layout) header(doc *gofpdf.Fpdf, tr func(string) string, inv *domain.Invoice) {
	is := inv.Draft.Issuer
	c := inv.Draft.Client

	// sender line above the address window
	doc.SetFont(font, "", 7)
	doc.CellFormat(0, lineHeight, tr(joinNonEmpty(" - ", is.Name, is.Address, strings.TrimSpace(is.Postcode+" "+is.Country))), "B", 1, "L", false, 0, "")
	doc.Ln(2)

	top := doc.GetY()
	doc.SetFont(font, "", 10)
	for _, line := range []string{c.ClientName, c.ClientAddress, strings.TrimSpace(c.ClientPostcode + " " + c.ClientCountry)} {
		if line != "" {
			doc.CellFormat(90, lineHeight, tr(line), "", 1, "L", false, 0, "")
		}
	}
	if c.TaxNumber != "" {
		doc.CellFormat(90, lineHeight, tr(r.msgs.T("pdf.taxNumber")+": "+c.TaxNumber), "", 1, "L", false, 0, "")
	}
	bottom := doc.GetY()

	details := [][2]string{
		{r.msgs.T("pdf.number"), inv.Number},
		{r.msgs.T("pdf.billDate"), r.date(c.BillDate)},
		{r.msgs.T("pdf.deliveryDate"), r.date(c.DeliveryDate)},
	}
	if c.BillDueDate != nil {
		details = append(details, [2]string{r.msgs.T("pdf.dueDate"), r.date(*c.BillDueDate)})
	}
	doc.SetY(top)
	for _, d := range details {
		doc.SetX(120)
		doc.CellFormat(35, lineHeight, tr(d[0]), "", 0, "L", false, 0, "")
		doc.CellFormat(35, lineHeight, tr(d[1]), "", 1, "R", false, 0, "")
	}
	if doc.GetY() < bottom {
		doc.SetY(bottom)
	}
	doc.Ln(10)

	doc.SetFont(font, "B", 14)
	title := r.msgs.T("pdf.invoice") + " " + inv.Number
	doc.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
	if c.Subject != "" {
		doc.SetFont(font, "B", 10)
		doc.CellFormat(0, lineHeight, tr(c.Subject), "", 1, "L", false, 0, "")
	}
	doc.Ln(3)

	doc.SetFont(font, "", 10)
	doc.MultiCell(0, lineHeight, tr(inv.Draft.Text), "", "L", false)
	doc.Ln(5)
}

func (r *layout) positions(doc *gofpdf.Fpdf, tr func(string) string, inv *domain.Invoice) {
	doc.SetFont(font, "B", 9)
	doc.SetFillColor(235, 235, 235)
	for _, col := range columns {
		doc.CellFormat(col.width, 7, tr(r.msgs.T(col.key)), "B", 0, col.align, true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont(font, "", 9)
	for _, p := range inv.Draft.Positions {
		cells := []string{
			p.Name,
			trimFloat(p.Amount),
			p.Unit,
			money(pricing.Round(p.UnitPrice).StringFixed(2), p.Currency),
			trimFloat(p.TaxPercent),
			trimFloat(p.DiscountPercent),
			money(pricing.Round(p.GrossAmount).StringFixed(2), p.Currency),
		}
		for i, col := range columns {
			doc.CellFormat(col.width, 6, tr(cells[i]), "", 0, col.align, false, 0, "")
		}
		doc.Ln(-1)
	}
	doc.Ln(2)
}

func (r *layout) totals(doc *gofpdf.Fpdf, tr func(string) string, inv *domain.Invoice) {
	sum := inv.Draft.Totals()
	row := func(label, value string, style string) {
		doc.SetFont(font, style, 10)
		doc.SetX(110)
		doc.CellFormat(45, 6, tr(label), "", 0, "L", false, 0, "")
		doc.CellFormat(35, 6, tr(value), "", 1, "R", false, 0, "")
	}

	row(r.msgs.T("pdf.net"), money(inv.NetTotal.StringFixed(2), inv.Currency), "")
	for _, s := range sum.Shares {
		row(r.msgs.T("pdf.taxLine", s.Percent.String()), money(s.Tax.StringFixed(2), inv.Currency), "")
	}
	doc.SetX(110)
	doc.CellFormat(80, 1, "", "T", 1, "", false, 0, "")
	row(r.msgs.T("pdf.total"), money(inv.GrossTotal.StringFixed(2), inv.Currency), "B")
}

func (r *layout) footer(doc *gofpdf.Fpdf, tr func(string) string, is domain.Issuer) {
	doc.SetY(-25)
	doc.SetFont(font, "", 7)
	doc.SetDrawColor(180, 180, 180)

	contact := joinNonEmpty(" - ", is.Name, is.Email, is.Website)
	if is.TaxNumber != "" {
		contact = joinNonEmpty(" - ", contact, r.msgs.T("pdf.taxNumber")+": "+is.TaxNumber)
	}
	doc.CellFormat(0, 4, tr(contact), "T", 1, "C", false, 0, "")

	if is.HasBankDetails() {
		var bank []string
		if is.BankName != "" {
			bank = append(bank, r.msgs.T("pdf.bank")+": "+is.BankName)
		}
		if is.IBAN != "" {
			bank = append(bank, r.msgs.T("pdf.iban")+": "+is.IBAN)
		}
		if is.BIC != "" {
			bank = append(bank, r.msgs.T("pdf.bic")+": "+is.BIC)
		}
		doc.CellFormat(0, 4, tr(strings.Join(bank, " - ")), "", 1, "C", false, 0, "")
	}
}

func (r *layout) date(t time.Time) string {
	return t.Format(r.dateLayout)
}

func money(amount, currency string) string {
	if currency == "" {
		return amount
	}
	return amount + " " + currency
}

func trimFloat(v float64) string {
	return pricing.Round(v).String()
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
