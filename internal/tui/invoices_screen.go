package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andy/invoicewiz/internal/app"
	"github.com/andy/invoicewiz/internal/domain"
	"github.com/andy/invoicewiz/internal/pricing"
	"github.com/andy/invoicewiz/internal/validation"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type invoiceViewMode int

const (
	invoiceViewList   invoiceViewMode = iota
	invoiceViewDetail                 // Viewing a single invoice
)

// InvoicesModel displays stored invoices in list and detail views
type InvoicesModel struct {
	app       *app.App
	mode      invoiceViewMode
	invoices  []*domain.Invoice
	cursor    int
	selected  *domain.Invoice
	loading   bool
	err       error
	statusMsg string
	now       func() time.Time
}

type invoicesDataMsg struct {
	invoices []*domain.Invoice
	err      error
}

type invoiceDetailMsg struct {
	invoice *domain.Invoice
	err     error
}

// invoiceActionMsg reports the outcome of export, mark sent or mark paid
type invoiceActionMsg struct {
	invoice *domain.Invoice
	status  string
	err     error
}

// NewInvoicesModel creates a new invoices screen model
func NewInvoicesModel(a *app.App) tea.Model {
	return &InvoicesModel{
		app:     a,
		mode:    invoiceViewList,
		loading: true,
		now:     time.Now,
	}
}

func (m *InvoicesModel) Init() tea.Cmd {
	return m.loadInvoices()
}

func (m *InvoicesModel) loadInvoices() tea.Cmd {
	svc := m.app.InvoiceService
	return func() tea.Msg {
		invoices, err := svc.List(context.Background(), nil)
		return invoicesDataMsg{invoices: invoices, err: err}
	}
}

func (m *InvoicesModel) loadDetail(id int64) tea.Cmd {
	svc := m.app.InvoiceService
	return func() tea.Msg {
		invoice, err := svc.Get(context.Background(), id)
		return invoiceDetailMsg{invoice: invoice, err: err}
	}
}

func (m *InvoicesModel) export(inv *domain.Invoice) tea.Cmd {
	svc := m.app.InvoiceService
	dir := m.app.Config.Invoice.OutputDir
	return func() tea.Msg {
		path, err := svc.Export(context.Background(), inv.ID, dir)
		if err != nil {
			return invoiceActionMsg{err: err}
		}
		return invoiceActionMsg{invoice: inv, status: "Exported to " + path}
	}
}

func (m *InvoicesModel) markSent(inv *domain.Invoice) tea.Cmd {
	svc := m.app.InvoiceService
	at := m.now()
	return func() tea.Msg {
		updated, err := svc.MarkSent(context.Background(), inv.ID, at)
		if err != nil {
			return invoiceActionMsg{err: err}
		}
		return invoiceActionMsg{invoice: updated, status: fmt.Sprintf("Invoice %s marked as sent", updated.Number)}
	}
}

func (m *InvoicesModel) markPaid(inv *domain.Invoice) tea.Cmd {
	svc := m.app.InvoiceService
	at := m.now()
	return func() tea.Msg {
		updated, err := svc.MarkPaid(context.Background(), inv.ID, at)
		if err != nil {
			return invoiceActionMsg{err: err}
		}
		return invoiceActionMsg{invoice: updated, status: fmt.Sprintf("Invoice %s marked as paid", updated.Number)}
	}
}

func (m *InvoicesModel) checkOverdue() tea.Cmd {
	svc := m.app.InvoiceService
	now := m.now()
	return func() tea.Msg {
		overdue, err := svc.CheckOverdue(context.Background(), now)
		if err != nil {
			return invoiceActionMsg{err: err}
		}
		return invoiceActionMsg{status: fmt.Sprintf("%d invoice(s) overdue", len(overdue))}
	}
}

func (m *InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadInvoices()

	case invoicesDataMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.invoices = msg.invoices
		m.err = nil
		if m.cursor >= len(m.invoices) && len(m.invoices) > 0 {
			m.cursor = len(m.invoices) - 1
		}
		return m, nil

	case invoiceDetailMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.selected = msg.invoice
		m.mode = invoiceViewDetail
		return m, nil

	case invoiceActionMsg:
		if msg.err != nil {
			m.err = msg.err
			m.statusMsg = ""
			return m, nil
		}
		m.err = nil
		m.statusMsg = msg.status
		if msg.invoice != nil && m.selected != nil && m.selected.ID == msg.invoice.ID {
			m.selected = msg.invoice
		}
		return m, m.loadInvoices()

	case tea.KeyMsg:
		m.err = nil
		switch m.mode {
		case invoiceViewList:
			return m.updateList(msg)
		case invoiceViewDetail:
			return m.updateDetail(msg)
		}
	}

	return m, nil
}

func (m *InvoicesModel) current() *domain.Invoice {
	if m.mode == invoiceViewDetail {
		return m.selected
	}
	if m.cursor < len(m.invoices) {
		return m.invoices[m.cursor]
	}
	return nil
}

// updateActions handles the keys shared by list and detail views.
func (m *InvoicesModel) updateActions(msg tea.KeyMsg) (tea.Cmd, bool) {
	inv := m.current()
	switch {
	case key.Matches(msg, DefaultKeyMap.Overdue):
		return m.checkOverdue(), true
	case inv == nil:
		return nil, false
	case key.Matches(msg, DefaultKeyMap.Export):
		return m.export(inv), true
	case key.Matches(msg, DefaultKeyMap.MarkSent):
		return m.markSent(inv), true
	case key.Matches(msg, DefaultKeyMap.MarkPaid):
		return m.markPaid(inv), true
	}
	return nil, false
}

func (m *InvoicesModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, DefaultKeyMap.Down):
		if m.cursor < len(m.invoices)-1 {
			m.cursor++
		}
	case key.Matches(msg, DefaultKeyMap.Select):
		if inv := m.current(); inv != nil {
			m.statusMsg = ""
			return m, m.loadDetail(inv.ID)
		}
	default:
		if cmd, ok := m.updateActions(msg); ok {
			return m, cmd
		}
	}
	return m, nil
}

func (m *InvoicesModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, DefaultKeyMap.Back) {
		m.mode = invoiceViewList
		m.selected = nil
		m.statusMsg = ""
		return m, nil
	}
	if cmd, ok := m.updateActions(msg); ok {
		return m, cmd
	}
	return m, nil
}

func (m *InvoicesModel) View() string {
	if m.mode == invoiceViewDetail && m.selected != nil {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m *InvoicesModel) viewStatus() string {
	var s string
	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}
	return s
}

func (m *InvoicesModel) viewList() string {
	var s string
	s += titleStyle.Render("Invoices") + "\n\n"
	s += m.viewStatus()

	if m.loading {
		return s + subtitleStyle.Render("  Loading...")
	}

	if len(m.invoices) == 0 {
		s += subtitleStyle.Render("  No invoices yet. Create one in the wizard (w).") + "\n"
		return s
	}

	header := fmt.Sprintf("  %-14s %-24s %-10s %-10s %16s  %s",
		"Number", "Client", "Date", "Due", "Gross", "Status")
	s += subtitleStyle.Render(header) + "\n"

	for i, inv := range m.invoices {
		c := inv.Draft.Client
		due := ""
		if c.BillDueDate != nil {
			due = validation.FormatDate(*c.BillDueDate)
		}
		row := fmt.Sprintf("  %-14s %-24s %-10s %-10s %16s  ",
			truncateStr(inv.Number, 14),
			truncateStr(c.ClientName, 24),
			validation.FormatDate(c.BillDate),
			due,
			formatMoney(inv.GrossTotal, inv.Currency),
		)
		if i == m.cursor {
			s += selectedStyle.Render(row+string(inv.Status)) + "\n"
		} else {
			s += row + statusBadge(inv.Status) + "\n"
		}
	}

	s += "\n" + helpStyle.Render("  ↑/↓: navigate  enter: details  e: export pdf  s: mark sent  p: mark paid  o: check overdue")
	return s
}

func (m *InvoicesModel) viewDetail() string {
	inv := m.selected
	c := inv.Draft.Client
	is := inv.Draft.Issuer

	var s string
	s += titleStyle.Render("Invoice "+inv.Number) + "  " + statusBadge(inv.Status) + "\n\n"
	s += m.viewStatus()

	labelStyle := lipgloss.NewStyle().Bold(true).Width(16)
	line := func(label, value string) {
		if value != "" {
			s += fmt.Sprintf("  %s %s\n", labelStyle.Render(label), value)
		}
	}

	line("From:", is.Name)
	line("To:", c.ClientName)
	line("Subject:", c.Subject)
	line("Bill number:", c.BillNumber)
	line("Bill date:", validation.FormatDate(c.BillDate))
	line("Delivery date:", validation.FormatDate(c.DeliveryDate))
	if c.BillDueDate != nil {
		line("Due date:", validation.FormatDate(*c.BillDueDate))
	}
	if inv.SentAt != nil {
		line("Sent:", validation.FormatDate(*inv.SentAt))
	}
	if inv.PaidAt != nil {
		line("Paid:", validation.FormatDate(*inv.PaidAt))
	}
	s += "\n"

	header := fmt.Sprintf("  %-28s %8s %-6s %14s %6s %6s %16s",
		"Position", "Qty", "Unit", "Unit price", "Tax%", "Disc%", "Gross")
	s += subtitleStyle.Render(header) + "\n"
	s += subtitleStyle.Render("  "+strings.Repeat("-", len(header)-2)) + "\n"
	for _, p := range inv.Draft.Positions {
		s += fmt.Sprintf("  %-28s %8s %-6s %14s %6s %6s %16s\n",
			truncateStr(p.Name, 28),
			validation.FormatNumber(p.Amount),
			truncateStr(p.Unit, 6),
			formatMoney(pricing.Round(p.UnitPrice), p.Currency),
			validation.FormatNumber(p.TaxPercent),
			validation.FormatNumber(p.DiscountPercent),
			formatMoney(pricing.Round(p.GrossAmount), p.Currency),
		)
	}

	s += "\n"
	totalStyle := lipgloss.NewStyle().Width(20)
	s += fmt.Sprintf("  %s %s\n", totalStyle.Render("Net:"), formatMoney(inv.NetTotal, inv.Currency))
	for _, share := range inv.Draft.Totals().Shares {
		s += fmt.Sprintf("  %s %s\n", totalStyle.Render("Tax "+share.Percent.String()+"%:"), formatMoney(share.Tax, inv.Currency))
	}
	s += fmt.Sprintf("  %s %s\n", totalStyle.Bold(true).Render("Total:"),
		lipgloss.NewStyle().Bold(true).Foreground(primaryColor).Render(formatMoney(inv.GrossTotal, inv.Currency)))

	s += "\n" + helpStyle.Render("  e: export pdf  s: mark sent  p: mark paid  esc: back")
	return s
}

func statusBadge(status domain.InvoiceStatus) string {
	style := lipgloss.NewStyle().Bold(true)
	switch status {
	case domain.InvoiceStatusIssued:
		style = style.Foreground(mutedColor)
	case domain.InvoiceStatusSent:
		style = style.Foreground(primaryColor)
	case domain.InvoiceStatusPaid:
		style = style.Foreground(successColor)
	case domain.InvoiceStatusOverdue:
		style = style.Foreground(errorColor)
	}
	return style.Render(string(status))
}
