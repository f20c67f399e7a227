package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andy/invoicewiz/internal/app"
	"github.com/andy/invoicewiz/internal/config"
	"github.com/andy/invoicewiz/internal/domain"
	"github.com/andy/invoicewiz/internal/i18n"
	"github.com/andy/invoicewiz/internal/pricing"
	"github.com/andy/invoicewiz/internal/validation"
	"github.com/andy/invoicewiz/internal/wizard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type wizardMode int

const (
	wizardModeLoading wizardMode = iota
	wizardModeForm
	wizardModeReview
	wizardModeIssued
)

// Form keys per step, in display order. They match the form tags of the
// domain types so validation errors map back onto inputs.
var (
	issuerFields = []string{
		"name", "address", "postcode", "country", "taxNumber",
		"email", "website", "bankName", "iban", "bic",
	}
	clientFields = []string{
		"clientName", "clientAddress", "clientPostcode", "clientCountry", "subject",
		"billNumber", "billDate", "deliveryDate", "billDueDate", "taxnumber",
	}
	positionFields = []string{
		"name", "amount", "unit", "unitPrice", "currency", "taxPercent", "discountPercent",
	}
)

var placeholders = map[string]string{
	"email":           "name@example.com",
	"website":         "https://example.com",
	"iban":            "DE89 3704 0044 0532 0130 00",
	"billDate":        "YYYY-MM-DD",
	"deliveryDate":    "YYYY-MM-DD",
	"billDueDate":     "YYYY-MM-DD",
	"amount":          "1",
	"unitPrice":       "0.00",
	"taxPercent":      "19",
	"discountPercent": "0",
}

// formField is one labelled input of a step form.
type formField struct {
	name  string
	input textinput.Model
}

// positionForm holds the inputs of one line item and its derived gross.
type positionForm struct {
	fields []formField
	gross  float64
}

// WizardModel hosts one invoice-creation session
type WizardModel struct {
	app        *app.App
	validator  *validation.Validator
	msgs       i18n.Messages
	steps      map[wizard.Step]i18n.StepMessages
	baseLogger *zap.Logger
	logger     *zap.Logger
	machine    *wizard.Machine
	now        func() time.Time

	mode       wizardMode
	fields     []formField
	text       textarea.Model
	positions  []positionForm
	posCursor  int
	fieldFocus int
	touched    map[string]bool
	attempted  bool
	errs       validation.Errors

	reviewStyle string
	review      string
	busy        bool
	issued      *domain.Invoice
	issuedPath  string
	err         error
}

// NewWizardModel creates the wizard screen. The session starts once the
// issuer prefill has been loaded.
func NewWizardModel(a *app.App) tea.Model {
	logger := a.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &WizardModel{
		app:         a,
		validator:   validation.New(),
		baseLogger:  logger,
		logger:      logger,
		now:         time.Now,
		mode:        wizardModeLoading,
		reviewStyle: "dark",
		touched:     make(map[string]bool),
		errs:        validation.Errors{},
	}
	m.SetMessages(a.Messages)
	return m
}

// SetMessages switches the catalog the screen renders with.
func (m *WizardModel) SetMessages(msgs i18n.Messages) {
	m.msgs = msgs
	m.steps = resolveSteps(msgs)
	if m.mode == wizardModeReview && m.machine != nil {
		m.renderReview(m.machine.Draft())
	}
}

func resolveSteps(msgs i18n.Messages) map[wizard.Step]i18n.StepMessages {
	labels := map[wizard.Step][]string{
		wizard.StepIssuer:    labelKeys("wizard.issuer", issuerFields),
		wizard.StepClient:    labelKeys("wizard.client", clientFields),
		wizard.StepText:      {"wizard.text.text"},
		wizard.StepPositions: append(labelKeys("wizard.positions", positionFields), "wizard.positions.grossAmount"),
	}
	out := make(map[wizard.Step]i18n.StepMessages, wizard.StepCount+1)
	for _, info := range wizard.Steps() {
		out[info.Step] = msgs.Step(info.SubTitleKey, labels[info.Step]...)
	}
	out[wizard.StepDone] = msgs.Step("wizard.subTitle.review")
	return out
}

func labelKeys(prefix string, fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = prefix + "." + f
	}
	return out
}

// IsCapturingInput returns true while a step form is shown
func (m *WizardModel) IsCapturingInput() bool {
	return m.mode == wizardModeForm
}

func (m *WizardModel) Init() tea.Cmd {
	return m.loadPrefill()
}

// loadPrefill resolves the issuer for step one: the remembered profile when
// enabled, otherwise the issuer section of the config.
func (m *WizardModel) loadPrefill() tea.Cmd {
	svc := m.app.InvoiceService
	cfg := m.app.Config
	logger := m.baseLogger
	return func() tea.Msg {
		issuer := cfg.Issuer.Domain()
		if cfg.Invoice.RememberIssuer && svc != nil {
			last, err := svc.LastIssuer(context.Background())
			if err != nil {
				logger.Warn("failed to load remembered issuer", zap.Error(err))
			} else if last != nil {
				issuer = *last
			}
		}
		return prefillMsg{issuer: issuer}
	}
}

func (m *WizardModel) start(issuer domain.Issuer) tea.Cmd {
	now := m.now()
	draft := domain.NewDraft(now, m.msgs.T("invoice.defaultText"))
	draft.Issuer = issuer
	if days := m.app.Config.Invoice.DefaultDueDays; days > 0 {
		due := now.AddDate(0, 0, days)
		draft.Client.BillDueDate = &due
	}

	m.logger = m.baseLogger.With(zap.String("session", uuid.NewString()))
	m.machine = wizard.NewMachine(draft,
		wizard.WithLogger(m.logger),
		wizard.WithCompletionHandler(m.onComplete),
	)
	m.issued = nil
	m.issuedPath = ""
	m.err = nil
	m.logger.Debug("wizard session started")
	return m.loadStep()
}

func (m *WizardModel) onComplete(draft domain.Draft) {
	m.mode = wizardModeReview
	m.renderReview(draft)
}

// loadStep rebuilds the form of the current step from the draft.
func (m *WizardModel) loadStep() tea.Cmd {
	d := m.machine.Draft()
	m.mode = wizardModeForm
	m.fields = nil
	m.positions = nil
	m.posCursor = 0
	m.fieldFocus = 0
	m.touched = make(map[string]bool)
	m.attempted = false

	switch m.machine.Step() {
	case wizard.StepIssuer:
		m.fields = newFields(issuerFields, issuerValues(d.Issuer))
	case wizard.StepClient:
		m.fields = newFields(clientFields, clientValues(d.Client))
	case wizard.StepText:
		m.text = newTextArea(d.Text)
	case wizard.StepPositions:
		for _, p := range d.Positions {
			m.positions = append(m.positions, newPositionForm(positionValues(p), p.GrossAmount))
		}
	}

	m.validate()
	return m.focus()
}

func newInput(name, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholders[name]
	ti.CharLimit = 120
	ti.Width = 40
	ti.SetValue(value)
	return ti
}

func newFields(names, values []string) []formField {
	out := make([]formField, len(names))
	for i, name := range names {
		out[i] = formField{name: name, input: newInput(name, values[i])}
	}
	return out
}

func newTextArea(value string) textarea.Model {
	ta := textarea.New()
	ta.SetWidth(60)
	ta.SetHeight(6)
	ta.CharLimit = 2000
	ta.ShowLineNumbers = false
	ta.SetValue(value)
	return ta
}

func newPositionForm(values []string, gross float64) positionForm {
	return positionForm{fields: newFields(positionFields, values), gross: gross}
}

func issuerValues(is domain.Issuer) []string {
	return []string{
		is.Name, is.Address, is.Postcode, is.Country, is.TaxNumber,
		is.Email, is.Website, is.BankName, is.IBAN, is.BIC,
	}
}

func clientValues(c domain.ClientDetails) []string {
	due := ""
	if c.BillDueDate != nil {
		due = validation.FormatDate(*c.BillDueDate)
	}
	return []string{
		c.ClientName, c.ClientAddress, c.ClientPostcode, c.ClientCountry, c.Subject,
		c.BillNumber, validation.FormatDate(c.BillDate), validation.FormatDate(c.DeliveryDate), due, c.TaxNumber,
	}
}

func positionValues(li domain.LineItem) []string {
	return []string{
		li.Name,
		validation.FormatNumber(li.Amount),
		li.Unit,
		validation.FormatNumber(li.UnitPrice),
		li.Currency,
		validation.FormatNumber(li.TaxPercent),
		validation.FormatNumber(li.DiscountPercent),
	}
}

// positionDefaults fills a new position from the invoice defaults. The
// price is left for the user.
func positionDefaults(cfg config.InvoiceConfig) []string {
	return []string{"", "1", cfg.DefaultUnit, "", cfg.Currency, validation.FormatNumber(cfg.DefaultTaxPercent), ""}
}

func fieldValue(fields []formField, name string) string {
	for _, f := range fields {
		if f.name == name {
			return f.input.Value()
		}
	}
	return ""
}

// activeFields returns the inputs that currently take focus. The text step
// has none; its textarea is handled separately.
func (m *WizardModel) activeFields() []formField {
	switch m.machine.Step() {
	case wizard.StepIssuer, wizard.StepClient:
		return m.fields
	case wizard.StepPositions:
		if len(m.positions) == 0 {
			return nil
		}
		return m.positions[m.posCursor].fields
	}
	return nil
}

// fieldKey maps an input name to its validation key.
func (m *WizardModel) fieldKey(name string) string {
	if m.machine.Step() == wizard.StepPositions {
		return fmt.Sprintf("positions.%d.%s", m.posCursor, name)
	}
	return name
}

func (m *WizardModel) focus() tea.Cmd {
	if m.machine.Step() == wizard.StepText {
		return m.text.Focus()
	}
	fields := m.activeFields()
	if len(fields) == 0 {
		return nil
	}
	return fields[m.fieldFocus].input.Focus()
}

func (m *WizardModel) blur() {
	if m.machine.Step() == wizard.StepText {
		m.text.Blur()
		return
	}
	if fields := m.activeFields(); len(fields) > 0 {
		fields[m.fieldFocus].input.Blur()
	}
}

// collect reads the current form into a submit action and validates it.
func (m *WizardModel) collect() (wizard.Action, validation.Errors) {
	parseErrs := validation.Errors{}

	var a wizard.Action
	switch m.machine.Step() {
	case wizard.StepIssuer:
		a = wizard.SubmitIssuer{Issuer: m.readIssuer()}
	case wizard.StepClient:
		a = wizard.SubmitClient{Client: m.readClient(parseErrs)}
	case wizard.StepText:
		a = wizard.SubmitText{Text: m.text.Value()}
	case wizard.StepPositions:
		a = wizard.SubmitPositions{Positions: m.readPositions(parseErrs)}
	default:
		return nil, validation.Errors{}
	}

	errs := m.validator.Step(a)
	for k, r := range parseErrs {
		errs[k] = r
	}
	return a, errs
}

func (m *WizardModel) readIssuer() domain.Issuer {
	v := func(name string) string { return fieldValue(m.fields, name) }
	return domain.Issuer{
		Name:      v("name"),
		Address:   v("address"),
		Postcode:  v("postcode"),
		Country:   v("country"),
		TaxNumber: v("taxNumber"),
		Email:     v("email"),
		Website:   v("website"),
		BankName:  v("bankName"),
		IBAN:      v("iban"),
		BIC:       v("bic"),
	}.Normalize()
}

func (m *WizardModel) readClient(errs validation.Errors) domain.ClientDetails {
	v := func(name string) string { return fieldValue(m.fields, name) }
	date := func(name string) *time.Time {
		t, err := validation.ParseDate(v(name), time.Local)
		if err != nil {
			errs[name] = validation.Rule{Tag: "date"}
			return nil
		}
		return t
	}

	c := domain.ClientDetails{
		ClientName:     v("clientName"),
		ClientAddress:  v("clientAddress"),
		ClientPostcode: v("clientPostcode"),
		ClientCountry:  v("clientCountry"),
		Subject:        v("subject"),
		BillNumber:     v("billNumber"),
		BillDueDate:    date("billDueDate"),
		TaxNumber:      v("taxnumber"),
	}
	if t := date("billDate"); t != nil {
		c.BillDate = *t
	}
	if t := date("deliveryDate"); t != nil {
		c.DeliveryDate = *t
	}
	return c.Normalize()
}

func (m *WizardModel) readPositions(errs validation.Errors) []domain.LineItem {
	items := make([]domain.LineItem, len(m.positions))
	for i, p := range m.positions {
		prefix := fmt.Sprintf("positions.%d.", i)
		num := func(name string, required bool) float64 {
			v, err := validation.ParseNumber(fieldValue(p.fields, name))
			switch {
			case err != nil:
				errs[prefix+name] = validation.Rule{Tag: "number"}
			case v == nil && required:
				errs[prefix+name] = validation.Rule{Tag: "required"}
			case v != nil:
				return *v
			}
			return 0
		}

		items[i] = domain.LineItem{
			Name:            strings.TrimSpace(fieldValue(p.fields, "name")),
			Amount:          num("amount", true),
			Unit:            strings.TrimSpace(fieldValue(p.fields, "unit")),
			UnitPrice:       num("unitPrice", true),
			Currency:        strings.TrimSpace(fieldValue(p.fields, "currency")),
			TaxPercent:      num("taxPercent", true),
			DiscountPercent: num("discountPercent", false),
			GrossAmount:     p.gross,
		}
	}
	return items
}

func (m *WizardModel) validate() {
	_, m.errs = m.collect()
}

// recompute refreshes the gross of p from its current inputs. Unparsable
// or empty inputs leave the previous gross in place.
func (p *positionForm) recompute() {
	num := func(name string) *float64 {
		v, err := validation.ParseNumber(fieldValue(p.fields, name))
		if err != nil {
			return nil
		}
		return v
	}
	in := pricing.Inputs{
		Amount:          num("amount"),
		UnitPrice:       num("unitPrice"),
		TaxPercent:      num("taxPercent"),
		DiscountPercent: num("discountPercent"),
	}
	if next, changed := pricing.Recompute(in, p.gross); changed {
		p.gross = next
	}
}

func (m *WizardModel) submit() tea.Cmd {
	a, errs := m.collect()
	m.errs = errs
	if !errs.Valid() {
		m.attempted = true
		return nil
	}

	m.blur()
	m.machine.Dispatch(a)
	if m.machine.State().Complete() {
		return nil
	}
	return m.loadStep()
}

func (m *WizardModel) back() tea.Cmd {
	if m.machine.Step() == wizard.StepIssuer {
		return nil
	}
	m.machine.Dispatch(wizard.Back{})
	return m.loadStep()
}

func (m *WizardModel) addPosition() tea.Cmd {
	m.blur()
	m.positions = append(m.positions, newPositionForm(positionDefaults(m.app.Config.Invoice), 0))
	m.posCursor = len(m.positions) - 1
	m.fieldFocus = 0
	m.positions[m.posCursor].recompute()
	m.validate()
	return m.focus()
}

func (m *WizardModel) removePosition() tea.Cmd {
	if len(m.positions) == 0 {
		return nil
	}
	m.positions = append(m.positions[:m.posCursor], m.positions[m.posCursor+1:]...)
	if m.posCursor >= len(m.positions) && m.posCursor > 0 {
		m.posCursor--
	}
	m.fieldFocus = 0
	// indices shifted
	m.touched = make(map[string]bool)
	m.validate()
	return m.focus()
}

func (m *WizardModel) selectPosition(delta int) tea.Cmd {
	next := m.posCursor + delta
	if next < 0 || next >= len(m.positions) {
		return nil
	}
	m.blur()
	m.posCursor = next
	m.fieldFocus = 0
	return m.focus()
}

func (m *WizardModel) issue() tea.Cmd {
	svc := m.app.InvoiceService
	dir := m.app.Config.Invoice.OutputDir
	draft := m.machine.Draft()
	return func() tea.Msg {
		ctx := context.Background()
		inv, err := svc.Issue(ctx, draft)
		if err != nil {
			return IssuedMsg{Err: err}
		}
		path, err := svc.Export(ctx, inv.ID, dir)
		if err != nil {
			return IssuedMsg{Invoice: inv, Err: err}
		}
		return IssuedMsg{Invoice: inv, Path: path}
	}
}

func (m *WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case prefillMsg:
		if m.machine == nil {
			return m, m.start(msg.issuer)
		}
		return m, nil

	case IssuedMsg:
		m.busy = false
		m.err = msg.Err
		if msg.Invoice == nil {
			return m, nil
		}
		m.issued = msg.Invoice
		m.issuedPath = msg.Path
		m.mode = wizardModeIssued
		m.logger.Info("wizard session finished", zap.String("number", msg.Invoice.Number))
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case wizardModeForm:
			return m.updateForm(msg)
		case wizardModeReview:
			return m.updateReview(msg)
		case wizardModeIssued:
			if key.Matches(msg, DefaultKeyMap.NewInvoice) {
				m.machine = nil
				m.mode = wizardModeLoading
				return m, m.loadPrefill()
			}
		}
		return m, nil
	}

	if m.mode != wizardModeForm {
		return m, nil
	}

	// cursor blink and other input messages
	var cmd tea.Cmd
	if m.machine.Step() == wizard.StepText {
		m.text, cmd = m.text.Update(msg)
	} else if fields := m.activeFields(); len(fields) > 0 {
		fields[m.fieldFocus].input, cmd = fields[m.fieldFocus].input.Update(msg)
	}
	return m, cmd
}

func (m *WizardModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil

	switch {
	case key.Matches(msg, DefaultKeyMap.Back):
		return m, m.back()
	case msg.String() == "ctrl+s":
		return m, m.submit()
	}

	if m.machine.Step() == wizard.StepText {
		var cmd tea.Cmd
		m.text, cmd = m.text.Update(msg)
		m.touched["text"] = true
		m.validate()
		return m, cmd
	}

	if m.machine.Step() == wizard.StepPositions {
		switch {
		case key.Matches(msg, DefaultKeyMap.AddPosition):
			return m, m.addPosition()
		case key.Matches(msg, DefaultKeyMap.RemovePosition):
			return m, m.removePosition()
		case key.Matches(msg, DefaultKeyMap.PrevPosition):
			return m, m.selectPosition(-1)
		case key.Matches(msg, DefaultKeyMap.NextPosition):
			return m, m.selectPosition(1)
		}
	}

	fields := m.activeFields()
	n := len(fields)
	if n == 0 {
		if msg.String() == "enter" {
			return m, m.submit()
		}
		return m, nil
	}

	switch msg.String() {
	case "tab", "down":
		m.touched[m.fieldKey(fields[m.fieldFocus].name)] = true
		fields[m.fieldFocus].input.Blur()
		m.fieldFocus = (m.fieldFocus + 1) % n
		return m, fields[m.fieldFocus].input.Focus()

	case "shift+tab", "up":
		m.touched[m.fieldKey(fields[m.fieldFocus].name)] = true
		fields[m.fieldFocus].input.Blur()
		m.fieldFocus = (m.fieldFocus - 1 + n) % n
		return m, fields[m.fieldFocus].input.Focus()

	case "enter":
		m.touched[m.fieldKey(fields[m.fieldFocus].name)] = true
		if m.fieldFocus == n-1 {
			return m, m.submit()
		}
		fields[m.fieldFocus].input.Blur()
		m.fieldFocus++
		return m, fields[m.fieldFocus].input.Focus()
	}

	var cmd tea.Cmd
	fields[m.fieldFocus].input, cmd = fields[m.fieldFocus].input.Update(msg)
	m.touched[m.fieldKey(fields[m.fieldFocus].name)] = true
	if m.machine.Step() == wizard.StepPositions {
		m.positions[m.posCursor].recompute()
	}
	m.validate()
	return m, cmd
}

func (m *WizardModel) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	switch {
	case key.Matches(msg, DefaultKeyMap.Back):
		m.err = nil
		return m, m.back()
	case key.Matches(msg, DefaultKeyMap.Select):
		m.busy = true
		m.err = nil
		return m, m.issue()
	}
	return m, nil
}

func (m *WizardModel) View() string {
	switch m.mode {
	case wizardModeLoading:
		return subtitleStyle.Render("Loading...")
	case wizardModeReview:
		return m.viewReview()
	case wizardModeIssued:
		return m.viewIssued()
	}
	return m.viewForm()
}

func (m *WizardModel) viewHeader(step wizard.Step) string {
	sm := m.steps[step]
	var s string
	s += titleStyle.Render(m.msgs.T("wizard.title"))
	if step <= wizard.StepPositions {
		s += subtitleStyle.Render(fmt.Sprintf("  %d/%d", int(step), wizard.StepCount))
	}
	s += "\n" + subtitleStyle.Render(sm.SubTitle) + "\n\n"
	return s
}

func (m *WizardModel) showError(field string) bool {
	return m.errs.Has(field) && (m.attempted || m.touched[field])
}

func (m *WizardModel) viewField(f formField, label string, focused bool, errKey string) string {
	indicator := "  "
	labelStyle := subtitleStyle
	if focused {
		indicator = "> "
		labelStyle = focusStyle
	}
	s := fmt.Sprintf("%s%s\n  %s\n", indicator, labelStyle.Render(label), f.input.View())
	if m.showError(errKey) {
		s += errorStyle.Render("  "+m.errs.Message(errKey, m.msgs)) + "\n"
	}
	return s
}

func (m *WizardModel) viewForm() string {
	step := m.machine.Step()
	sm := m.steps[step]
	s := m.viewHeader(step)

	switch step {
	case wizard.StepText:
		s += focusStyle.Render(sm.Label("text")) + "\n" + m.text.View() + "\n"
		if m.showError("text") {
			s += errorStyle.Render("  "+m.errs.Message("text", m.msgs)) + "\n"
		}
	case wizard.StepPositions:
		s += m.viewPositions(sm)
	default:
		for i, f := range m.fields {
			s += m.viewField(f, sm.Label(f.name), i == m.fieldFocus, f.name)
		}
	}

	if m.err != nil {
		s += "\n" + errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n"
	}

	s += "\n" + m.viewButtons(sm) + "\n"

	help := "  tab/shift+tab: navigate fields  enter: next field  ctrl+s: next step  esc: back"
	switch step {
	case wizard.StepText:
		help = "  ctrl+s: next step  esc: back"
	case wizard.StepPositions:
		help = "  tab/shift+tab: fields  pgup/pgdn: select  ctrl+n: add  ctrl+d: remove  ctrl+s: finish  esc: back"
	}
	s += helpStyle.Render(help)
	return s
}

func (m *WizardModel) viewButtons(sm i18n.StepMessages) string {
	back := buttonStyle.Render(sm.Back)
	if m.machine.Step() == wizard.StepIssuer {
		back = buttonDisabledStyle.Render(sm.Back)
	}

	label := sm.Next
	if m.machine.Step() == wizard.StepPositions {
		label = sm.Finish
	}
	next := buttonStyle.Render(label)
	if !m.errs.Valid() {
		next = buttonDisabledStyle.Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, back, "  ", next)
}

func (m *WizardModel) viewPositions(sm i18n.StepMessages) string {
	var s string

	if len(m.positions) == 0 {
		s += subtitleStyle.Render("  "+m.msgs.T("wizard.positions.empty")) + "\n"
		if m.attempted && m.errs.Has("positions") {
			s += errorStyle.Render("  "+m.errs.Message("positions", m.msgs)) + "\n"
		}
		return s
	}

	header := fmt.Sprintf("  %-3s %-24s %8s %-6s %12s %6s %6s %16s",
		"#", sm.Label("name"), sm.Label("amount"), sm.Label("unit"),
		sm.Label("unitPrice"), "%", "-%", sm.Label("grossAmount"))
	s += subtitleStyle.Render(truncateStr(header, 96)) + "\n"

	for i, p := range m.positions {
		v := func(name string) string { return fieldValue(p.fields, name) }
		row := fmt.Sprintf("  %-3d %-24s %8s %-6s %12s %6s %6s %16s",
			i+1,
			truncateStr(v("name"), 24),
			truncateStr(v("amount"), 8),
			truncateStr(v("unit"), 6),
			truncateStr(v("unitPrice"), 12),
			truncateStr(v("taxPercent"), 6),
			truncateStr(v("discountPercent"), 6),
			formatMoney(pricing.Round(p.gross), v("currency")),
		)
		if i == m.posCursor {
			s += selectedStyle.Render(row) + "\n"
		} else {
			s += row + "\n"
		}
	}
	s += "\n"

	p := m.positions[m.posCursor]
	var form string
	for i, f := range p.fields {
		form += m.viewField(f, sm.Label(f.name), i == m.fieldFocus, m.fieldKey(f.name))
	}
	form += fmt.Sprintf("  %s\n  %s\n", subtitleStyle.Render(sm.Label("grossAmount")),
		grossStyle.Render(formatMoney(pricing.Round(p.gross), fieldValue(p.fields, "currency"))))
	s += boxStyle.Render(form) + "\n"
	return s
}

func (m *WizardModel) viewReview() string {
	s := m.viewHeader(wizard.StepDone)
	s += m.review + "\n"
	if m.busy {
		s += lipgloss.NewStyle().Foreground(warningColor).Render("  Issuing...") + "\n"
	}
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n"
	}
	s += helpStyle.Render("  " + m.msgs.T("wizard.review.hint"))
	return s
}

func (m *WizardModel) viewIssued() string {
	s := m.viewHeader(wizard.StepDone)
	if m.issuedPath != "" {
		s += lipgloss.NewStyle().Foreground(successColor).
			Render("  "+m.msgs.T("wizard.review.issued", m.issued.Number, m.issuedPath)) + "\n\n"
	}
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Invoice %s was stored but not exported: %v", m.issued.Number, m.err)) + "\n\n"
	}
	s += helpStyle.Render("  n: new invoice  i: invoices")
	return s
}

func (m *WizardModel) renderReview(d domain.Draft) {
	src := reviewMarkdown(d, m.msgs, m.app.Config.Invoice.Currency)
	out, err := renderMarkdown(src, m.reviewStyle, 80)
	if err != nil {
		m.logger.Warn("failed to render review", zap.Error(err))
		out = src
	}
	m.review = out
}
