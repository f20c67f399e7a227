package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/andy/invoicewiz/internal/app"
	"github.com/andy/invoicewiz/internal/config"
	"github.com/andy/invoicewiz/internal/i18n"
	"github.com/andy/invoicewiz/internal/validation"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type settingsMode int

const (
	settingsModeView settingsMode = iota
	settingsModeEdit
)

// settings form field indices
const (
	settingsFieldOutputDir = iota
	settingsFieldPrefix
	settingsFieldDueDays
	settingsFieldCurrency
	settingsFieldTaxPercent
	settingsFieldLocale
	settingsFieldCount
)

// settingsSavedMsg reports the config file write. The values are applied
// to the running app only once the message reaches Update.
type settingsSavedMsg struct {
	values settingsValues
	err    error
}

// settingsValues is a parsed settings form
type settingsValues struct {
	outputDir  string
	prefix     string
	dueDays    int
	currency   string
	taxPercent float64
	locale     string
}

// SettingsModel manages the settings screen
type SettingsModel struct {
	app        *app.App
	mode       settingsMode
	fields     []textinput.Model
	fieldFocus int
	err        error
	statusMsg  string
}

// NewSettingsModel creates a new settings screen
func NewSettingsModel(a *app.App) tea.Model {
	return &SettingsModel{
		app:  a,
		mode: settingsModeView,
	}
}

// IsCapturingInput returns true when the edit form is active
func (m *SettingsModel) IsCapturingInput() bool {
	return m.mode == settingsModeEdit
}

func (m *SettingsModel) Init() tea.Cmd {
	return nil
}

func (m *SettingsModel) initForm() {
	cfg := m.app.Config.Invoice
	specs := [settingsFieldCount]struct {
		placeholder string
		limit       int
		width       int
		value       string
	}{
		settingsFieldOutputDir:  {"/path/to/invoices", 256, 60, cfg.OutputDir},
		settingsFieldPrefix:     {"INV", 20, 20, cfg.NumberPrefix},
		settingsFieldDueDays:    {"14", 5, 10, strconv.Itoa(cfg.DefaultDueDays)},
		settingsFieldCurrency:   {"EUR", 8, 10, cfg.Currency},
		settingsFieldTaxPercent: {"19", 10, 10, validation.FormatNumber(cfg.DefaultTaxPercent)},
		settingsFieldLocale:     {i18n.DefaultLocale, 8, 10, m.app.Config.Locale},
	}

	m.fields = make([]textinput.Model, settingsFieldCount)
	for i, spec := range specs {
		ti := textinput.New()
		ti.Placeholder = spec.placeholder
		ti.CharLimit = spec.limit
		ti.Width = spec.width
		ti.SetValue(spec.value)
		m.fields[i] = ti
	}

	m.fieldFocus = settingsFieldOutputDir
	m.fields[settingsFieldOutputDir].Focus()
}

// parseSettings checks the form values without touching the config.
func parseSettings(fields []textinput.Model) (settingsValues, error) {
	v := settingsValues{
		outputDir: strings.TrimSpace(fields[settingsFieldOutputDir].Value()),
		prefix:    strings.TrimSpace(fields[settingsFieldPrefix].Value()),
		currency:  strings.ToUpper(strings.TrimSpace(fields[settingsFieldCurrency].Value())),
		locale:    strings.TrimSpace(fields[settingsFieldLocale].Value()),
	}

	if v.outputDir == "" {
		return v, fmt.Errorf("output directory is required")
	}
	if v.prefix == "" {
		return v, fmt.Errorf("invoice prefix is required")
	}

	dueDays, err := strconv.Atoi(strings.TrimSpace(fields[settingsFieldDueDays].Value()))
	if err != nil || dueDays < 0 {
		return v, fmt.Errorf("due days must be a non-negative number")
	}
	v.dueDays = dueDays

	if v.currency == "" {
		return v, fmt.Errorf("currency is required")
	}

	tax, err := validation.ParseNumber(fields[settingsFieldTaxPercent].Value())
	if err != nil || tax == nil || *tax < 0 {
		return v, fmt.Errorf("tax percent must be a non-negative number")
	}
	v.taxPercent = *tax

	if !slices.Contains(i18n.Locales(), v.locale) {
		return v, fmt.Errorf("locale must be one of %s", strings.Join(i18n.Locales(), ", "))
	}
	return v, nil
}

func (v settingsValues) applyTo(cfg *config.Config) {
	cfg.Invoice.OutputDir = v.outputDir
	cfg.Invoice.NumberPrefix = v.prefix
	cfg.Invoice.DefaultDueDays = v.dueDays
	cfg.Invoice.Currency = v.currency
	cfg.Invoice.DefaultTaxPercent = v.taxPercent
	cfg.Locale = v.locale
}

// saveSettings writes a copy of the config with the form values. The
// returned Cmd touches nothing the UI goroutine reads.
func (m *SettingsModel) saveSettings() tea.Cmd {
	v, err := parseSettings(m.fields)
	if err != nil {
		return func() tea.Msg { return settingsSavedMsg{err: err} }
	}
	cfg := *m.app.Config
	v.applyTo(&cfg)
	path := m.app.ConfigFile()
	return func() tea.Msg {
		if err := cfg.Save(path); err != nil {
			return settingsSavedMsg{err: fmt.Errorf("failed to save config: %w", err)}
		}
		return settingsSavedMsg{values: v}
	}
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(settingsSavedMsg); ok {
		return m.applySaved(msg)
	}
	if m.mode == settingsModeEdit {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err = nil
		switch {
		case msg.String() == "enter":
			m.mode = settingsModeEdit
			m.statusMsg = ""
			m.initForm()
			return m, m.fields[m.fieldFocus].Focus()
		}
	}

	return m, nil
}

func (m *SettingsModel) applySaved(msg settingsSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}
	msg.values.applyTo(m.app.Config)
	if err := m.app.ApplyConfig(); err != nil {
		m.err = err
		return m, nil
	}
	m.mode = settingsModeView
	m.err = nil
	m.statusMsg = "Settings saved"
	return m, nil
}

func (m *SettingsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.mode = settingsModeView
			m.err = nil
			return m, nil

		case "tab", "down":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + settingsFieldCount) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "enter":
			if m.fieldFocus == settingsFieldCount-1 {
				return m, m.saveSettings()
			}
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus++
			return m, m.fields[m.fieldFocus].Focus()

		case "ctrl+s":
			return m, m.saveSettings()
		}
	}

	// Update the focused text input
	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *SettingsModel) View() string {
	if m.mode == settingsModeEdit {
		return m.viewForm()
	}
	return m.viewSettings()
}

func (m *SettingsModel) viewSettings() string {
	var s string
	s += titleStyle.Render("Settings") + "\n\n"

	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).
			Render("  "+m.statusMsg) + "\n\n"
	}

	cfg := m.app.Config.Invoice

	labelStyle := lipgloss.NewStyle().Bold(true).Width(22)
	valueStyle := lipgloss.NewStyle().Foreground(primaryColor)

	s += subtitleStyle.Render("  Invoice Settings") + "\n\n"
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Output Directory:"), valueStyle.Render(cfg.OutputDir))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Number Prefix:"), valueStyle.Render(cfg.NumberPrefix))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Default Due Days:"), valueStyle.Render(strconv.Itoa(cfg.DefaultDueDays)))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Currency:"), valueStyle.Render(cfg.Currency))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Default Tax:"), valueStyle.Render(validation.FormatNumber(cfg.DefaultTaxPercent)+"%"))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Language:"), valueStyle.Render(m.app.Config.Locale))

	s += "\n" + helpStyle.Render("  enter: edit settings")

	return s
}

func (m *SettingsModel) viewForm() string {
	var s string
	s += titleStyle.Render("Edit Settings") + "\n\n"

	labels := []string{
		"Output Directory:",
		"Number Prefix:",
		"Default Due Days:",
		"Currency:",
		"Tax Percent (%):",
		"Language (" + strings.Join(i18n.Locales(), ", ") + "):",
	}
	for i, label := range labels {
		indicator := "  "
		if i == m.fieldFocus {
			indicator = "> "
		}
		labelStyle := subtitleStyle
		if i == m.fieldFocus {
			labelStyle = focusStyle
		}
		s += fmt.Sprintf("%s%s\n  %s\n\n", indicator, labelStyle.Render(label), m.fields[i].View())
	}

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += helpStyle.Render("  tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  esc: cancel")

	return s
}
