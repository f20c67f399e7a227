package tui

import (
	"fmt"
	"strings"

	"github.com/andy/invoicewiz/internal/app"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenWizard Screen = iota
	ScreenInvoices
	ScreenSettings
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenWizard:
		return "New Invoice"
	case ScreenInvoices:
		return "Invoices"
	case ScreenSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// Model is the root Bubble Tea model
type Model struct {
	app           *app.App
	currentScreen Screen
	width         int
	height        int

	// Screen models (lazy initialized)
	wizard   tea.Model
	invoices tea.Model
	settings tea.Model

	err error
}

// New creates a new root model
func New(a *app.App) Model {
	return Model{
		app:           a,
		currentScreen: ScreenWizard,
		wizard:        NewWizardModel(a),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.wizard.Init()
}

// initScreen lazy-initializes a screen on first visit,
// and sends a RefreshDataMsg on subsequent visits so screens reload data.
func (m *Model) initScreen(screen Screen) tea.Cmd {
	switch screen {
	case ScreenWizard:
		if m.wizard == nil {
			m.wizard = NewWizardModel(m.app)
			return m.wizard.Init()
		}
		return nil
	case ScreenInvoices:
		if m.invoices == nil {
			m.invoices = NewInvoicesModel(m.app)
			return m.invoices.Init()
		}
		return func() tea.Msg { return RefreshDataMsg{} }
	case ScreenSettings:
		if m.settings == nil {
			m.settings = NewSettingsModel(m.app)
			return m.settings.Init()
		}
		return nil
	}
	return nil
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation keys (W, I, comma, Q) are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

func (m *Model) screen(s Screen) tea.Model {
	switch s {
	case ScreenWizard:
		return m.wizard
	case ScreenInvoices:
		return m.invoices
	case ScreenSettings:
		return m.settings
	}
	return nil
}

func (m *Model) setScreen(s Screen, model tea.Model) {
	switch s {
	case ScreenWizard:
		m.wizard = model
	case ScreenInvoices:
		m.invoices = model
	case ScreenSettings:
		m.settings = model
	}
}

// activeScreenCapturingInput returns true if the current screen is capturing text input
func (m *Model) activeScreenCapturingInput() bool {
	if ic, ok := m.screen(m.currentScreen).(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

func (m Model) switchTo(s Screen) (Model, tea.Cmd) {
	m.currentScreen = s
	cmd := m.initScreen(s)
	return m, cmd
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.err = nil

		switch {
		case key.Matches(msg, DefaultKeyMap.ForceQuit):
			return m, tea.Quit
		case key.Matches(msg, DefaultKeyMap.JumpWizard):
			return m.switchTo(ScreenWizard)
		case key.Matches(msg, DefaultKeyMap.JumpInvoices):
			return m.switchTo(ScreenInvoices)
		case key.Matches(msg, DefaultKeyMap.JumpSettings):
			return m.switchTo(ScreenSettings)
		}

		// Skip global navigation when a screen is capturing text input
		if !m.activeScreenCapturingInput() {
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				return m, tea.Quit
			case key.Matches(msg, DefaultKeyMap.Wizard):
				return m.switchTo(ScreenWizard)
			case key.Matches(msg, DefaultKeyMap.Invoices):
				return m.switchTo(ScreenInvoices)
			case key.Matches(msg, DefaultKeyMap.Settings):
				return m.switchTo(ScreenSettings)
			}
		}

	case SwitchScreenMsg:
		return m.switchTo(msg.Screen)

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Route message to current screen
	var cmd tea.Cmd
	if screen := m.screen(m.currentScreen); screen != nil {
		screen, cmd = screen.Update(msg)
		m.setScreen(m.currentScreen, screen)
	}

	// async results may arrive after the user switched away
	switch msg.(type) {
	case IssuedMsg, prefillMsg:
		if m.currentScreen != ScreenWizard && m.wizard != nil {
			var wcmd tea.Cmd
			m.wizard, wcmd = m.wizard.Update(msg)
			cmd = tea.Batch(cmd, wcmd)
		}
	case settingsSavedMsg:
		if m.currentScreen != ScreenSettings && m.settings != nil {
			var scmd tea.Cmd
			m.settings, scmd = m.settings.Update(msg)
			cmd = tea.Batch(cmd, scmd)
		}
		// the settings screen has applied the new locale by now
		if w, ok := m.wizard.(*WizardModel); ok {
			w.SetMessages(m.app.Messages)
		}
	}

	return m, cmd
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := headerStyle.Render(fmt.Sprintf("invoicewiz - %s", m.currentScreen.String()))
	footer := footerStyle.Render("[W]izard F1  [I]nvoices F2  [,] Settings F3  [Q]uit")

	content := "Loading..."
	if screen := m.screen(m.currentScreen); screen != nil {
		content = screen.View()
	}

	errorDisplay := ""
	if m.err != nil {
		errorDisplay = lipgloss.NewStyle().
			Foreground(errorColor).
			Render(fmt.Sprintf("\nError: %s", m.err.Error()))
	}

	// Divider line between header and content
	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(
		strings.Repeat("─", dividerWidth),
	)

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, errorDisplay, divider, footer)

	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// Run starts the TUI
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
