package i18n

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Default(t *testing.T) {
	msgs, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "en", msgs.Locale())
	assert.Equal(t, "Your details", msgs.T("wizard.subTitle.stepOne"))
	assert.Equal(t, "Next", msgs.T("base.next"))
}

func TestLoad_German(t *testing.T) {
	msgs, err := Load("de")
	require.NoError(t, err)
	assert.Equal(t, "Weiter", msgs.T("base.next"))
	assert.Equal(t, "Anzahl/Menge", msgs.T("wizard.positions.amount"))
	assert.Contains(t, msgs.T("invoice.defaultText"), "Sehr geehrte Damen und Herren,")
}

func TestLoad_FallsBackToDefault(t *testing.T) {
	msgs, err := Load("de")
	require.NoError(t, err)
	// errors.invalid only exists in the en catalog
	assert.Equal(t, "Invalid value", msgs.T("errors.invalid"))
}

func TestLoad_UnknownLocale(t *testing.T) {
	_, err := Load("xx")
	assert.True(t, errors.Is(err, ErrUnknownLocale))
}

func TestT(t *testing.T) {
	msgs := MustLoad("en")

	tests := []struct {
		name string
		key  string
		args []any
		want string
	}{
		{"plain", "base.back", nil, "Back"},
		{"formatted", "errors.min", []any{"2"}, "Must be at least 2 characters"},
		{"missing key", "no.such.key", nil, "no.such.key"},
		{"percent escape", "pdf.taxLine", []any{"19"}, "Tax 19%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, msgs.T(tt.key, tt.args...))
		})
	}
}

func TestStep(t *testing.T) {
	msgs := MustLoad("de")
	step := msgs.Step("wizard.subTitle.stepTwo", "wizard.client.clientName", "wizard.client.billDate")

	assert.Equal(t, "Kunden- und Rechnungsdaten", step.SubTitle)
	assert.Equal(t, "Weiter", step.Next)
	assert.Equal(t, "Zurück", step.Back)
	assert.Equal(t, "Kundenname", step.Label("clientName"))
	assert.Equal(t, "Rechnungsdatum", step.Label("billDate"))
	assert.Equal(t, "subject", step.Label("subject"))
}

func TestLocales(t *testing.T) {
	assert.Equal(t, []string{"de", "en"}, Locales())
}
