package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andy/invoicewiz/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Müller ...", truncate("Müller GmbH & Co. KG", 10))
}

func TestParseDate(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "", want: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{in: "today", want: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{in: "yesterday", want: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)},
		{in: "2024-01-31", want: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)},
		{in: "31.01.2024", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDate(tt.in, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrintInvoice(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	draft := domain.NewDraft(day, "Thanks")
	draft.Issuer = domain.Issuer{Name: "Jane Doe", Address: "Main St 1", Postcode: "10115", Country: "DE", TaxNumber: "DE123"}
	draft.Client.ClientName = "Acme"
	draft.Client.ClientCountry = "DE"
	draft.Positions = []domain.LineItem{
		{Name: "Logo", Amount: 2, Unit: "pcs", UnitPrice: 100, Currency: "EUR", TaxPercent: 19, DiscountPercent: 10, GrossAmount: 214.2},
	}
	inv := domain.NewInvoice("INV-2024-001", draft, "EUR")
	inv.ID = 3

	var buf bytes.Buffer
	printInvoice(&buf, inv)
	out := buf.String()
	assert.Contains(t, out, "Invoice: INV-2024-001 (#3)")
	assert.Contains(t, out, "Tax 19%: 34.20 EUR")
	assert.Contains(t, out, "Gross: 214.20 EUR")

	buf.Reset()
	printInvoiceTable(&buf, []*domain.Invoice{inv})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], "214.20 EUR")
	assert.Contains(t, lines[2], "issued")
}

func TestConfirmPrompt(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, confirmPrompt(&out, strings.NewReader("y\n"), "Sure?"))
	assert.True(t, confirmPrompt(&out, strings.NewReader("YES"), "Sure?"))
	assert.False(t, confirmPrompt(&out, strings.NewReader("\n"), "Sure?"))
	assert.False(t, confirmPrompt(&out, strings.NewReader(""), "Sure?"))
	assert.Contains(t, out.String(), "Sure? [y/N] ")
}

func TestConfigCommands(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("invoice:\n  number_prefix: RE\n"), 0644))
	t.Setenv("INVOICEWIZ_LOCALE", "de")

	run := func(args ...string) string {
		var buf bytes.Buffer
		rootCmd.SetOut(&buf)
		rootCmd.SetArgs(args)
		require.NoError(t, rootCmd.Execute())
		return buf.String()
	}
	t.Cleanup(func() { configPath = "" })

	assert.Equal(t, path+"\n", run("config", "path", "--config", path))

	shown := run("config", "show", "--config", path)
	assert.Contains(t, shown, "number_prefix: RE")
	assert.Contains(t, shown, "locale: de")
	assert.Nil(t, appInstance)
}
