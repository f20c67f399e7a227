//go:build !darwin

package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andy/invoicewiz/internal/config"
	"github.com/andy/invoicewiz/internal/crypto"
	"github.com/andy/invoicewiz/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Database.Path = filepath.Join(root, "invoicewiz.db")
	cfg.Invoice.OutputDir = filepath.Join(root, "invoices")
	cfg.Log.File = filepath.Join(root, "invoicewiz.log")
	cfg.Locale = "de"
	return cfg
}

func TestNewWithConfig_IssueAndExport(t *testing.T) {
	t.Setenv(crypto.EnvKey, "test-key")
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := NewWithConfig(ctx, cfg, Options{ConfigPath: filepath.Join(t.TempDir(), "config.yaml")})
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, "de", a.Messages.Locale())

	day := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	draft := domain.NewDraft(day, a.Messages.T("invoice.defaultText"))
	draft.Issuer = domain.Issuer{Name: "Jane Doe", Address: "Main St 1", Postcode: "10115", Country: "DE", TaxNumber: "DE123"}
	draft.Client.ClientName = "Acme"
	draft.Client.ClientCountry = "DE"
	draft.Client.BillNumber = "1"
	draft.Positions = []domain.LineItem{
		{Name: "Logo", Amount: 1, Unit: "Stk", UnitPrice: 100, Currency: "EUR", TaxPercent: 19},
	}

	inv, err := a.InvoiceService.Issue(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, "INV-2024-001", inv.Number)

	path, err := a.InvoiceService.Export(ctx, inv.ID, cfg.Invoice.OutputDir)
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	remembered, err := a.InvoiceService.LastIssuer(ctx)
	require.NoError(t, err)
	require.NotNil(t, remembered)
	assert.Equal(t, "Jane Doe", remembered.Name)
}

func TestNewWithConfig_UnknownLocale(t *testing.T) {
	t.Setenv(crypto.EnvKey, "test-key")
	cfg := testConfig(t)
	cfg.Locale = "xx"

	_, err := NewWithConfig(context.Background(), cfg, Options{})
	assert.Error(t, err)

	_, err = os.Stat(cfg.Log.File)
	assert.True(t, os.IsNotExist(err), "no log file is left behind on a failed start")
}

func TestNewWithConfig_DatabaseFailureLeavesNoLog(t *testing.T) {
	t.Setenv(crypto.EnvKey, "test-key")
	cfg := testConfig(t)
	// a directory cannot be opened as a database file
	cfg.Database.Path = t.TempDir()

	_, err := NewWithConfig(context.Background(), cfg, Options{})
	require.Error(t, err)

	_, err = os.Stat(cfg.Log.File)
	assert.True(t, os.IsNotExist(err))
}

func TestSaveConfig_ReloadsMessages(t *testing.T) {
	t.Setenv(crypto.EnvKey, "test-key")
	path := filepath.Join(t.TempDir(), "config.yaml")

	a, err := NewWithConfig(context.Background(), testConfig(t), Options{ConfigPath: path})
	require.NoError(t, err)
	defer a.Close()

	a.Config.Locale = "en"
	require.NoError(t, a.SaveConfig())
	assert.Equal(t, "en", a.Messages.Locale())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveConfig_AppliesInvoiceOptions(t *testing.T) {
	t.Setenv(crypto.EnvKey, "test-key")
	ctx := context.Background()

	a, err := NewWithConfig(ctx, testConfig(t), Options{ConfigPath: filepath.Join(t.TempDir(), "config.yaml")})
	require.NoError(t, err)
	defer a.Close()

	a.Config.Invoice.NumberPrefix = "RE"
	a.Config.Invoice.RememberIssuer = false
	require.NoError(t, a.SaveConfig())

	day := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	draft := domain.NewDraft(day, "")
	draft.Issuer = domain.Issuer{Name: "Jane Doe", Address: "Main St 1", Postcode: "10115", Country: "DE", TaxNumber: "DE123"}
	draft.Client.ClientName = "Acme"
	draft.Client.ClientCountry = "DE"
	draft.Client.BillNumber = "1"
	draft.Positions = []domain.LineItem{
		{Name: "Logo", Amount: 1, Unit: "Stk", UnitPrice: 100, Currency: "EUR", TaxPercent: 19},
	}

	inv, err := a.InvoiceService.Issue(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, "RE-2024-001", inv.Number)

	remembered, err := a.InvoiceService.LastIssuer(ctx)
	require.NoError(t, err)
	assert.Nil(t, remembered)
}
