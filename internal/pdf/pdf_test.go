package pdf

import (
	"bytes"
	"os"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/andy/invoicewiz/internal/domain"
	"github.com/andy/invoicewiz/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInvoice() *domain.Invoice {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	draft := domain.Draft{
		Issuer: domain.Issuer{
			Name: "Jürgen Müller", Address: "Hauptstraße 1", Postcode: "10115", Country: "DE",
			TaxNumber: "DE123", BankName: "Bank", IBAN: "DE02120300000000202051",
		},
		Client: domain.ClientDetails{
			ClientName: "Acme", ClientCountry: "DE", Subject: "Website",
			BillNumber: "7", BillDate: day, DeliveryDate: day, BillDueDate: &day,
		},
		Text: "Sehr geehrte Damen und Herren,\nvielen Dank!",
		Positions: []domain.LineItem{
			{Name: "Logo", Amount: 2, Unit: "Stk", UnitPrice: 100, Currency: "EUR", TaxPercent: 19, DiscountPercent: 10},
			{Name: "Hosting", Amount: 1, Unit: "Monat", UnitPrice: 50, Currency: "EUR", TaxPercent: 7},
		},
	}
	for i := range draft.Positions {
		draft.Positions[i].Recalculate()
	}
	return domain.NewInvoice("INV-2024-001", draft, "EUR")
}

func TestRender(t *testing.T) {
	for _, locale := range i18n.Locales() {
		t.Run(locale, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, New(i18n.MustLoad(locale)).Render(&buf, testInvoice()))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
		})
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "invoice.pdf")

	require.NoError(t, New(i18n.MustLoad("en")).WriteFile(path, testInvoice()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(500))
}

func TestRenderWhileSwitchingMessages(t *testing.T) {
	r := New(i18n.MustLoad("en"))
	inv := testInvoice()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.Render(io.Discard, inv))
		}()
	}
	for _, locale := range []string{"de", "en", "de"} {
		r.SetMessages(i18n.MustLoad(locale))
	}
	wg.Wait()

	assert.Equal(t, "de", r.snapshot().msgs.Locale())
}

func TestJoinNonEmpty(t *testing.T) {
	assert.Equal(t, "a - c", joinNonEmpty(" - ", "a", " ", "c"))
	assert.Equal(t, "", joinNonEmpty(" - "))
}
