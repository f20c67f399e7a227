package repository

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/andy/invoicewiz/internal/db"
	"github.com/andy/invoicewiz/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"), "test-key")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations())
	t.Cleanup(func() { database.Close() })
	return database
}

func testInvoice(number string) *domain.Invoice {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	due := day.AddDate(0, 0, 14)
	draft := domain.Draft{
		Issuer: domain.Issuer{
			Name: "Jane Doe", Address: "Main St 1", Postcode: "10115",
			Country: "DE", TaxNumber: "DE123", IBAN: "DE02120300000000202051",
		},
		Client: domain.ClientDetails{
			ClientName: "Acme", ClientCountry: "DE", BillNumber: "7",
			BillDate: day, DeliveryDate: day, BillDueDate: &due,
		},
		Text: "Thanks",
		Positions: []domain.LineItem{
			{Name: "Logo", Amount: 2, Unit: "pcs", UnitPrice: 100, Currency: "EUR", TaxPercent: 19, DiscountPercent: 10},
			{Name: "Hosting", Amount: 1, Unit: "month", UnitPrice: 50, Currency: "EUR", TaxPercent: 20},
		},
	}
	for i := range draft.Positions {
		draft.Positions[i].Recalculate()
	}
	return domain.NewInvoice(number, draft, "EUR")
}

func TestInvoiceRepo_CreateAndGet(t *testing.T) {
	repo := NewInvoiceRepo(openTestDB(t))
	ctx := context.Background()

	inv := testInvoice("INV-2024-001")
	require.NoError(t, repo.Create(ctx, inv))
	require.NotZero(t, inv.ID)

	got, err := repo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-2024-001", got.Number)
	assert.Equal(t, domain.InvoiceStatusIssued, got.Status)
	assert.Equal(t, inv.Draft.Issuer, got.Draft.Issuer)
	assert.Equal(t, "Acme", got.Draft.Client.ClientName)
	assert.True(t, inv.Draft.Client.BillDate.Equal(got.Draft.Client.BillDate))
	require.NotNil(t, got.Draft.Client.BillDueDate)
	assert.True(t, inv.Draft.Client.BillDueDate.Equal(*got.Draft.Client.BillDueDate))
	assert.Equal(t, inv.Draft.Positions, got.Draft.Positions)
	assert.Equal(t, "230", got.NetTotal.String())
	assert.Equal(t, "44.2", got.TaxTotal.String())
	assert.Equal(t, "274.2", got.GrossTotal.String())
	assert.NoError(t, got.Validate())

	byNumber, err := repo.GetByNumber(ctx, "INV-2024-001")
	require.NoError(t, err)
	assert.Equal(t, inv.ID, byNumber.ID)
}

func TestInvoiceRepo_NotFound(t *testing.T) {
	repo := NewInvoiceRepo(openTestDB(t))
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 42)
	assert.True(t, errors.Is(err, ErrInvoiceNotFound))

	_, err = repo.GetByNumber(ctx, "nope")
	assert.True(t, errors.Is(err, ErrInvoiceNotFound))

	err = repo.UpdateStatus(ctx, &domain.Invoice{ID: 42, Status: domain.InvoiceStatusSent})
	assert.True(t, errors.Is(err, ErrInvoiceNotFound))
}

func TestInvoiceRepo_CreateRejectsInvalid(t *testing.T) {
	repo := NewInvoiceRepo(openTestDB(t))

	inv := testInvoice("")
	assert.Error(t, repo.Create(context.Background(), inv))
}

func TestInvoiceRepo_CreateIsAtomic(t *testing.T) {
	repo := NewInvoiceRepo(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testInvoice("INV-2024-001")))
	// duplicate number fails before any position is written
	assert.Error(t, repo.Create(ctx, testInvoice("INV-2024-001")))

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Len(t, all[0].Draft.Positions, 2)
}

func TestInvoiceRepo_ListAndUpdateStatus(t *testing.T) {
	repo := NewInvoiceRepo(openTestDB(t))
	ctx := context.Background()

	first := testInvoice("INV-2024-001")
	second := testInvoice("INV-2024-002")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	sentAt := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, second.MarkSent(sentAt))
	require.NoError(t, repo.UpdateStatus(ctx, second))

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "INV-2024-002", all[0].Number)

	sent := domain.InvoiceStatusSent
	onlySent, err := repo.List(ctx, &sent)
	require.NoError(t, err)
	require.Len(t, onlySent, 1)
	require.NotNil(t, onlySent[0].SentAt)
	assert.True(t, sentAt.Equal(*onlySent[0].SentAt))
}

func billedIn(inv *domain.Invoice, year int) *domain.Invoice {
	inv.Draft.Client.BillDate = time.Date(year, 3, 1, 0, 0, 0, 0, time.UTC)
	return inv
}

func TestInvoiceRepo_CreateNumbered(t *testing.T) {
	repo := NewInvoiceRepo(openTestDB(t))
	ctx := context.Background()

	first := testInvoice("")
	require.NoError(t, repo.CreateNumbered(ctx, first, "INV"))
	assert.Equal(t, "INV-2024-001", first.Number)
	assert.NotZero(t, first.ID)

	for _, n := range []string{"INV-2024-009", "INV-2023-050", "RE-2024-100"} {
		require.NoError(t, repo.Create(ctx, testInvoice(n)))
	}

	tests := []struct {
		prefix string
		year   int
		want   string
	}{
		{"INV", 2024, "INV-2024-010"},
		{"INV", 2025, "INV-2025-001"},
		{"RE", 2024, "RE-2024-101"},
		{"IN_", 2024, "IN_-2024-001"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			inv := billedIn(testInvoice(""), tt.year)
			require.NoError(t, repo.CreateNumbered(ctx, inv, tt.prefix))
			assert.Equal(t, tt.want, inv.Number)

			stored, err := repo.GetByNumber(ctx, tt.want)
			require.NoError(t, err)
			assert.Equal(t, inv.ID, stored.ID)
		})
	}
}

func TestInvoiceRepo_CreateNumberedRollsBackOnFailure(t *testing.T) {
	repo := NewInvoiceRepo(openTestDB(t))
	ctx := context.Background()

	bad := testInvoice("")
	bad.Draft.Positions = nil
	assert.Error(t, repo.CreateNumbered(ctx, bad, "INV"))

	good := testInvoice("")
	require.NoError(t, repo.CreateNumbered(ctx, good, "INV"))
	assert.Equal(t, "INV-2024-001", good.Number)
}

func TestInvoiceRepo_CreateNumberedAcrossConnections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")
	open := func() *db.DB {
		database, err := db.Open(path, "test-key")
		require.NoError(t, err)
		t.Cleanup(func() { database.Close() })
		return database
	}
	first := open()
	require.NoError(t, first.RunMigrations())
	repos := []*InvoiceRepo{NewInvoiceRepo(first), NewInvoiceRepo(open())}

	const perRepo = 5
	ctx := context.Background()
	errs := make(chan error, len(repos)*perRepo)
	var wg sync.WaitGroup
	for _, repo := range repos {
		wg.Add(1)
		go func(repo *InvoiceRepo) {
			defer wg.Done()
			for i := 0; i < perRepo; i++ {
				errs <- repo.CreateNumbered(ctx, testInvoice(""), "INV")
			}
		}(repo)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	all, err := repos[0].List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, len(repos)*perRepo)
	seen := make(map[string]bool)
	for _, inv := range all {
		assert.False(t, seen[inv.Number], "duplicate number %s", inv.Number)
		seen[inv.Number] = true
	}
	assert.True(t, seen["INV-2024-010"])
}

func TestProfileRepo(t *testing.T) {
	repo := NewProfileRepo(openTestDB(t))
	ctx := context.Background()

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	issuer := domain.Issuer{Name: "Jane Doe", Address: "Main St 1", Postcode: "10115", Country: "DE", TaxNumber: "DE123"}
	require.NoError(t, repo.Save(ctx, issuer))

	issuer.Email = "jane@example.com"
	require.NoError(t, repo.Save(ctx, issuer))

	got, err = repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, issuer, *got)

	require.NoError(t, repo.Delete(ctx))
	got, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}
