package repository

import (
	"context"
	"errors"

	"github.com/andy/invoicewiz/internal/domain"
)

// ErrInvoiceNotFound is returned when no invoice matches an id or number.
var ErrInvoiceNotFound = errors.New("invoice not found")

// InvoiceRepository manages invoice persistence
type InvoiceRepository interface {
	// Create stores the invoice and its positions in one transaction.
	Create(ctx context.Context, invoice *domain.Invoice) error
	// CreateNumbered assigns the next "PREFIX-YEAR-SEQ" number for the
	// invoice's bill date and stores it, in the same transaction.
	CreateNumbered(ctx context.Context, invoice *domain.Invoice, prefix string) error
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*domain.Invoice, error)
	List(ctx context.Context, status *domain.InvoiceStatus) ([]*domain.Invoice, error)
	// UpdateStatus persists status, sent and paid dates.
	UpdateStatus(ctx context.Context, invoice *domain.Invoice) error
	GetPositions(ctx context.Context, invoiceID int64) ([]domain.LineItem, error)
}

// ProfileRepository manages the remembered issuer (singleton)
type ProfileRepository interface {
	Get(ctx context.Context) (*domain.Issuer, error) // Returns nil if none saved
	Save(ctx context.Context, issuer domain.Issuer) error
	Delete(ctx context.Context) error
}
