package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andy/invoicewiz/internal/db"
	"github.com/andy/invoicewiz/internal/domain"
)

// ProfileRepo is a SQLite implementation of ProfileRepository
type ProfileRepo struct {
	db *db.DB
}

// NewProfileRepo creates a new ProfileRepo
func NewProfileRepo(database *db.DB) *ProfileRepo {
	return &ProfileRepo{db: database}
}

// Get retrieves the remembered issuer, or returns nil if none was saved
func (r *ProfileRepo) Get(ctx context.Context) (*domain.Issuer, error) {
	query := `
		SELECT name, address, postcode, country, tax_number, email, website, bank_name, iban, bic
		FROM issuer_profile
		WHERE id = 1
	`

	issuer := &domain.Issuer{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&issuer.Name,
		&issuer.Address,
		&issuer.Postcode,
		&issuer.Country,
		&issuer.TaxNumber,
		&issuer.Email,
		&issuer.Website,
		&issuer.BankName,
		&issuer.IBAN,
		&issuer.BIC,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get issuer profile: %w", err)
	}

	return issuer, nil
}

// Save stores the issuer (insert or replace)
func (r *ProfileRepo) Save(ctx context.Context, issuer domain.Issuer) error {
	query := `
		INSERT OR REPLACE INTO issuer_profile (
			id, name, address, postcode, country, tax_number,
			email, website, bank_name, iban, bic, updated_at
		)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		issuer.Name,
		issuer.Address,
		issuer.Postcode,
		issuer.Country,
		issuer.TaxNumber,
		issuer.Email,
		issuer.Website,
		issuer.BankName,
		issuer.IBAN,
		issuer.BIC,
		formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to save issuer profile: %w", err)
	}

	return nil
}

// Delete forgets the remembered issuer
func (r *ProfileRepo) Delete(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM issuer_profile WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to delete issuer profile: %w", err)
	}
	return nil
}
