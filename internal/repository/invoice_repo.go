package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/andy/invoicewiz/internal/db"
	"github.com/andy/invoicewiz/internal/domain"
)

const invoiceColumns = `
	id, invoice_number, status,
	issuer_name, issuer_address, issuer_postcode, issuer_country, issuer_tax_number,
	issuer_email, issuer_website, issuer_bank_name, issuer_iban, issuer_bic,
	client_name, client_address, client_postcode, client_country, client_tax_number,
	subject, bill_number, bill_date, delivery_date, bill_due_date,
	text, currency, net_total, tax_total, gross_total,
	sent_at, paid_at, created_at, updated_at`

// InvoiceRepo is a SQLite implementation of InvoiceRepository
type InvoiceRepo struct {
	db *db.DB
}

// NewInvoiceRepo creates a new InvoiceRepo
func NewInvoiceRepo(database *db.DB) *InvoiceRepo {
	return &InvoiceRepo{db: database}
}

// Create inserts the invoice and its positions
func (r *InvoiceRepo) Create(ctx context.Context, invoice *domain.Invoice) error {
	if err := invoice.Validate(); err != nil {
		return fmt.Errorf("invalid invoice: %w", err)
	}
	return r.db.InTx(ctx, func(tx *sql.Tx) error {
		return insertInvoice(ctx, tx, invoice)
	})
}

// CreateNumbered numbers and inserts the invoice. The sequence is read in
// the inserting transaction so concurrent writers cannot share a number.
func (r *InvoiceRepo) CreateNumbered(ctx context.Context, invoice *domain.Invoice, prefix string) error {
	return r.db.InTx(ctx, func(tx *sql.Tx) error {
		number, err := nextInvoiceNumber(ctx, tx, prefix, invoice.Draft.Client.BillDate.Year())
		if err != nil {
			return err
		}
		invoice.Number = number
		if err := invoice.Validate(); err != nil {
			return fmt.Errorf("invalid invoice: %w", err)
		}
		return insertInvoice(ctx, tx, invoice)
	})
}

func insertInvoice(ctx context.Context, tx *sql.Tx, invoice *domain.Invoice) error {
	query := `
		INSERT INTO invoices (
			invoice_number, status,
			issuer_name, issuer_address, issuer_postcode, issuer_country, issuer_tax_number,
			issuer_email, issuer_website, issuer_bank_name, issuer_iban, issuer_bic,
			client_name, client_address, client_postcode, client_country, client_tax_number,
			subject, bill_number, bill_date, delivery_date, bill_due_date,
			text, currency, net_total, tax_total, gross_total,
			sent_at, paid_at, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	is := invoice.Draft.Issuer
	c := invoice.Draft.Client

	result, err := tx.ExecContext(ctx, query,
		invoice.Number,
		string(invoice.Status),
		is.Name, is.Address, is.Postcode, is.Country, is.TaxNumber,
		is.Email, is.Website, is.BankName, is.IBAN, is.BIC,
		c.ClientName, c.ClientAddress, c.ClientPostcode, c.ClientCountry, c.TaxNumber,
		c.Subject, c.BillNumber, formatTime(c.BillDate), formatTime(c.DeliveryDate), nullableTime(c.BillDueDate),
		invoice.Draft.Text,
		invoice.Currency,
		invoice.NetTotal.StringFixed(2),
		invoice.TaxTotal.StringFixed(2),
		invoice.GrossTotal.StringFixed(2),
		nullableTime(invoice.SentAt),
		nullableTime(invoice.PaidAt),
		formatTime(invoice.CreatedAt),
		formatTime(invoice.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get invoice ID: %w", err)
	}

	for i, p := range invoice.Draft.Positions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO invoice_positions (
				invoice_id, position, name, amount, unit, unit_price,
				currency, tax_percent, discount_percent, gross_amount
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			id, i, p.Name, p.Amount, p.Unit, p.UnitPrice,
			p.Currency, p.TaxPercent, p.DiscountPercent, p.GrossAmount,
		)
		if err != nil {
			return fmt.Errorf("failed to add position %d: %w", i+1, err)
		}
	}

	invoice.ID = id
	return nil
}

// GetByID retrieves an invoice with its positions
func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByNumber retrieves an invoice by invoice number
func (r *InvoiceRepo) GetByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	return r.getOne(ctx, "invoice_number = ?", number)
}

func (r *InvoiceRepo) getOne(ctx context.Context, where string, arg any) (*domain.Invoice, error) {
	query := "SELECT " + invoiceColumns + " FROM invoices WHERE " + where

	invoice, err := scanInvoice(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %v", ErrInvoiceNotFound, arg)
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	if invoice.Draft.Positions, err = r.GetPositions(ctx, invoice.ID); err != nil {
		return nil, err
	}
	return invoice, nil
}

// List retrieves invoices, newest first, optionally filtered by status
func (r *InvoiceRepo) List(ctx context.Context, status *domain.InvoiceStatus) ([]*domain.Invoice, error) {
	query := "SELECT " + invoiceColumns + " FROM invoices WHERE 1=1"
	args := make([]any, 0)

	if status != nil {
		query += " AND status = ?"
		args = append(args, string(*status))
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	invoices := make([]*domain.Invoice, 0)
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating invoices: %w", err)
	}
	// Release the connection before loading positions.
	rows.Close()

	for _, invoice := range invoices {
		if invoice.Draft.Positions, err = r.GetPositions(ctx, invoice.ID); err != nil {
			return nil, err
		}
	}
	return invoices, nil
}

// UpdateStatus persists lifecycle changes of an invoice
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, invoice *domain.Invoice) error {
	invoice.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, `
		UPDATE invoices
		SET status = ?, sent_at = ?, paid_at = ?, updated_at = ?
		WHERE id = ?
	`,
		string(invoice.Status),
		nullableTime(invoice.SentAt),
		nullableTime(invoice.PaidAt),
		formatTime(invoice.UpdatedAt),
		invoice.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %d", ErrInvoiceNotFound, invoice.ID)
	}
	return nil
}

// GetPositions retrieves the positions of an invoice in entry order
func (r *InvoiceRepo) GetPositions(ctx context.Context, invoiceID int64) ([]domain.LineItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, amount, unit, unit_price, currency, tax_percent, discount_percent, gross_amount
		FROM invoice_positions
		WHERE invoice_id = ?
		ORDER BY position
	`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get positions: %w", err)
	}
	defer rows.Close()

	items := make([]domain.LineItem, 0)
	for rows.Next() {
		var item domain.LineItem
		err := rows.Scan(
			&item.Name,
			&item.Amount,
			&item.Unit,
			&item.UnitPrice,
			&item.Currency,
			&item.TaxPercent,
			&item.DiscountPercent,
			&item.GrossAmount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}
	return items, nil
}

// nextInvoiceNumber generates the next invoice number in format "PREFIX-YEAR-SEQUENCE"
func nextInvoiceNumber(ctx context.Context, tx *sql.Tx, prefix string, year int) (string, error) {
	base := fmt.Sprintf("%s-%d-", prefix, year)

	rows, err := tx.QueryContext(ctx,
		"SELECT invoice_number FROM invoices WHERE invoice_number LIKE ? ESCAPE '\\'",
		escapeLike(base)+"%",
	)
	if err != nil {
		return "", fmt.Errorf("failed to get last invoice number: %w", err)
	}
	defer rows.Close()

	// Compare numerically so 1000 sorts after 999.
	last := 0
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return "", fmt.Errorf("failed to scan invoice number: %w", err)
		}
		if seq, err := strconv.Atoi(strings.TrimPrefix(number, base)); err == nil && seq > last {
			last = seq
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("error iterating invoice numbers: %w", err)
	}

	return fmt.Sprintf("%s%03d", base, last+1), nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanInvoice(row scanner) (*domain.Invoice, error) {
	invoice := &domain.Invoice{}
	is := &invoice.Draft.Issuer
	c := &invoice.Draft.Client

	var status, billDate, deliveryDate, createdAt, updatedAt string
	var dueDate, sentAt, paidAt sql.NullString

	err := row.Scan(
		&invoice.ID, &invoice.Number, &status,
		&is.Name, &is.Address, &is.Postcode, &is.Country, &is.TaxNumber,
		&is.Email, &is.Website, &is.BankName, &is.IBAN, &is.BIC,
		&c.ClientName, &c.ClientAddress, &c.ClientPostcode, &c.ClientCountry, &c.TaxNumber,
		&c.Subject, &c.BillNumber, &billDate, &deliveryDate, &dueDate,
		&invoice.Draft.Text, &invoice.Currency,
		&invoice.NetTotal, &invoice.TaxTotal, &invoice.GrossTotal,
		&sentAt, &paidAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	invoice.Status = domain.InvoiceStatus(status)

	if c.BillDate, err = parseTime(billDate); err != nil {
		return nil, fmt.Errorf("failed to parse bill_date: %w", err)
	}
	if c.DeliveryDate, err = parseTime(deliveryDate); err != nil {
		return nil, fmt.Errorf("failed to parse delivery_date: %w", err)
	}
	if c.BillDueDate, err = parseNullableTime("bill_due_date", dueDate); err != nil {
		return nil, err
	}
	if invoice.SentAt, err = parseNullableTime("sent_at", sentAt); err != nil {
		return nil, err
	}
	if invoice.PaidAt, err = parseNullableTime("paid_at", paidAt); err != nil {
		return nil, err
	}
	if invoice.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if invoice.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return invoice, nil
}
