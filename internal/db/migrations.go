package db

import (
	"fmt"
)

type migration struct {
	version int
	sql     string
}

// Table names accepted by Truncate.
const (
	TableIssuerProfile    = "issuer_profile"
	TableInvoices         = "invoices"
	TableInvoicePositions = "invoice_positions"
)

var knownTables = map[string]bool{
	TableIssuerProfile:    true,
	TableInvoices:         true,
	TableInvoicePositions: true,
}

var migrations = []migration{
	{
		version: 1,
		sql: `
-- Remembered issuer details (singleton)
CREATE TABLE issuer_profile (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    name TEXT NOT NULL,
    address TEXT NOT NULL,
    postcode TEXT NOT NULL,
    country TEXT NOT NULL,
    tax_number TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    website TEXT NOT NULL DEFAULT '',
    bank_name TEXT NOT NULL DEFAULT '',
    iban TEXT NOT NULL DEFAULT '',
    bic TEXT NOT NULL DEFAULT '',
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Issued invoices with a snapshot of issuer and client data
CREATE TABLE invoices (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    invoice_number TEXT NOT NULL UNIQUE,
    status TEXT NOT NULL DEFAULT 'issued',

    issuer_name TEXT NOT NULL,
    issuer_address TEXT NOT NULL,
    issuer_postcode TEXT NOT NULL,
    issuer_country TEXT NOT NULL,
    issuer_tax_number TEXT NOT NULL,
    issuer_email TEXT NOT NULL DEFAULT '',
    issuer_website TEXT NOT NULL DEFAULT '',
    issuer_bank_name TEXT NOT NULL DEFAULT '',
    issuer_iban TEXT NOT NULL DEFAULT '',
    issuer_bic TEXT NOT NULL DEFAULT '',

    client_name TEXT NOT NULL,
    client_address TEXT NOT NULL DEFAULT '',
    client_postcode TEXT NOT NULL DEFAULT '',
    client_country TEXT NOT NULL,
    client_tax_number TEXT NOT NULL DEFAULT '',
    subject TEXT NOT NULL DEFAULT '',
    bill_number TEXT NOT NULL,
    bill_date TEXT NOT NULL,
    delivery_date TEXT NOT NULL,
    bill_due_date TEXT,

    text TEXT NOT NULL,
    currency TEXT NOT NULL,
    net_total TEXT NOT NULL,
    tax_total TEXT NOT NULL,
    gross_total TEXT NOT NULL,

    sent_at TEXT,
    paid_at TEXT,
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Ordered positions of an invoice
CREATE TABLE invoice_positions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    invoice_id INTEGER NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    amount REAL NOT NULL,
    unit TEXT NOT NULL,
    unit_price REAL NOT NULL,
    currency TEXT NOT NULL,
    tax_percent REAL NOT NULL,
    discount_percent REAL NOT NULL DEFAULT 0,
    gross_amount REAL NOT NULL,
    UNIQUE (invoice_id, position)
);

CREATE INDEX idx_invoices_status ON invoices(status);
`,
	},
	{
		version: 2,
		sql: `
-- Overdue checks scan sent invoices by due date
CREATE INDEX idx_invoices_due ON invoices(status, bill_due_date);
`,
	},
}

// RunMigrations applies all pending database migrations
func (db *DB) RunMigrations() error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	current, err := db.SchemaVersion()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := tx.Exec(m.sql); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migrations: %w", err)
	}
	return nil
}

// SchemaVersion returns the highest applied migration, or 0.
func (db *DB) SchemaVersion() (int, error) {
	var v int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return v, nil
}

// LatestVersion is the version RunMigrations brings a database to.
func LatestVersion() int {
	return migrations[len(migrations)-1].version
}
