package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mutecomm/go-sqlcipher/v4"
)

type DB struct {
	*sql.DB
}

// Open opens an encrypted SQLite database with the given password.
// dbPath is the full path to the database file.
func Open(dbPath, password string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Write transactions take the lock on BEGIN so a second process waits
	// instead of failing on the read-to-write upgrade.
	connStr := fmt.Sprintf("%s?_key=%s&_txlock=immediate&_busy_timeout=5000", dbPath, url.QueryEscape(password))

	sqlDB, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// PRAGMAs are per connection
	sqlDB.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: sqlDB}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// InTx runs fn inside a transaction, committing only when fn succeeds.
func (db *DB) InTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Truncate deletes every row of the given tables in order, in one
// transaction. Children must be listed before their parents.
func (db *DB) Truncate(ctx context.Context, tables ...string) error {
	return db.InTx(ctx, func(tx *sql.Tx) error {
		for _, table := range tables {
			if !knownTables[table] {
				return fmt.Errorf("unknown table %q", table)
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}
