package repository

import (
	"database/sql"
	"fmt"
	"time"
)

// timeLayout is the RFC3339 format for storing times in SQLite
const timeLayout = time.RFC3339

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// parseTime parses a time string in RFC3339 format
func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

// nullableTime formats t for a nullable column.
func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// parseNullableTime is the inverse of nullableTime.
func parseNullableTime(column string, s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return &t, nil
}
