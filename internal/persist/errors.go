package persist

import (
	"database/sql"
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates the item has no row.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates the item already has a row.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrConstraint indicates a check constraint violation (e.g. unknown type).
	ErrConstraint = errors.New("constraint violation")
)

// mapSQLiteError converts SQLite errors to the package sentinels.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	// modernc.org/sqlite only exposes constraint kinds through the message.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "PRIMARY KEY constraint failed"):
		return ErrDuplicate
	case strings.Contains(msg, "CHECK constraint failed"),
		strings.Contains(msg, "NOT NULL constraint failed"):
		return ErrConstraint
	}
	return err
}
