// Package repository defines error types that are reused across all
// repositories.  These sentinel values let handlers distinguish the failure
// scenarios they map onto HTTP statuses without inspecting driver errors.
package repository

import (
	"database/sql"
	"errors"

	"github.com/iliyamo/eco-education/internal/database"
)

// ErrNotFound is returned when a lookup by id (or username) matches no row.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert violates a unique key, such as a
// second user with the same username or email.  Handlers should translate
// this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// notFound maps sql.ErrNoRows onto ErrNotFound and passes other errors on.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// conflict maps unique-key violations onto ErrConflict.
func conflict(err error) error {
	if database.IsUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
