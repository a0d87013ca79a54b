package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when no row matches the requested key.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when an insert violates a unique constraint.
	ErrConflict = errors.New("already exists")
)

// uniqueViolation is the Postgres SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

// mapConflict translates a unique violation into ErrConflict, keeping the
// constraint detail so handlers can report what collided. Other errors pass
// through unchanged.
func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		detail := pgErr.Detail
		if detail == "" {
			detail = pgErr.Message
		}
		return fmt.Errorf("%w: %s", ErrConflict, detail)
	}
	return err
}
