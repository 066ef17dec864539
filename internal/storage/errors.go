package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound - no row with the requested id exists.
	ErrNotFound = errors.New("record not found")

	// ErrConflict - the stored row version differs from the one the caller
	// read; another writer committed first.
	ErrConflict = errors.New("row version mismatch")

	// ErrConstraintViolation - a foreign key does not resolve to an existing
	// row.
	ErrConstraintViolation = errors.New("foreign key constraint violation")
)

// pgForeignKeyViolation is the Postgres SQLSTATE for a foreign key failure.
const pgForeignKeyViolation = "23503"

// classify translates driver-level failures into the gateway's sentinel
// errors. Sentinels that already passed through lower layers are returned
// unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) || errors.Is(err, ErrConstraintViolation) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	}
	return err
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return true
	}
	// The pure-Go sqlite driver used in tests reports constraint failures
	// as plain strings.
	return strings.Contains(err.Error(), "FOREIGN KEY constraint")
}
