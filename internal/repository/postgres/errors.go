package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// isDuplicateError checks if err is a unique constraint violation (23505).
func isDuplicateError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// isNoRowsError checks if err is a "no rows" error.
func isNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
