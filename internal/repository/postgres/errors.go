package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ozgurcank/auth-backend/internal/repository"
)

// translateError maps Postgres unique-violation errors onto the store's
// sentinel errors by constraint name, so a racing duplicate insert loses
// with the right domain error instead of a driver error.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		switch {
		case strings.Contains(pgErr.ConstraintName, "username"):
			return repository.ErrDuplicateUsername
		case strings.Contains(pgErr.ConstraintName, "email"):
			return repository.ErrDuplicateEmail
		}
	}
	return fmt.Errorf("user store write failed: %w", err)
}
