package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/ozgurcank/auth-backend/internal/repository"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "username unique violation",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_username"},
			want: repository.ErrDuplicateUsername,
		},
		{
			name: "email unique violation",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"},
			want: repository.ErrDuplicateEmail,
		},
		{
			name: "wrapped unique violation",
			err:  fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}),
			want: repository.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translateError(tt.err), tt.want)
		})
	}
}

func TestTranslateErrorPassesThroughOtherErrors(t *testing.T) {
	cause := errors.New("connection reset")
	got := translateError(cause)
	assert.ErrorIs(t, got, cause)
	assert.NotErrorIs(t, got, repository.ErrDuplicateEmail)
	assert.NotErrorIs(t, got, repository.ErrDuplicateUsername)

	// A non-unique constraint error is not a duplicate either.
	got = translateError(&pgconn.PgError{Code: "23503", ConstraintName: "fk_refresh_tokens_user"})
	assert.NotErrorIs(t, got, repository.ErrDuplicateEmail)
}
