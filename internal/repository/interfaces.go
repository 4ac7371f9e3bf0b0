// Package repository defines the store contracts the use cases depend
// on. Postgres implementations live in the postgres subpackage; tests
// substitute in-memory fakes.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ozgurcank/auth-backend/internal/models"
)

var (
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrUserNotFound      = errors.New("user not found")
	ErrTokenNotFound     = errors.New("refresh token not found")
)

// SafeUserColumns are the columns returned by default lookups. The
// password hash is deliberately absent; only FindByEmailWithSecret
// reads it, for login verification.
var SafeUserColumns = []string{
	"id", "username", "email", "auth_type", "avatar_path",
	"role", "is_verified", "last_login_at", "created_at", "updated_at",
}

// CreateUserParams carries the raw registration input. Password is
// plaintext here and must be empty for non-local auth types; the store
// hashes it and never persists the original.
type CreateUserParams struct {
	Username string
	Email    string
	Password string
	AuthType string
	GoogleID *string
	Role     string
	Verified bool
}

// UpdateProfileParams holds the mutable profile fields; nil means keep.
type UpdateProfileParams struct {
	Username   *string
	AvatarPath *string
}

type UserRepository interface {
	Create(ctx context.Context, params CreateUserParams) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmailWithSecret(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	UpdateProfile(ctx context.Context, id uuid.UUID, params UpdateProfileParams) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	// FindByHash returns the row whatever its revocation state; callers
	// decide what a revoked token showing up again means.
	FindByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
}
