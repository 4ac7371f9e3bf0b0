package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ozgurcank/auth-backend/internal/models"
	"github.com/ozgurcank/auth-backend/internal/password"
	"github.com/ozgurcank/auth-backend/internal/repository"
	"github.com/ozgurcank/auth-backend/internal/token"
)

var (
	ErrMissingFields    = errors.New("all fields are required")
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrInvalidCredentials covers both unknown email and wrong
	// password; callers must not distinguish them.
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

type AuthService struct {
	users         repository.UserRepository
	refreshTokens repository.RefreshTokenRepository
	hasher        *password.Hasher
	tokens        *token.Service
	refreshTTL    time.Duration
}

func NewAuthService(
	users repository.UserRepository,
	refreshTokens repository.RefreshTokenRepository,
	hasher *password.Hasher,
	tokens *token.Service,
	refreshTTL time.Duration,
) *AuthService {
	return &AuthService{
		users:         users,
		refreshTokens: refreshTokens,
		hasher:        hasher,
		tokens:        tokens,
		refreshTTL:    refreshTTL,
	}
}

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User             *models.User
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Register creates a local account and issues a session. Either the
// user exists with tokens issued afterwards, or nothing was persisted.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if strings.TrimSpace(input.Username) == "" || strings.TrimSpace(input.Email) == "" ||
		input.Password == "" || input.ConfirmPassword == "" {
		return nil, ErrMissingFields
	}
	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	user, err := s.users.Create(ctx, repository.CreateUserParams{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		AuthType: models.AuthTypeLocal,
	})
	if err != nil {
		return nil, err
	}

	return s.issuePair(ctx, user)
}

// Login verifies credentials against the stored hash. Unknown email and
// wrong password return the same error, deliberately.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.users.FindByEmailWithSecret(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.AuthType != models.AuthTypeLocal || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("credential check failed: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		// Login still succeeds; the timestamp is advisory.
		slog.Error("failed to update last login", "user_id", user.ID.String(), "error", err)
	} else {
		now := time.Now()
		user.LastLoginAt = &now
	}

	user.PasswordHash = ""
	return s.issuePair(ctx, user)
}

// Refresh rotates a refresh token: the presented one is revoked and a
// new pair issued. A revoked token showing up again means it leaked or
// was replayed after rotation, so every session for that user is
// revoked.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*AuthResult, error) {
	if rawToken == "" {
		return nil, ErrInvalidRefreshToken
	}

	stored, err := s.refreshTokens.FindByHash(ctx, hashToken(rawToken))
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if stored.Revoked {
		if err := s.refreshTokens.RevokeAllForUser(ctx, stored.UserID); err != nil {
			slog.Error("failed to revoke sessions after refresh token reuse",
				"user_id", stored.UserID.String(), "error", err)
		}
		return nil, ErrInvalidRefreshToken
	}

	if time.Now().After(stored.ExpiresAt) {
		if err := s.refreshTokens.Revoke(ctx, stored.ID); err != nil {
			slog.Error("failed to revoke expired refresh token", "error", err)
		}
		return nil, ErrInvalidRefreshToken
	}

	if err := s.refreshTokens.Revoke(ctx, stored.ID); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	return s.issuePair(ctx, user)
}

// Logout revokes the presented refresh token, if any. It is idempotent
// and never fails the client: the stateless access token cannot be
// recalled and simply ages out.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}

	stored, err := s.refreshTokens.FindByHash(ctx, hashToken(rawToken))
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil
		}
		return err
	}
	if stored.Revoked {
		return nil
	}
	return s.refreshTokens.Revoke(ctx, stored.ID)
}

func (s *AuthService) issuePair(ctx context.Context, user *models.User) (*AuthResult, error) {
	accessToken, accessExpiresAt, err := s.tokens.Issue(user.ID.String())
	if err != nil {
		return nil, err
	}

	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	rawRefresh := base64.URLEncoding.EncodeToString(rawBytes)
	refreshExpiresAt := time.Now().Add(s.refreshTTL)

	record := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(rawRefresh),
		ExpiresAt: refreshExpiresAt,
	}
	if err := s.refreshTokens.Create(ctx, record); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:             user,
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshToken:     rawRefresh,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
