// Package testutil provides in-memory stand-ins for the store
// interfaces so service and handler tests run without Postgres.
package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ozgurcank/auth-backend/internal/models"
	"github.com/ozgurcank/auth-backend/internal/password"
	"github.com/ozgurcank/auth-backend/internal/repository"
	"github.com/ozgurcank/auth-backend/internal/validation"
)

// FakeUserRepo mirrors the postgres implementation's contract,
// including uniqueness under concurrent Create calls.
type FakeUserRepo struct {
	mu     sync.Mutex
	users  map[uuid.UUID]*models.User
	hasher *password.Hasher
}

func NewFakeUserRepo(hasher *password.Hasher) *FakeUserRepo {
	return &FakeUserRepo{users: make(map[uuid.UUID]*models.User), hasher: hasher}
}

func (f *FakeUserRepo) Create(_ context.Context, params repository.CreateUserParams) (*models.User, error) {
	username := strings.TrimSpace(params.Username)
	email := strings.ToLower(strings.TrimSpace(params.Email))

	if err := validation.Username(username); err != nil {
		return nil, err
	}
	if err := validation.Email(email); err != nil {
		return nil, err
	}

	authType := params.AuthType
	if authType == "" {
		authType = models.AuthTypeLocal
	}

	var passwordHash string
	if authType == models.AuthTypeLocal {
		if err := validation.Password(params.Password); err != nil {
			return nil, err
		}
		hash, err := f.hasher.Hash(params.Password)
		if err != nil {
			return nil, err
		}
		passwordHash = hash
	}

	role := params.Role
	if role == "" {
		role = models.RoleUser
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Username == username {
			return nil, repository.ErrDuplicateUsername
		}
		if u.Email == email {
			return nil, repository.ErrDuplicateEmail
		}
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		AuthType:     authType,
		GoogleID:     params.GoogleID,
		AvatarPath:   models.DefaultAvatarPath,
		Role:         role,
		IsVerified:   params.Verified,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.users[user.ID] = user

	return safeCopy(user), nil
}

func (f *FakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return safeCopy(u), nil
	}
	return nil, repository.ErrUserNotFound
}

func (f *FakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.Email == email {
			return safeCopy(u), nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *FakeUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	username = strings.TrimSpace(username)
	for _, u := range f.users {
		if u.Username == username {
			return safeCopy(u), nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *FakeUserRepo) FindByEmailWithSecret(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *FakeUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		now := time.Now()
		u.LastLoginAt = &now
		return nil
	}
	return repository.ErrUserNotFound
}

func (f *FakeUserRepo) UpdateProfile(_ context.Context, id uuid.UUID, params repository.UpdateProfileParams) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	if params.Username != nil {
		username := strings.TrimSpace(*params.Username)
		if err := validation.Username(username); err != nil {
			return nil, err
		}
		for otherID, other := range f.users {
			if otherID != id && other.Username == username {
				return nil, repository.ErrDuplicateUsername
			}
		}
		u.Username = username
	}
	if params.AvatarPath != nil {
		u.AvatarPath = *params.AvatarPath
	}
	u.UpdatedAt = time.Now()

	return safeCopy(u), nil
}

func (f *FakeUserRepo) List(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, *safeCopy(u))
	}
	return users, nil
}

// Delete removes a user directly; tests use it to model a subject
// deleted after token issuance.
func (f *FakeUserRepo) Delete(id uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
}

// SetRole and SetVerified poke fields the public API has no mutation
// for.
func (f *FakeUserRepo) SetRole(id uuid.UUID, role string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.Role = role
	}
}

func (f *FakeUserRepo) SetVerified(id uuid.UUID, verified bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.IsVerified = verified
	}
}

func safeCopy(u *models.User) *models.User {
	clone := *u
	clone.PasswordHash = ""
	return &clone
}

// FakeRefreshTokenRepo keeps refresh-token rows in memory.
type FakeRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[uuid.UUID]*models.RefreshToken
}

func NewFakeRefreshTokenRepo() *FakeRefreshTokenRepo {
	return &FakeRefreshTokenRepo{tokens: make(map[uuid.UUID]*models.RefreshToken)}
}

func (f *FakeRefreshTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *token
	f.tokens[token.ID] = &clone
	return nil
}

func (f *FakeRefreshTokenRepo) FindByHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.TokenHash == tokenHash {
			clone := *t
			return &clone, nil
		}
	}
	return nil, repository.ErrTokenNotFound
}

func (f *FakeRefreshTokenRepo) Revoke(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tokens[id]; ok {
		t.Revoked = true
		return nil
	}
	return repository.ErrTokenNotFound
}

func (f *FakeRefreshTokenRepo) RevokeAllForUser(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.UserID == userID {
			t.Revoked = true
		}
	}
	return nil
}

// ActiveCount reports how many unrevoked rows a user has.
func (f *FakeRefreshTokenRepo) ActiveCount(userID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tokens {
		if t.UserID == userID && !t.Revoked {
			n++
		}
	}
	return n
}
