package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ozgurcank/auth-backend/internal/models"
	"github.com/ozgurcank/auth-backend/internal/password"
	"github.com/ozgurcank/auth-backend/internal/repository"
	"github.com/ozgurcank/auth-backend/internal/validation"
)

type UserRepo struct {
	db     *gorm.DB
	hasher *password.Hasher
}

func NewUserRepo(db *gorm.DB, hasher *password.Hasher) *UserRepo {
	return &UserRepo{db: db, hasher: hasher}
}

// Create normalizes and validates the input, hashes the password for
// local accounts, and inserts. Uniqueness races are settled by the
// database indexes; the loser gets the matching duplicate error.
func (r *UserRepo) Create(ctx context.Context, params repository.CreateUserParams) (*models.User, error) {
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
		hash, err := r.hasher.Hash(params.Password)
		if err != nil {
			return nil, err
		}
		passwordHash = hash
	}

	role := params.Role
	if role == "" {
		role = models.RoleUser
	}

	user := models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		AuthType:     authType,
		GoogleID:     params.GoogleID,
		AvatarPath:   models.DefaultAvatarPath,
		Role:         role,
		IsVerified:   params.Verified,
	}

	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, translateError(err)
	}

	user.PasswordHash = ""
	return &user, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = ?", strings.TrimSpace(username))
}

// FindByEmailWithSecret includes the password hash. Login verification
// is its only caller.
func (r *UserRepo) FindByEmailWithSecret(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// UpdateLastLogin touches only the one column, skipping hooks and
// full-record validation.
func (r *UserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", now)
	if result.Error != nil {
		return fmt.Errorf("failed to update last login: %w", result.Error)
	}
	return nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, params repository.UpdateProfileParams) (*models.User, error) {
	updates := map[string]interface{}{}
	if params.Username != nil {
		username := strings.TrimSpace(*params.Username)
		if err := validation.Username(username); err != nil {
			return nil, err
		}
		updates["username"] = username
	}
	if params.AvatarPath != nil {
		updates["avatar_path"] = *params.AvatarPath
	}

	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", id).
			Updates(updates)
		if result.Error != nil {
			return nil, translateError(result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, repository.ErrUserNotFound
		}
	}

	return r.FindByID(ctx, id)
}

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Select(repository.SafeUserColumns).
		Order("created_at").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Select(repository.SafeUserColumns).
		Where(query, arg).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}
