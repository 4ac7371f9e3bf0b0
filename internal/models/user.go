package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	AuthTypeLocal  = "local"
	AuthTypeGoogle = "google"

	RoleUser  = "user"
	RoleAdmin = "admin"

	DefaultAvatarPath = "/uploads/avatars/default-avatar.png"
)

// User is the persisted identity record. PasswordHash is set only for
// local accounts and is never serialized; default reads omit the column
// entirely (see repository.SafeUserColumns).
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username     string     `gorm:"size:50;not null;uniqueIndex:idx_users_username" json:"username"`
	Email        string     `gorm:"size:255;not null;uniqueIndex:idx_users_email" json:"email"`
	PasswordHash string     `gorm:"size:100" json:"-"`
	AuthType     string     `gorm:"size:20;not null;default:'local'" json:"auth_type"`
	GoogleID     *string    `gorm:"size:255;uniqueIndex:idx_users_google_id" json:"-"`
	AvatarPath   string     `gorm:"size:255;default:'/uploads/avatars/default-avatar.png'" json:"avatar_path"`
	Role         string     `gorm:"size:20;not null;default:'user'" json:"role"`
	IsVerified   bool       `gorm:"not null;default:false" json:"is_verified"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
