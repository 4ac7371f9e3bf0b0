package database

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/ozgurcank/auth-backend/internal/models"
	"github.com/ozgurcank/auth-backend/internal/password"
	"github.com/ozgurcank/auth-backend/internal/repository"
	"github.com/ozgurcank/auth-backend/internal/repository/postgres"
)

var demoUsers = []repository.CreateUserParams{
	{Username: "admin", Email: "admin@example.com", Password: "Admin123!4567", Role: models.RoleAdmin, Verified: true},
	{Username: "john_doe", Email: "john@example.com", Password: "User123!4567", Verified: true},
	{Username: "jane_smith", Email: "jane@example.com", Password: "User123!4567"},
	{Username: "mike_wilson", Email: "mike@example.com", Password: "User123!4567", Verified: true},
	{Username: "sarah_jones", Email: "sarah@example.com", Password: "User123!4567"},
}

// SeedDemoUsers inserts the demo accounts, skipping ones that already
// exist. Development convenience only; gated by SEED_DEMO_DATA.
func SeedDemoUsers(ctx context.Context, db *gorm.DB, hasher *password.Hasher) error {
	users := postgres.NewUserRepo(db, hasher)

	for _, params := range demoUsers {
		params.AuthType = models.AuthTypeLocal
		if _, err := users.Create(ctx, params); err != nil {
			if errors.Is(err, repository.ErrDuplicateUsername) || errors.Is(err, repository.ErrDuplicateEmail) {
				continue
			}
			return err
		}
		slog.Info("seeded demo user", "username", params.Username)
	}
	return nil
}
