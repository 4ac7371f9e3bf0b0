package testutil

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/ozgurcank/auth-backend/internal/config"
	"github.com/ozgurcank/auth-backend/internal/handlers"
	"github.com/ozgurcank/auth-backend/internal/password"
	"github.com/ozgurcank/auth-backend/internal/routes"
	"github.com/ozgurcank/auth-backend/internal/services"
	"github.com/ozgurcank/auth-backend/internal/token"
)

// App bundles a fully wired Fiber app over in-memory stores.
type App struct {
	Fiber       *fiber.App
	Users       *FakeUserRepo
	Refresh     *FakeRefreshTokenRepo
	Hasher      *password.Hasher
	Tokens      *token.Service
	AuthService *services.AuthService
	Config      *config.Config
}

// TestConfig returns settings suitable for tests: minimum bcrypt cost,
// short-but-valid token lifetimes, non-production env.
func TestConfig() *config.Config {
	return &config.Config{
		Port:             "0",
		Env:              "test",
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
		BcryptCost:       bcrypt.MinCost,
		ClientURL:        "http://localhost:3000",
	}
}

// NewApp wires handlers, routes, and fakes the way cmd/server does with
// real stores.
func NewApp() *App {
	cfg := TestConfig()
	hasher := password.NewHasher(cfg.BcryptCost)
	tokens := token.NewService(cfg.JWTSecret, cfg.JWTAccessExpiry)
	users := NewFakeUserRepo(hasher)
	refresh := NewFakeRefreshTokenRepo()
	authService := services.NewAuthService(users, refresh, hasher, tokens, cfg.JWTRefreshExpiry)

	app := fiber.New()
	routes.Setup(app, tokens, users,
		handlers.NewAuthHandler(authService, cfg),
		handlers.NewUserHandler(users),
		handlers.NewHealthHandler(nil, cfg.Env),
	)

	return &App{
		Fiber:       app,
		Users:       users,
		Refresh:     refresh,
		Hasher:      hasher,
		Tokens:      tokens,
		AuthService: authService,
		Config:      cfg,
	}
}
