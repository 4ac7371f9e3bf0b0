package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ozgurcank/auth-backend/internal/handlers"
	"github.com/ozgurcank/auth-backend/internal/middleware"
	"github.com/ozgurcank/auth-backend/internal/repository"
	"github.com/ozgurcank/auth-backend/internal/token"
)

func Setup(
	app *fiber.App,
	tokens *token.Service,
	users repository.UserRepository,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	healthHandler *handlers.HealthHandler,
) {
	app.Get("/health", healthHandler.Check)

	v1 := app.Group("/api/v1")

	protected := middleware.Authenticate(tokens, users)

	auth := v1.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/google", authHandler.GoogleSignIn)
	auth.Post("/refresh-token", authHandler.Refresh)
	// Logout works with or without a live session.
	auth.Post("/logout", middleware.OptionalAuthenticate(tokens, users), authHandler.Logout)
	auth.Get("/me", protected, authHandler.Me)

	usersGroup := v1.Group("/users")
	usersGroup.Get("/profile", protected, userHandler.GetProfile)
	usersGroup.Put("/profile", protected, middleware.RequireVerified(), userHandler.UpdateProfile)
	usersGroup.Get("/", protected, middleware.RequireAdmin(), userHandler.List)
}
