package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ozgurcank/auth-backend/internal/dto"
	"github.com/ozgurcank/auth-backend/internal/models"
	"github.com/ozgurcank/auth-backend/internal/repository"
	"github.com/ozgurcank/auth-backend/internal/token"
)

const currentUserKey = "currentUser"

// CurrentUser returns the identity the guard attached, or nil. Handlers
// must use this — never a client-supplied id — for authorization
// decisions.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}

// Authenticate gates protected routes. It takes the session cookie
// first, falls back to a bearer header, verifies the token, and
// resolves the subject against the store; any miss is a 401. Expired
// and malformed tokens are treated identically here.
func Authenticate(tokens *token.Service, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := resolveUser(c, tokens, users)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false, Error: "Not authorized",
			})
		}
		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// OptionalAuthenticate attaches the user when a valid session is
// present and lets the request through either way.
func OptionalAuthenticate(tokens *token.Service, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, ok := resolveUser(c, tokens, users); ok {
			c.Locals(currentUserKey, user)
		}
		return c.Next()
	}
}

// RequireAdmin composes on Authenticate.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Success: false, Error: "Admin access required",
			})
		}
		return c.Next()
	}
}

// RequireVerified composes on Authenticate.
func RequireVerified() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || !user.IsVerified {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Success: false, Error: "Please verify your email to access this resource",
			})
		}
		return c.Next()
	}
}

func resolveUser(c *fiber.Ctx, tokens *token.Service, users repository.UserRepository) (*models.User, bool) {
	candidate := extractToken(c)
	if candidate == "" {
		return nil, false
	}

	subject, err := tokens.Verify(candidate)
	if err != nil {
		return nil, false
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, false
	}

	// The subject may have been deleted after issuance.
	user, err := users.FindByID(c.Context(), userID)
	if err != nil {
		return nil, false
	}
	return user, true
}

// extractToken prefers the same-origin session cookie over the
// Authorization header.
func extractToken(c *fiber.Ctx) string {
	if cookie := c.Cookies(token.SessionCookieName); cookie != "" {
		return cookie
	}

	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
