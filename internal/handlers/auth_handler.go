package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ozgurcank/auth-backend/internal/config"
	"github.com/ozgurcank/auth-backend/internal/dto"
	"github.com/ozgurcank/auth-backend/internal/middleware"
	"github.com/ozgurcank/auth-backend/internal/repository"
	"github.com/ozgurcank/auth-backend/internal/services"
	"github.com/ozgurcank/auth-backend/internal/token"
	"github.com/ozgurcank/auth-backend/internal/validation"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := h.authService.Register(c.Context(), services.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields),
			errors.Is(err, services.ErrPasswordMismatch),
			errors.Is(err, validation.ErrInvalidUsername),
			errors.Is(err, validation.ErrInvalidEmail),
			errors.Is(err, validation.ErrWeakPassword):
			return badRequest(c, err.Error())
		case errors.Is(err, repository.ErrDuplicateUsername),
			errors.Is(err, repository.ErrDuplicateEmail):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Success: false, Error: err.Error(),
			})
		default:
			return internalError(c, err)
		}
	}

	h.setSessionCookies(c, result)
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{
		Success: true,
		Message: "User registered successfully",
		Data:    fiber.Map{"user": result.User},
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := h.authService.Login(c.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			return badRequest(c, err.Error())
		case errors.Is(err, services.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false, Error: err.Error(),
			})
		default:
			return internalError(c, err)
		}
	}

	h.setSessionCookies(c, result)
	return c.JSON(dto.SuccessResponse{
		Success: true,
		Message: "Logged in successfully",
		Data:    fiber.Map{"user": result.User},
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	result, err := h.authService.Refresh(c.Context(), h.refreshTokenFrom(c))
	if err != nil {
		if errors.Is(err, services.ErrInvalidRefreshToken) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false, Error: err.Error(),
			})
		}
		return internalError(c, err)
	}

	h.setSessionCookies(c, result)
	return c.JSON(dto.SuccessResponse{
		Success: true,
		Message: "Session refreshed",
		Data:    fiber.Map{"user": result.User},
	})
}

// Logout always succeeds: the cookies are cleared regardless, and a
// missing or unknown refresh token is not the client's problem.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.Context(), h.refreshTokenFrom(c)); err != nil {
		logError(c, "logout revocation failed", err)
	}

	token.ClearSessionCookies(c, h.cfg.IsProduction())
	return c.JSON(dto.SuccessResponse{
		Success: true,
		Message: "Logged out successfully",
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{
		Success: true,
		Data:    fiber.Map{"user": middleware.CurrentUser(c)},
	})
}

// GoogleSignIn is a stub; no provider flow is wired.
func (h *AuthHandler) GoogleSignIn(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{
		Success: false, Error: "Google sign-in is not implemented",
	})
}

func (h *AuthHandler) setSessionCookies(c *fiber.Ctx, result *services.AuthResult) {
	secure := h.cfg.IsProduction()
	token.SetSessionCookie(c, result.AccessToken, result.AccessExpiresAt, secure)
	token.SetRefreshCookie(c, result.RefreshToken, result.RefreshExpiresAt, secure)
}

func (h *AuthHandler) refreshTokenFrom(c *fiber.Ctx) string {
	if cookie := c.Cookies(token.RefreshCookieName); cookie != "" {
		return cookie
	}
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err == nil {
		return req.RefreshToken
	}
	return ""
}
