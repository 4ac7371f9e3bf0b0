package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ozgurcank/auth-backend/internal/dto"
	"github.com/ozgurcank/auth-backend/internal/middleware"
	"github.com/ozgurcank/auth-backend/internal/repository"
)

type UserHandler struct {
	users repository.UserRepository
}

func NewUserHandler(users repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{
		Success: true,
		Data:    fiber.Map{"user": middleware.CurrentUser(c)},
	})
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Username == nil && req.AvatarPath == nil {
		return badRequest(c, "Nothing to update")
	}
	if req.Username != nil && strings.TrimSpace(*req.Username) == "" {
		return badRequest(c, "Username cannot be empty")
	}

	user := middleware.CurrentUser(c)
	updated, err := h.users.UpdateProfile(c.Context(), user.ID, repository.UpdateProfileParams{
		Username:   req.Username,
		AvatarPath: req.AvatarPath,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Success: false, Error: err.Error(),
			})
		}
		return internalError(c, err)
	}

	return c.JSON(dto.SuccessResponse{
		Success: true,
		Message: "Profile updated successfully",
		Data:    fiber.Map{"user": updated},
	})
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(dto.SuccessResponse{
		Success: true,
		Data:    fiber.Map{"users": users},
	})
}
