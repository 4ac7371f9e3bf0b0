package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/ozgurcank/auth-backend/internal/dto"
)

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Success: false, Error: message,
	})
}

// internalError logs the full cause and hands the client a generic
// message.
func internalError(c *fiber.Ctx, err error) error {
	logError(c, "request failed", err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Success: false, Error: "Internal server error",
	})
}

func logError(c *fiber.Ctx, message string, err error) {
	requestID, _ := c.Locals("requestid").(string)
	slog.Error(message,
		"method", c.Method(),
		"path", c.Path(),
		"request_id", requestID,
		"error", err.Error(),
	)
}
