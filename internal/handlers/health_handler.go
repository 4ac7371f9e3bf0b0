package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ozgurcank/auth-backend/internal/dto"
)

type HealthHandler struct {
	db        *gorm.DB
	env       string
	startedAt time.Time
}

func NewHealthHandler(db *gorm.DB, env string) *HealthHandler {
	return &HealthHandler{db: db, env: env, startedAt: time.Now()}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "connected"
	status := "UP"
	code := fiber.StatusOK

	if !h.dbReachable() {
		dbStatus = "disconnected"
		status = "DEGRADED"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   "auth-backend",
		Env:       h.env,
		UptimeSec: int64(time.Since(h.startedAt).Seconds()),
		DB:        dbStatus,
	})
}

func (h *HealthHandler) dbReachable() bool {
	if h.db == nil {
		return false
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.Ping() == nil
}
