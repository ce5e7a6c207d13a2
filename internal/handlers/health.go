package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/bozor/internal/database"
	"github.com/example/bozor/internal/logger"
)

const healthTimeout = 2 * time.Second

// HealthHandler reports reachability of the database and redis.
type HealthHandler struct {
	db    *gorm.DB
	redis redis.UniversalClient
}

// NewHealthHandler constructs HealthHandler.
func NewHealthHandler(db *gorm.DB, client redis.UniversalClient) *HealthHandler {
	return &HealthHandler{db: db, redis: client}
}

// Check always answers 200; the body carries the per-service status.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	log := logger.FromCtx(c)
	services := fiber.Map{"database": "ok", "redis": "ok"}
	overall := "ok"

	if err := database.Ping(h.db.WithContext(ctx)); err != nil {
		log.Warn("health: database unreachable", zap.Error(err))
		services["database"] = "error"
		overall = "error"
	}

	if err := h.redis.Ping(ctx).Err(); err != nil {
		log.Warn("health: redis unreachable", zap.Error(err))
		services["redis"] = "error"
		overall = "error"
	}

	return c.JSON(fiber.Map{
		"status":   overall,
		"services": services,
	})
}
