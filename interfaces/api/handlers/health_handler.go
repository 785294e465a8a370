package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"todo-back/domain/dto"
	"todo-back/pkg/logger"
)

type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	appName  string
	database HealthCheck
	cache    HealthCheck
	events   HealthCheck
}

func NewHealthHandler(appName string, database, cache, events HealthCheck) *HealthHandler {
	return &HealthHandler{appName: appName, database: database, cache: cache, events: events}
}

// Health GET /health. Only the database is required; cache and events degrade gracefully.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{
		Status:   "ok",
		App:      h.appName,
		Database: probe(ctx, "database", h.database),
		Cache:    probe(ctx, "cache", h.cache),
		Events:   probe(ctx, "events", h.events),
	}

	if resp.Database != "up" {
		resp.Status = "degraded"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}

func probe(ctx context.Context, name string, check HealthCheck) string {
	if check == nil {
		return "disabled"
	}
	if err := check(ctx); err != nil {
		logger.WarnContext(ctx, "Health check failed", "component", name, "error", err)
		return "down"
	}
	return "up"
}
