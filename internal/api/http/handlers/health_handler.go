package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ghostflow/agency-service/internal/persistence"
)

// HealthHandler serves the liveness and readiness probes for the
// agency workflow service.
type HealthHandler struct {
	service  string
	version  string
	postgres *persistence.Postgres
	redis    *persistence.Redis
}

// NewHealthHandler constructs the handler.
func NewHealthHandler(service, version string, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{service: service, version: version, postgres: postgres, redis: redis}
}

// Live reports process liveness only; no dependencies are touched.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.service,
		"version": h.version,
	})
}

// Ready pings the ticket store and the session store. Any failing
// check turns the probe into a 503 naming the broken dependency.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	checks := fiber.Map{}
	ready := true

	if err := h.postgres.Ping(ctx); err != nil {
		checks["postgres"] = err.Error()
		ready = false
	} else {
		checks["postgres"] = "ok"
	}

	if err := h.redis.Ping(ctx); err != nil {
		checks["redis_sessions"] = err.Error()
		ready = false
	} else {
		checks["redis_sessions"] = "ok"
	}

	if !ready {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":  "degraded",
			"service": h.service,
			"checks":  checks,
		})
	}
	return c.JSON(fiber.Map{
		"status":  "ready",
		"service": h.service,
		"version": h.version,
		"checks":  checks,
	})
}
