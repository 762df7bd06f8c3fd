package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-service/internal/persistence"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	environment string
	postgres    *persistence.Postgres
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(environment string, postgres *persistence.Postgres) *HealthHandler {
	return &HealthHandler{environment: environment, postgres: postgres}
}

// Check reports service liveness.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "ok",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": h.environment,
	})
}

// Ready reports service readiness by checking the datastore.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := h.postgres.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"dependencies": fiber.Map{
				"postgres": err.Error(),
			},
		})
	}

	return c.JSON(fiber.Map{
		"status": "ready",
		"dependencies": fiber.Map{
			"postgres": "ok",
		},
	})
}
