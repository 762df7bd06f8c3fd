package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-service/internal/api/http/handlers"
	"github.com/spec-kit/user-service/internal/validation"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	APIPrefix string
	Health    *handlers.HealthHandler
	Users     *handlers.UsersHandler
}

// RegisterRoutes wires HTTP routes. Static user paths are registered before
// the :id routes so /users/active and friends never bind as identifiers.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Check)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group(cfg.APIPrefix)
	users := api.Group("/users")

	users.Get("/", cfg.Users.List)
	users.Get("/active", cfg.Users.ListActive)
	users.Get("/search/by-email", cfg.Users.GetByEmail)
	users.Get("/age-range", cfg.Users.ListByAgeRange)
	users.Get("/stats/count", cfg.Users.Count)
	users.Get("/:id", validateIDParam, cfg.Users.GetByID)

	users.Post("/", cfg.Users.Create)
	users.Put("/:id", validateIDParam, cfg.Users.Update)
	users.Delete("/:id", validateIDParam, cfg.Users.Delete)
	users.Patch("/:id/deactivate", validateIDParam, cfg.Users.Deactivate)
	users.Patch("/:id/reactivate", validateIDParam, cfg.Users.Reactivate)

	app.Use(notFoundHandler)
}

// validateIDParam rejects malformed path identifiers before any database
// round-trip.
func validateIDParam(c *fiber.Ctx) error {
	if errs := validation.ValidateID(c.Params("id")); len(errs) > 0 {
		return apperrors.NewDomainError("INVALID_ID", "Invalid ID format", fiber.StatusBadRequest, errs)
	}
	return c.Next()
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"error":   "Not found",
		"message": "The requested resource does not exist",
	})
}
