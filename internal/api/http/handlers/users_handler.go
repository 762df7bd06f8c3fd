package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-service/internal/api/dto"
	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/service"
	"github.com/spec-kit/user-service/internal/validation"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

// UsersHandler exposes the user CRUD endpoints.
type UsersHandler struct {
	users  *service.UserService
	schema *validation.Schema
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService, schema *validation.Schema) *UsersHandler {
	return &UsersHandler{users: users, schema: schema}
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	status := statusFilter(c.Query("status"))

	result, err := h.users.List(c.UserContext(), page, limit, status)
	if err != nil {
		return err
	}
	return c.JSON(listEnvelope(result, page, limit))
}

// ListActive handles GET /users/active.
func (h *UsersHandler) ListActive(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	result, err := h.users.ListActive(c.UserContext(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(listEnvelope(result, page, limit))
}

// GetByID handles GET /users/:id.
func (h *UsersHandler) GetByID(c *fiber.Ctx) error {
	user, err := h.users.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": user})
}

// GetByEmail handles GET /users/search/by-email.
func (h *UsersHandler) GetByEmail(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return apperrors.NewValidationError("Email query parameter is required", nil)
	}

	user, err := h.users.GetByEmail(c.UserContext(), email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": user})
}

// ListByAgeRange handles GET /users/age-range.
func (h *UsersHandler) ListByAgeRange(c *fiber.Ctx) error {
	minRaw := c.Query("minAge")
	maxRaw := c.Query("maxAge")
	if minRaw == "" || maxRaw == "" {
		return apperrors.NewValidationError("minAge and maxAge query parameters are required", nil)
	}

	minAge, errMin := strconv.Atoi(minRaw)
	maxAge, errMax := strconv.Atoi(maxRaw)
	if errMin != nil || errMax != nil {
		return apperrors.NewValidationError("minAge and maxAge must be valid numbers", nil)
	}

	users, err := h.users.ListByAgeRange(c.UserContext(), minAge, maxAge)
	if err != nil {
		return err
	}
	if users == nil {
		users = []domain.User{}
	}
	return c.JSON(fiber.Map{"success": true, "data": users, "count": len(users)})
}

// Count handles GET /users/stats/count.
func (h *UsersHandler) Count(c *fiber.Ctx) error {
	raw := c.Query("status")
	status := statusFilter(raw)

	count, err := h.users.Count(c.UserContext(), status)
	if err != nil {
		return err
	}

	echo := raw
	if echo == "" {
		echo = "all"
	}
	return c.JSON(fiber.Map{"success": true, "count": count, "status": echo})
}

// Create handles POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request body", nil)
	}
	if errs := h.schema.CreateUser(req); len(errs) > 0 {
		return apperrors.NewValidationError("Validation failed", errs)
	}

	user, err := h.users.Create(c.UserContext(), service.CreateInput{
		Name:  *req.Name,
		Email: *req.Email,
		Age:   *req.Age,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User created successfully",
		"data":    user,
	})
}

// Update handles PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request body", nil)
	}
	if errs := h.schema.UpdateUser(req); len(errs) > 0 {
		return apperrors.NewValidationError("Validation failed", errs)
	}

	user, err := h.users.Update(c.UserContext(), c.Params("id"), service.UpdateInput{
		Name:   req.Name,
		Email:  req.Email,
		Age:    req.Age,
		Status: req.Status,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User updated successfully",
		"data":    user,
	})
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	if err := h.users.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deleted successfully",
	})
}

// Deactivate handles PATCH /users/:id/deactivate.
func (h *UsersHandler) Deactivate(c *fiber.Ctx) error {
	user, err := h.users.Deactivate(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deactivated successfully",
		"data":    user,
	})
}

// Reactivate handles PATCH /users/:id/reactivate.
func (h *UsersHandler) Reactivate(c *fiber.Ctx) error {
	user, err := h.users.Reactivate(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "User reactivated successfully",
		"data":    user,
	})
}

// statusFilter passes any non-empty status value through to the query;
// unknown values simply match nothing, mirroring observed behavior.
func statusFilter(raw string) *domain.UserStatus {
	if raw == "" {
		return nil
	}
	status := domain.UserStatus(raw)
	return &status
}

func listEnvelope(result *service.ListResult, page, limit int) fiber.Map {
	data := result.Data
	if data == nil {
		data = []domain.User{}
	}
	return fiber.Map{
		"success": true,
		"data":    data,
		"pagination": dto.Pagination{
			Page:  page,
			Limit: limit,
			Total: result.Total,
			Pages: result.Pages,
		},
	}
}
