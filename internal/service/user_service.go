package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/user-service/internal/config"
	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/repository"
	util "github.com/spec-kit/user-service/pkg/util"
)

// UserService owns the business rules for user records. The API layer
// validates request shape first, but this layer is the authority: it
// re-checks presence and ranges before touching the repository.
type UserService struct {
	users  repository.UserRepository
	minAge int
	maxAge int
}

// CreateInput describes the creation payload.
type CreateInput struct {
	Name  string
	Email string
	Age   int
}

// UpdateInput describes a partial update; nil fields are left untouched.
type UpdateInput struct {
	Name   *string
	Email  *string
	Age    *int
	Status *string
}

// ListResult bundles a page of users with totals.
type ListResult struct {
	Data  []domain.User
	Total int64
	Pages int
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, cfg config.ValidationConfig) *UserService {
	return &UserService{
		users:  users,
		minAge: cfg.MinAge,
		maxAge: cfg.MaxAge,
	}
}

// Create validates the input, enforces email uniqueness and persists a new
// active user.
func (s *UserService) Create(ctx context.Context, input CreateInput) (*domain.User, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, util.NewValidationError("Name cannot be empty", nil)
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, util.NewValidationError("Email is required", nil)
	}
	if input.Age < s.minAge || input.Age > s.maxAge {
		return nil, util.NewValidationError(
			fmt.Sprintf("Age must be between %d and %d", s.minAge, s.maxAge), nil)
	}

	email := strings.ToLower(input.Email)

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		return nil, util.NewConflict("Email already registered")
	}

	user := &domain.User{
		Name:   strings.TrimSpace(input.Name),
		Email:  email,
		Age:    input.Age,
		Status: domain.UserStatusActive,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// The unique index settles the read-then-write race under
		// concurrent creation of the same email.
		if util.IsUniqueViolation(err) {
			return nil, util.NewConflict("Email already registered")
		}
		return nil, err
	}
	return user, nil
}

// GetByID fetches a user by identifier.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if err := s.checkID(id); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

// GetByEmail fetches a user by normalized email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

// List returns a page of users ordered by creation time descending, plus
// total count and pages = ceil(total/limit).
func (s *UserService) List(ctx context.Context, page, limit int, status *domain.UserStatus) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	users, total, err := s.users.List(ctx, repository.UserFilter{
		Status: status,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Data:  users,
		Total: total,
		Pages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// ListActive is List restricted to active users.
func (s *UserService) ListActive(ctx context.Context, page, limit int) (*ListResult, error) {
	status := domain.UserStatusActive
	return s.List(ctx, page, limit, &status)
}

// ListByAgeRange returns all active users with minAge <= age <= maxAge,
// youngest first.
func (s *UserService) ListByAgeRange(ctx context.Context, minAge, maxAge int) ([]domain.User, error) {
	return s.users.ListByAgeRange(ctx, minAge, maxAge)
}

// Update applies only the fields present in the input, re-validating each
// against the creation rules. An email change triggers a fresh uniqueness
// check excluding the record's own id.
func (s *UserService) Update(ctx context.Context, id string, input UpdateInput) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, util.NewValidationError("Name cannot be empty", nil)
		}
		user.Name = strings.TrimSpace(*input.Name)
	}

	if input.Email != nil {
		email := strings.ToLower(*input.Email)
		existing, err := s.users.GetByEmail(ctx, email)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, util.NewConflict("Email already registered")
		}
		user.Email = email
	}

	if input.Age != nil {
		if *input.Age < s.minAge || *input.Age > s.maxAge {
			return nil, util.NewValidationError(
				fmt.Sprintf("Age must be between %d and %d", s.minAge, s.maxAge), nil)
		}
		user.Age = *input.Age
	}

	if input.Status != nil {
		status := domain.UserStatus(*input.Status)
		if !status.Valid() {
			return nil, util.NewValidationError("Invalid status", nil)
		}
		user.Status = status
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("User not found")
		}
		if util.IsUniqueViolation(err) {
			return nil, util.NewConflict("Email already registered")
		}
		return nil, err
	}
	return user, nil
}

// Delete hard-deletes a user. Irreversible, no tombstoning.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.checkID(id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("User not found")
		}
		return err
	}
	return nil
}

// Deactivate sets status to inactive. Idempotent.
func (s *UserService) Deactivate(ctx context.Context, id string) (*domain.User, error) {
	return s.setStatus(ctx, id, domain.UserStatusInactive)
}

// Reactivate sets status to active. Idempotent.
func (s *UserService) Reactivate(ctx context.Context, id string) (*domain.User, error) {
	return s.setStatus(ctx, id, domain.UserStatusActive)
}

func (s *UserService) setStatus(ctx context.Context, id string, status domain.UserStatus) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Status = status
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

// Count returns the total record count, optionally filtered by status.
func (s *UserService) Count(ctx context.Context, status *domain.UserStatus) (int64, error) {
	return s.users.Count(ctx, status)
}

func (s *UserService) checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return util.NewInvalidID("Invalid user ID format")
	}
	return nil
}
