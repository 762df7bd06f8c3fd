package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/spec-kit/user-service/internal/api/dto"
	"github.com/spec-kit/user-service/internal/config"
	util "github.com/spec-kit/user-service/pkg/util"
)

// emailPattern matches local@domain.tld. Surrounding whitespace is a
// validation failure, not auto-trimmed.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9+._%-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const nameMaxLength = 100

// Schema validates request payloads against the creation and update rules.
// Validation is pure: raw input in, cleaned values or field errors out.
type Schema struct {
	validate *validator.Validate
	minAge   int
	maxAge   int
}

// NewSchema builds a Schema with the configured age bounds.
func NewSchema(cfg config.ValidationConfig) *Schema {
	v := validator.New()
	_ = v.RegisterValidation("user_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})

	return &Schema{
		validate: v,
		minAge:   cfg.MinAge,
		maxAge:   cfg.MaxAge,
	}
}

// CreateUser checks a creation payload. All violations are collected, not
// short-circuited.
func (s *Schema) CreateUser(req dto.CreateUserRequest) []util.FieldError {
	var errs []util.FieldError

	if req.Name == nil {
		errs = append(errs, util.FieldError{Field: "name", Message: "Name is required"})
	} else {
		errs = append(errs, s.checkName(*req.Name)...)
	}

	if req.Email == nil {
		errs = append(errs, util.FieldError{Field: "email", Message: "Email is required"})
	} else {
		errs = append(errs, s.checkEmail(*req.Email)...)
	}

	if req.Age == nil {
		errs = append(errs, util.FieldError{Field: "age", Message: "Age is required"})
	} else {
		errs = append(errs, s.checkAge(*req.Age)...)
	}

	return errs
}

// UpdateUser checks a partial-update payload. Every present field is held to
// the same rules as creation; an empty payload is itself a violation.
func (s *Schema) UpdateUser(req dto.UpdateUserRequest) []util.FieldError {
	if !req.HasFields() {
		return []util.FieldError{{Field: "body", Message: "At least one field is required"}}
	}

	var errs []util.FieldError
	if req.Name != nil {
		errs = append(errs, s.checkName(*req.Name)...)
	}
	if req.Email != nil {
		errs = append(errs, s.checkEmail(*req.Email)...)
	}
	if req.Age != nil {
		errs = append(errs, s.checkAge(*req.Age)...)
	}
	if req.Status != nil {
		if err := s.validate.Var(*req.Status, "oneof=active inactive"); err != nil {
			errs = append(errs, util.FieldError{Field: "status", Message: "Invalid status"})
		}
	}
	return errs
}

func (s *Schema) checkName(name string) []util.FieldError {
	if strings.TrimSpace(name) == "" {
		return []util.FieldError{{Field: "name", Message: "Name cannot be empty"}}
	}
	if err := s.validate.Var(name, fmt.Sprintf("max=%d", nameMaxLength)); err != nil {
		return []util.FieldError{{Field: "name", Message: "Name must be less than 100 characters"}}
	}
	return nil
}

func (s *Schema) checkEmail(email string) []util.FieldError {
	if email == "" {
		return []util.FieldError{{Field: "email", Message: "Email is required"}}
	}
	if err := s.validate.Var(email, "user_email"); err != nil {
		return []util.FieldError{{Field: "email", Message: "Invalid email format"}}
	}
	return nil
}

func (s *Schema) checkAge(age int) []util.FieldError {
	if err := s.validate.Var(age, fmt.Sprintf("gte=%d", s.minAge)); err != nil {
		return []util.FieldError{{Field: "age", Message: fmt.Sprintf("Age must be at least %d", s.minAge)}}
	}
	if err := s.validate.Var(age, fmt.Sprintf("lte=%d", s.maxAge)); err != nil {
		return []util.FieldError{{Field: "age", Message: fmt.Sprintf("Age cannot exceed %d", s.maxAge)}}
	}
	return nil
}

// ValidateID rejects malformed identifiers before any database round-trip.
func ValidateID(id string) []util.FieldError {
	if _, err := uuid.Parse(id); err != nil {
		return []util.FieldError{{Field: "id", Message: "ID must be a valid UUID"}}
	}
	return nil
}
