package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/user-service/internal/api/dto"
	"github.com/spec-kit/user-service/internal/config"
	"github.com/spec-kit/user-service/internal/validation"
)

func newSchema() *validation.Schema {
	return validation.NewSchema(config.ValidationConfig{MinAge: 18, MaxAge: 120})
}

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

func TestCreateUser_Valid(t *testing.T) {
	schema := newSchema()

	errs := schema.CreateUser(dto.CreateUserRequest{
		Name:  strptr("Jane"),
		Email: strptr("jane@x.com"),
		Age:   intptr(28),
	})
	assert.Empty(t, errs)
}

func TestCreateUser_RequiredFields(t *testing.T) {
	schema := newSchema()

	errs := schema.CreateUser(dto.CreateUserRequest{})
	assert.Len(t, errs, 3)

	byField := map[string]string{}
	for _, fe := range errs {
		byField[fe.Field] = fe.Message
	}
	assert.Equal(t, "Name is required", byField["name"])
	assert.Equal(t, "Email is required", byField["email"])
	assert.Equal(t, "Age is required", byField["age"])
}

// All violations are collected in one pass, never short-circuited.
func TestCreateUser_CollectsAllViolations(t *testing.T) {
	schema := newSchema()

	errs := schema.CreateUser(dto.CreateUserRequest{
		Name:  strptr("   "),
		Email: strptr("not-an-email"),
		Age:   intptr(17),
	})
	assert.Len(t, errs, 3)
}

func TestCreateUser_NameRules(t *testing.T) {
	schema := newSchema()

	tests := []struct {
		name    string
		value   string
		message string
	}{
		{"empty", "", "Name cannot be empty"},
		{"whitespace only", "   ", "Name cannot be empty"},
		{"too long", strings.Repeat("a", 101), "Name must be less than 100 characters"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := schema.CreateUser(dto.CreateUserRequest{
				Name:  strptr(tc.value),
				Email: strptr("jane@x.com"),
				Age:   intptr(28),
			})
			assert.Len(t, errs, 1)
			assert.Equal(t, "name", errs[0].Field)
			assert.Equal(t, tc.message, errs[0].Message)
		})
	}

	errs := schema.CreateUser(dto.CreateUserRequest{
		Name:  strptr(strings.Repeat("a", 100)),
		Email: strptr("jane@x.com"),
		Age:   intptr(28),
	})
	assert.Empty(t, errs)
}

func TestCreateUser_EmailRules(t *testing.T) {
	schema := newSchema()

	valid := []string{
		"jane@x.com",
		"jane.doe+tag@sub.example.co",
		"JANE@X.COM",
	}
	for _, email := range valid {
		errs := schema.CreateUser(dto.CreateUserRequest{
			Name:  strptr("Jane"),
			Email: strptr(email),
			Age:   intptr(28),
		})
		assert.Empty(t, errs, "expected %q to be valid", email)
	}

	invalid := []string{
		"plainaddress",
		"missing@tld",
		"@no-local.com",
		// Surrounding whitespace is rejected, not trimmed.
		" jane@x.com",
		"jane@x.com ",
	}
	for _, email := range invalid {
		errs := schema.CreateUser(dto.CreateUserRequest{
			Name:  strptr("Jane"),
			Email: strptr(email),
			Age:   intptr(28),
		})
		assert.Len(t, errs, 1, "expected %q to be invalid", email)
		assert.Equal(t, "Invalid email format", errs[0].Message)
	}
}

func TestCreateUser_AgeBounds(t *testing.T) {
	schema := newSchema()

	tests := []struct {
		age     int
		message string
	}{
		{17, "Age must be at least 18"},
		{121, "Age cannot exceed 120"},
	}
	for _, tc := range tests {
		errs := schema.CreateUser(dto.CreateUserRequest{
			Name:  strptr("Jane"),
			Email: strptr("jane@x.com"),
			Age:   intptr(tc.age),
		})
		assert.Len(t, errs, 1)
		assert.Equal(t, "age", errs[0].Field)
		assert.Equal(t, tc.message, errs[0].Message)
	}

	for _, age := range []int{18, 120} {
		errs := schema.CreateUser(dto.CreateUserRequest{
			Name:  strptr("Jane"),
			Email: strptr("jane@x.com"),
			Age:   intptr(age),
		})
		assert.Empty(t, errs)
	}
}

func TestUpdateUser_AtLeastOneField(t *testing.T) {
	schema := newSchema()

	errs := schema.UpdateUser(dto.UpdateUserRequest{})
	assert.Len(t, errs, 1)
	assert.Equal(t, "At least one field is required", errs[0].Message)
}

func TestUpdateUser_PresentFieldsRevalidated(t *testing.T) {
	schema := newSchema()

	errs := schema.UpdateUser(dto.UpdateUserRequest{Age: intptr(29)})
	assert.Empty(t, errs)

	errs = schema.UpdateUser(dto.UpdateUserRequest{
		Email: strptr("bad email"),
		Age:   intptr(150),
	})
	assert.Len(t, errs, 2)
}

func TestUpdateUser_Status(t *testing.T) {
	schema := newSchema()

	for _, status := range []string{"active", "inactive"} {
		errs := schema.UpdateUser(dto.UpdateUserRequest{Status: strptr(status)})
		assert.Empty(t, errs)
	}

	errs := schema.UpdateUser(dto.UpdateUserRequest{Status: strptr("archived")})
	assert.Len(t, errs, 1)
	assert.Equal(t, "Invalid status", errs[0].Message)
}

func TestValidateID(t *testing.T) {
	assert.Empty(t, validation.ValidateID("5f1c7b0e-9f5a-4d0b-8a52-1f4f1f9a2b3c"))

	for _, id := range []string{"", "123", "not-a-uuid", "5f1c7b0e-9f5a-4d0b-8a52"} {
		errs := validation.ValidateID(id)
		assert.Len(t, errs, 1, "expected %q to be rejected", id)
		assert.Equal(t, "id", errs[0].Field)
	}
}
