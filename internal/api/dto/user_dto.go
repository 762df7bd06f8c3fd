package dto

// CreateUserRequest payload for new users. Pointer fields distinguish a
// missing key from a present-but-empty value so required and empty produce
// different messages.
type CreateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Age   *int    `json:"age"`
}

// UpdateUserRequest payload for partial updates; at least one field must be set.
type UpdateUserRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Age    *int    `json:"age"`
	Status *string `json:"status"`
}

// HasFields reports whether any updatable field is present.
func (r UpdateUserRequest) HasFields() bool {
	return r.Name != nil || r.Email != nil || r.Age != nil || r.Status != nil
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}
