package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/user-service/internal/domain"
)

// MockUserRepository is an in-memory implementation of UserRepository. It
// mimics the Postgres behavior the service relies on: pgx.ErrNoRows for
// missing records and a 23505 PgError when the email unique index fires.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
	seq   int64
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]domain.User)}
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
}

// Create stores a new user, assigning id and timestamps.
func (r *MockUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return uniqueViolation()
		}
	}

	user.ID = uuid.New().String()
	r.seq++
	// Strictly increasing timestamps keep newest-first ordering deterministic.
	user.CreatedAt = time.Unix(0, r.seq).UTC()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

// Update replaces a stored user's mutable fields.
func (r *MockUserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	for id, existing := range r.users {
		if id != user.ID && existing.Email == user.Email {
			return uniqueViolation()
		}
	}

	r.seq++
	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = time.Unix(0, r.seq).UTC()
	r.users[user.ID] = *user
	return nil
}

// GetByID returns a user by identifier.
func (r *MockUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

// GetByEmail returns a user by exact email match.
func (r *MockUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// List returns a page of users newest-first plus the total matching count.
func (r *MockUserRepository) List(_ context.Context, filter UserFilter) ([]domain.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []domain.User
	for _, user := range r.users {
		if filter.Status != nil && user.Status != *filter.Status {
			continue
		}
		matched = append(matched, user)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

// ListByAgeRange returns active users within the inclusive bounds, youngest first.
func (r *MockUserRepository) ListByAgeRange(_ context.Context, minAge, maxAge int) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []domain.User
	for _, user := range r.users {
		if user.Status != domain.UserStatusActive {
			continue
		}
		if user.Age < minAge || user.Age > maxAge {
			continue
		}
		matched = append(matched, user)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Age < matched[j].Age
	})
	return matched, nil
}

// Delete removes a user.
func (r *MockUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

// Count returns the total record count, optionally filtered by status.
func (r *MockUserRepository) Count(_ context.Context, status *domain.UserStatus) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if status == nil {
		return int64(len(r.users)), nil
	}
	var total int64
	for _, user := range r.users {
		if user.Status == *status {
			total++
		}
	}
	return total, nil
}
