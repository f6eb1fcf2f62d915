package ports

import (
	"context"
	"time"

	"github.com/companydev/user-identity-service/internal/core/domain"
)

// UserRecord is the flat persisted projection of the User aggregate.
type UserRecord struct {
	ID             string
	Email          string
	FullName       string
	Status         int
	ExternalAuthID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UpdateUserRecord carries the mutable fields written back after a transition.
type UpdateUserRecord struct {
	ID        string
	FullName  string
	Status    int
	UpdatedAt time.Time
}

// ListUsersFilter carries the query parameters for listing users.
type ListUsersFilter struct {
	Status *domain.Status // nil = no status filter
	Page   int            // 1-based
	Limit  int
}

// UserExistenceChecker answers the uniqueness check during registration.
type UserExistenceChecker interface {
	Exists(ctx context.Context, email string) (bool, error)
}

// UserReader retrieves persisted user records. Lookup misses return
// domain.ErrUserNotFound.
type UserReader interface {
	FindByID(ctx context.Context, id string) (*UserRecord, error)
	FindByEmail(ctx context.Context, email string) (*UserRecord, error)
	// FindAll returns a page of records matching filter and the total count.
	FindAll(ctx context.Context, filter ListUsersFilter) ([]*UserRecord, int64, error)
}

// UserWriter persists user records.
type UserWriter interface {
	Create(ctx context.Context, record *UserRecord) (*UserRecord, error)
	Update(ctx context.Context, record UpdateUserRecord) (*UserRecord, error)
}
