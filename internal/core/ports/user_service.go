package ports

import (
	"context"
	"time"
)

// RegisterUserInput carries the registration request.
type RegisterUserInput struct {
	Email    string
	FullName string
}

// RegisterUserResult is returned after a successful registration saga.
type RegisterUserResult struct {
	ID             string
	Email          string
	FullName       string
	Status         string
	ExternalAuthID string
	CreatedAt      time.Time
}

// StatusChangeResult is returned by Activate and Deactivate.
type StatusChangeResult struct {
	ID        string
	Status    string
	UpdatedAt time.Time
}

// UpdateUserInput carries a profile update. Empty FullName means no change.
type UpdateUserInput struct {
	UserID   string
	FullName string
}

// UpdateUserResult is returned after a profile update.
type UpdateUserResult struct {
	ID        string
	FullName  string
	UpdatedAt time.Time
}

// UserView is the read-side projection of a user.
type UserView struct {
	ID             string
	Email          string
	FullName       string
	Status         string
	ExternalAuthID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ListUsersInput carries the list query. Status filters by lowercase status
// name when non-empty; Page defaults to 1 and Limit to 10.
type ListUsersInput struct {
	Status string
	Page   int
	Limit  int
}

// ListUsersResult is returned by List.
type ListUsersResult struct {
	Users      []UserView
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserService defines the user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, input RegisterUserInput) (*RegisterUserResult, error)
	Activate(ctx context.Context, userID string) (*StatusChangeResult, error)
	Deactivate(ctx context.Context, userID string) (*StatusChangeResult, error)
	Update(ctx context.Context, input UpdateUserInput) (*UpdateUserResult, error)
	GetByID(ctx context.Context, userID string) (*UserView, error)
	GetByEmail(ctx context.Context, email string) (*UserView, error)
	List(ctx context.Context, input ListUsersInput) (*ListUsersResult, error)
}
