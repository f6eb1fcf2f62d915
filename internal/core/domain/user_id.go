package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// UserID is the opaque unique identifier of a user, generated at registration
// and never reused.
type UserID struct {
	value uuid.UUID
}

// NewUserID generates a fresh identifier.
func NewUserID() UserID {
	return UserID{value: uuid.New()}
}

// ParseUserID parses a persisted identifier.
func ParseUserID(raw string) (UserID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return UserID{}, fmt.Errorf("%w: user id %q is not a valid uuid", ErrInvalidValueObject, raw)
	}
	return UserID{value: id}, nil
}

func (id UserID) String() string {
	return id.value.String()
}

func (id UserID) Equals(other UserID) bool {
	return id.value == other.value
}
