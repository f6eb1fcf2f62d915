package domain

import (
	"fmt"
	"regexp"
	"strings"
)

const maxEmailLength = 254

// emailPattern requires a local part, exactly one @, and a dotted domain.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email is the normalized (trimmed, lowercased) address used as the identity lookup key.
type Email struct {
	value string
}

// NewEmail validates and normalizes a raw address.
func NewEmail(raw string) (Email, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return Email{}, fmt.Errorf("%w: email is required", ErrInvalidValueObject)
	}
	if !emailPattern.MatchString(trimmed) {
		return Email{}, fmt.Errorf("%w: email %q is not a valid address", ErrInvalidValueObject, trimmed)
	}
	if len(trimmed) > maxEmailLength {
		return Email{}, fmt.Errorf("%w: email exceeds %d characters", ErrInvalidValueObject, maxEmailLength)
	}
	return Email{value: trimmed}, nil
}

func (e Email) String() string {
	return e.value
}

func (e Email) Equals(other Email) bool {
	return e.value == other.value
}
