package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minFullNameLength = 2
	maxFullNameLength = 100
)

// fullNamePattern allows Latin letters (accented included), spaces, hyphens
// and apostrophes. Digits, other whitespace and other symbols are rejected.
var fullNamePattern = regexp.MustCompile(`^[\p{Latin} '-]+$`)

// FullName is the user's trimmed display name.
type FullName struct {
	value string
}

// NewFullName validates a raw display name.
func NewFullName(raw string) (FullName, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return FullName{}, fmt.Errorf("%w: full name is required", ErrInvalidValueObject)
	}
	length := utf8.RuneCountInString(trimmed)
	if length < minFullNameLength {
		return FullName{}, fmt.Errorf("%w: full name must have at least %d characters", ErrInvalidValueObject, minFullNameLength)
	}
	if length > maxFullNameLength {
		return FullName{}, fmt.Errorf("%w: full name must have at most %d characters", ErrInvalidValueObject, maxFullNameLength)
	}
	if !fullNamePattern.MatchString(trimmed) {
		return FullName{}, fmt.Errorf("%w: full name may only contain letters, spaces, hyphens and apostrophes", ErrInvalidValueObject)
	}
	return FullName{value: trimmed}, nil
}

func (n FullName) String() string {
	return n.value
}

func (n FullName) Equals(other FullName) bool {
	return n.value == other.value
}
