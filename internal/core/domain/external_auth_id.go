package domain

import (
	"fmt"
	"strings"
)

// ExternalAuthID is the opaque identifier issued by the identity provider.
// It is set once at registration and never reassigned.
type ExternalAuthID struct {
	value string
}

// NewExternalAuthID validates a provider-issued identifier.
func NewExternalAuthID(raw string) (ExternalAuthID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ExternalAuthID{}, fmt.Errorf("%w: external auth id is required", ErrInvalidValueObject)
	}
	return ExternalAuthID{value: trimmed}, nil
}

func (id ExternalAuthID) String() string {
	return id.value
}

func (id ExternalAuthID) Equals(other ExternalAuthID) bool {
	return id.value == other.value
}
