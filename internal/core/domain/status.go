package domain

import "fmt"

// Status represents the lifecycle state of a user. The numeric values are the
// persisted representation and must not be reordered.
type Status int

const (
	StatusPending Status = iota
	StatusActive
	StatusInactive
)

// NewStatus validates a persisted numeric status.
func NewStatus(value int) (Status, error) {
	switch Status(value) {
	case StatusPending, StatusActive, StatusInactive:
		return Status(value), nil
	default:
		return 0, fmt.Errorf("%w: status %d is not one of pending(0), active(1), inactive(2)", ErrInvalidValueObject, value)
	}
}

// ParseStatus converts the lowercase string form back to a Status.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "pending":
		return StatusPending, nil
	case "active":
		return StatusActive, nil
	case "inactive":
		return StatusInactive, nil
	default:
		return 0, fmt.Errorf("%w: status %q is not one of pending, active, inactive", ErrInvalidValueObject, s)
	}
}

func (s Status) IsPending() bool  { return s == StatusPending }
func (s Status) IsActive() bool   { return s == StatusActive }
func (s Status) IsInactive() bool { return s == StatusInactive }

// Int returns the persisted numeric form.
func (s Status) Int() int {
	return int(s)
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusActive:
		return "active"
	case StatusInactive:
		return "inactive"
	default:
		return "unknown"
	}
}
