package domain

import "fmt"

// BusinessRule is a named predicate evaluated before a state transition.
type BusinessRule interface {
	// IsBroken reports whether the transition must be aborted.
	IsBroken() bool
	// Message is the human-readable explanation surfaced to the caller.
	Message() string
	// Component names the originating rule.
	Component() string
}

// CheckRule returns an error wrapping ErrBusinessRuleViolation when the rule
// is broken. It is the only transition-gating mechanism in the core.
func CheckRule(rule BusinessRule) error {
	if rule.IsBroken() {
		return fmt.Errorf("%w: %s", ErrBusinessRuleViolation, rule.Message())
	}
	return nil
}

// UserMustBePendingToActivate forbids activation from any state but PENDING.
type UserMustBePendingToActivate struct {
	Status Status
}

func (r UserMustBePendingToActivate) IsBroken() bool {
	return !r.Status.IsPending()
}

func (r UserMustBePendingToActivate) Message() string {
	return "user must be pending to be activated"
}

func (r UserMustBePendingToActivate) Component() string {
	return "UserMustBePendingToActivate"
}

// UserMustBeActiveToDeactivate forbids deactivation from any state but ACTIVE.
type UserMustBeActiveToDeactivate struct {
	Status Status
}

func (r UserMustBeActiveToDeactivate) IsBroken() bool {
	return !r.Status.IsActive()
}

func (r UserMustBeActiveToDeactivate) Message() string {
	return "user must be active to be deactivated"
}

func (r UserMustBeActiveToDeactivate) Component() string {
	return "UserMustBeActiveToDeactivate"
}
