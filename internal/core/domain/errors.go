package domain

import "errors"

// Sentinel errors for the identity core. Callers classify with errors.Is;
// detail is attached at the point of detection by wrapping with fmt.Errorf("%w: ...").
var (
	ErrInvalidValueObject    = errors.New("invalid value object")
	ErrBusinessRuleViolation = errors.New("business rule violation")
	ErrUserNotFound          = errors.New("user not found")
	ErrUserExists            = errors.New("user already exists")
	ErrUserNotActive         = errors.New("user is not active")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInconsistency         = errors.New("cross-system inconsistency")
	ErrTransactionFailed     = errors.New("transaction failed")
)
