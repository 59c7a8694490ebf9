package usecase

import "errors"

// Sentinel errors for the HTTP layer to map onto status codes. Services
// wrap them with detail via fmt.Errorf("%w: ...").
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrStateConflict       = errors.New("operation not allowed in the current state")
	ErrCapacityExceeded    = errors.New("capacity exceeded")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrInsufficientBalance = errors.New("insufficient balance")

	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
