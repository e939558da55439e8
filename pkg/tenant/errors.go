package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when no tenant matches an identifier,
	// or the matched tenant is not active. The two cases are deliberately
	// indistinguishable to callers.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrInvalidIdentifier is returned for empty or malformed identifiers.
	ErrInvalidIdentifier = errors.New("invalid tenant identifier")

	// ErrNoTenantInContext is returned when an operation requires an
	// ambient tenant and none is set.
	ErrNoTenantInContext = errors.New("no tenant in context")
)
