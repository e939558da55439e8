package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RevokeParams describes a revocation attempt against one token row.
type RevokeParams struct {
	TokenHash       string
	Reason          string
	RevokedByIP     string
	ReplacedByToken string // successor hash, set only on rotation
}

// RefreshStorage persists refresh token rows. Tokens are keyed by the hash
// of their raw value.
type RefreshStorage interface {
	// Create inserts a new token row.
	Create(ctx context.Context, t *RefreshToken) error

	// GetByTokenHash loads a token row regardless of its revocation state.
	// Returns ErrTokenNotFound when no row matches.
	GetByTokenHash(ctx context.Context, hash string) (*RefreshToken, error)

	// Revoke marks the token revoked if and only if it is not already
	// revoked, returning whether this call won. The compare-and-swap is
	// what serializes concurrent rotation attempts on the same token:
	// exactly one caller observes true.
	Revoke(ctx context.Context, params RevokeParams) (bool, error)

	// DeleteExpired removes the user's expired token rows. Best-effort
	// housekeeping; failures must not fail the triggering operation.
	DeleteExpired(ctx context.Context, userID uuid.UUID, now time.Time) error
}
