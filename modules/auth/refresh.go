package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// refreshTokenBytes is the entropy of a raw refresh token.
const refreshTokenBytes = 64

// RefreshToken is one link of a rotation chain. The raw token value is
// returned to the client exactly once and only its SHA-256 hash is kept at
// rest, so Token and ReplacedByToken hold hashes, not raw values. Rows are
// never mutated except to revoke; rotation creates a new row.
type RefreshToken struct {
	ID               uuid.UUID  `json:"id"`
	Token            string     `json:"-"` // hash of the raw value
	UserID           uuid.UUID  `json:"user_id"`
	CreatedAt        time.Time  `json:"created_at"`
	ExpiresAt        time.Time  `json:"expires_at"`
	IsRevoked        bool       `json:"is_revoked"`
	RevokedAt        *time.Time `json:"revoked_at,omitempty"`
	RevocationReason string     `json:"revocation_reason,omitempty"`
	ReplacedByToken  string     `json:"-"` // hash of the successor's raw value
	CreatedByIP      string     `json:"created_by_ip"`
	RevokedByIP      string     `json:"revoked_by_ip,omitempty"`
}

// Active reports whether the token may still be exchanged.
func (t *RefreshToken) Active(now time.Time) bool {
	return !t.IsRevoked && now.Before(t.ExpiresAt)
}

// Revocation reasons recorded on the token row.
const (
	RevocationReasonRotated = "rotated"
	RevocationReasonLogout  = "logout"
	RevocationReasonReplay  = "replay"
)

// newRawRefreshToken generates a raw refresh token with 64 bytes of
// cryptographic entropy, base64url-encoded for transport.
func newRawRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken derives the at-rest form of a raw refresh token. Looking tokens
// up by hash also makes the comparison timing-safe: the database matches on
// a digest, never on the secret itself.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
