package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// JWT header constants required by RFC 7519.
const (
	HeaderType      = "JWT"
	HeaderAlgorithm = "HS256"
)

// Header represents the JWT header as defined in RFC 7515.
type Header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

// StandardClaims holds the registered claims from RFC 7519 Section 4.1.
// Temporal claims use Unix timestamps and are validated with zero clock
// skew: a token is rejected the second it expires.
type StandardClaims struct {
	ID        string `json:"jti,omitempty"`
	Subject   string `json:"sub,omitempty"`
	Issuer    string `json:"iss,omitempty"`
	Audience  string `json:"aud,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
	NotBefore int64  `json:"nbf,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
}

// Valid checks the temporal claims against the current time. Zero values
// are treated as unset per RFC 7519.
func (c StandardClaims) Valid() error {
	now := time.Now().Unix()

	if c.ExpiresAt > 0 && now >= c.ExpiresAt {
		return ErrExpiredToken
	}
	if c.NotBefore > 0 && now < c.NotBefore {
		return ErrInvalidToken
	}
	return nil
}

// Service signs and verifies JWT tokens with HMAC-SHA256. When an expected
// issuer or audience is configured, every parsed token must match it.
type Service struct {
	signingKey []byte
	issuer     string
	audience   string
}

// Option configures optional verification constraints.
type Option func(*Service)

// WithIssuer sets the issuer stamped on generated standard claims and
// required on every verified token.
func WithIssuer(issuer string) Option {
	return func(s *Service) { s.issuer = issuer }
}

// WithAudience sets the audience required on every verified token.
func WithAudience(audience string) Option {
	return func(s *Service) { s.audience = audience }
}

// New creates a JWT service. The key should be at least 32 bytes for
// adequate HMAC-SHA256 security.
func New(signingKey []byte, opts ...Option) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}

	s := &Service{signingKey: signingKey}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issuer returns the configured issuer, if any.
func (s *Service) Issuer() string { return s.issuer }

// Audience returns the configured audience, if any.
func (s *Service) Audience() string { return s.audience }

// Generate creates a signed JWT from any JSON-serializable claims value.
func (s *Service) Generate(claims any) (string, error) {
	if claims == nil {
		return "", ErrMissingClaims
	}

	headerJSON, err := json.Marshal(Header{Type: HeaderType, Algorithm: HeaderAlgorithm})
	if err != nil {
		return "", fmt.Errorf("marshal header: %w", err)
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}

	payload := base64.RawURLEncoding.EncodeToString(headerJSON) + "." +
		base64.RawURLEncoding.EncodeToString(claimsJSON)

	return payload + "." + s.sign(payload), nil
}

// Parse verifies a token's signature, algorithm, issuer, audience, and
// temporal claims, then unmarshals the payload into claims.
func (s *Service) Parse(tokenString string, claims any) error {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return ErrInvalidToken
	}

	payload := parts[0] + "." + parts[1]
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(s.sign(payload))) != 1 {
		return ErrInvalidSignature
	}

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return ErrInvalidToken
	}
	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return ErrInvalidToken
	}
	// Reject anything but the expected algorithm to prevent confusion attacks.
	if header.Algorithm != HeaderAlgorithm {
		return ErrUnexpectedSigningMethod
	}

	claimsJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return ErrInvalidToken
	}

	if err := s.verifyRegisteredClaims(claimsJSON); err != nil {
		return err
	}

	if err := json.Unmarshal(claimsJSON, claims); err != nil {
		return fmt.Errorf("unmarshal claims: %w", err)
	}

	if validator, ok := claims.(interface{ Valid() error }); ok {
		if err := validator.Valid(); err != nil {
			return err
		}
	}
	return nil
}

// verifyRegisteredClaims enforces issuer/audience expectations and temporal
// validity regardless of the caller-supplied claims type.
func (s *Service) verifyRegisteredClaims(claimsJSON []byte) error {
	var std StandardClaims
	if err := json.Unmarshal(claimsJSON, &std); err != nil {
		return ErrInvalidToken
	}

	if s.issuer != "" && std.Issuer != s.issuer {
		return ErrInvalidIssuer
	}
	if s.audience != "" && std.Audience != s.audience {
		return ErrInvalidAudience
	}
	return std.Valid()
}

func (s *Service) sign(payload string) string {
	h := hmac.New(sha256.New, s.signingKey)
	h.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
