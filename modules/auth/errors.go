package auth

import "errors"

var (
	// ErrInvalidCredentials is returned on failed login. Unknown email and
	// wrong password are indistinguishable.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrInvalidToken is returned when a refresh token is unknown, revoked
	// or expired. The reason is deliberately not revealed.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrUserNotFound is returned by user storage lookups.
	ErrUserNotFound = errors.New("auth: user not found")

	// ErrTokenNotFound is returned by refresh token storage lookups.
	ErrTokenNotFound = errors.New("auth: refresh token not found")
)
