// Package auth implements credential verification and the token lifecycle:
// short-lived HS256 access tokens paired with opaque, rotating refresh
// tokens.
//
// Refresh tokens carry 64 bytes of entropy and are stored hashed. Every
// exchange revokes the presented token with a pointer to its successor, so
// each token is spendable exactly once even under concurrent requests.
// Presenting an already-spent token is treated as replay and locks out the
// rest of that rotation chain.
//
// Access tokens embed staff and tenant claims when the login happens within
// a tenant scope, which lets the tenant resolver and the staff guard work
// from the signed token without extra lookups.
package auth
