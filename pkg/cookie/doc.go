// Package cookie provides a small cookie manager with HttpOnly, SameSite
// defaults. The auth module uses it as the refresh token transport so the
// token is never exposed to script-readable storage.
package cookie
