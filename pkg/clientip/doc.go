// Package clientip extracts the originating client IP from HTTP requests,
// honoring common reverse-proxy headers. The auth module records it on
// refresh token issuance and revocation.
package clientip
