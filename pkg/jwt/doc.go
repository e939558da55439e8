// Package jwt implements HMAC-SHA256 signed tokens per RFC 7519 with strict
// verification: algorithm pinning, constant-time signature comparison,
// optional issuer/audience matching, and zero clock skew on expiry.
//
// The service accepts any JSON-serializable claims type, so callers define
// domain claims embedding StandardClaims:
//
//	svc, _ := jwt.New(key, jwt.WithIssuer("shopcore"), jwt.WithAudience("shopcore-api"))
//	token, _ := svc.Generate(claims)
//	err := svc.Parse(token, &claims)
package jwt
