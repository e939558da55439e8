package jwt

import "context"

type tokenCtxKey struct{}
type claimsCtxKey struct{}

// SetToken stores the raw JWT string in the context.
func SetToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenCtxKey{}, token)
}

// GetToken returns the raw JWT string from the context.
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenCtxKey{}).(string)
	return token, ok
}

// SetClaims stores parsed claims in the context. Any claims type works.
func SetClaims(ctx context.Context, claims any) context.Context {
	return context.WithValue(ctx, claimsCtxKey{}, claims)
}

// GetClaims returns the claims from the context as type T.
func GetClaims[T any](ctx context.Context) (T, bool) {
	claims, ok := ctx.Value(claimsCtxKey{}).(T)
	if !ok {
		var zero T
		return zero, false
	}
	return claims, true
}
