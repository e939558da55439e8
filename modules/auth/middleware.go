package auth

import (
	"net/http"

	"github.com/motorlane/shopcore/core"
	"github.com/motorlane/shopcore/pkg/jwt"
)

// Authenticate parses the bearer token, validates it, and stores the claims
// in the request context. Requests without a token proceed unauthenticated;
// downstream guards decide whether authentication is required. A present
// but invalid token is rejected outright.
func Authenticate(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := jwt.BearerTokenExtractor(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := svc.VerifyAccessToken(token)
			if err != nil {
				core.JSONError(w, core.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token"))
				return
			}

			ctx := jwt.SetToken(r.Context(), token)
			ctx = jwt.SetClaims(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
