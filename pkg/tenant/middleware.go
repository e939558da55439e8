package tenant

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

// ErrorHandler renders tenant resolution failures.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type config struct {
	cache        Cache
	cacheTTL     time.Duration
	errorHandler ErrorHandler
	skipPaths    []string
	allowMissing bool
}

// Option configures the middleware.
type Option func(*config)

// WithCache sets the cache implementation. Defaults to an in-memory LRU.
func WithCache(cache Cache) Option {
	return func(c *config) { c.cache = cache }
}

// WithCacheTTL sets how long resolved tenants stay cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *config) { c.cacheTTL = ttl }
}

// WithErrorHandler sets a custom failure renderer.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(c *config) { c.errorHandler = handler }
}

// WithSkipPaths lists path prefixes that bypass tenant resolution entirely
// (health probes, auth endpoints).
func WithSkipPaths(paths ...string) Option {
	return func(c *config) { c.skipPaths = paths }
}

// WithAllowMissing lets requests without any tenant identifier proceed with
// an empty context. The data layer still fails closed, so such requests can
// only reach explicitly tenant-agnostic operations. Without this option an
// unresolvable request is rejected outright.
func WithAllowMissing() Option {
	return func(c *config) { c.allowMissing = true }
}

// Middleware resolves the tenant for each request and stores it in the
// request context. The ambient tenant exists only within the request's
// context chain, so it is guaranteed set before any downstream handler runs
// and gone once the request finishes, on every exit path.
func Middleware(resolver Resolver, provider Provider, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		cache:        NewMemoryCache(),
		cacheTTL:     5 * time.Minute,
		errorHandler: defaultErrorHandler,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			identifier, err := resolver(r)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}

			if identifier == "" {
				if cfg.allowMissing {
					next.ServeHTTP(w, r)
					return
				}
				cfg.errorHandler(w, r, ErrTenantNotFound)
				return
			}

			if cached, ok := cfg.cache.Get(r.Context(), identifier); ok {
				if !cached.IsActive() {
					cfg.errorHandler(w, r, ErrTenantNotFound)
					return
				}
				next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), cached)))
				return
			}

			t, err := Lookup(r.Context(), provider, identifier)
			if err != nil {
				if errors.Is(err, ErrTenantNotFound) || errors.Is(err, ErrInvalidIdentifier) {
					cfg.errorHandler(w, r, ErrTenantNotFound)
					return
				}
				cfg.errorHandler(w, r, err)
				return
			}

			// Inactive tenants are reported identically to unknown ones so
			// callers cannot probe tenant lifecycle state.
			if !t.IsActive() {
				cfg.errorHandler(w, r, ErrTenantNotFound)
				return
			}

			cfg.cache.Set(r.Context(), identifier, t, cfg.cacheTTL)

			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), t)))
		})
	}
}

// Require rejects requests that reach it without an ambient tenant. Mount
// it on route groups serving tenant-scoped data when the outer middleware
// runs with WithAllowMissing.
func Require(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); !ok {
				errorHandler(w, r, ErrNoTenantInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	writeJSONError := func(status int, message string) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
	}

	switch {
	case errors.Is(err, ErrTenantNotFound), errors.Is(err, ErrInvalidIdentifier):
		writeJSONError(http.StatusNotFound, "Tenant not found")
	case errors.Is(err, ErrNoTenantInContext):
		writeJSONError(http.StatusUnauthorized, "Tenant context is required")
	default:
		writeJSONError(http.StatusInternalServerError, "Internal server error")
	}
}
