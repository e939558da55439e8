package tenant

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Resolver extracts a tenant identifier from an HTTP request. An empty
// string with nil error means the strategy found nothing and the next
// strategy should be tried.
type Resolver func(r *http.Request) (string, error)

// ClaimSource reads tenant identity from authenticated principal claims in
// the request context. ok is false when the request is unauthenticated.
type ClaimSource func(ctx context.Context) (tenantID, tenantSlug string, ok bool)

// NewClaimResolver resolves tenants from JWT claims, preferring the
// tenant_id claim over tenant_slug. Claims carry the strongest signal: they
// were signed by us at token issuance, so they rank first in the chain.
func NewClaimResolver(source ClaimSource) Resolver {
	return func(r *http.Request) (string, error) {
		id, slug, ok := source(r.Context())
		if !ok {
			return "", nil
		}
		if id != "" {
			return id, nil
		}
		return slug, nil
	}
}

// NewPathResolver resolves the tenant slug from a chi route parameter,
// e.g. /t/{tenantSlug}/customers.
func NewPathResolver(param string) Resolver {
	return func(r *http.Request) (string, error) {
		return chi.URLParam(r, param), nil
	}
}

// DefaultTenantHeader is the fallback header carrying a tenant slug.
const DefaultTenantHeader = "X-Tenant-Slug"

// NewHeaderResolver resolves the tenant slug from a request header.
func NewHeaderResolver(header string) Resolver {
	if header == "" {
		header = DefaultTenantHeader
	}
	return func(r *http.Request) (string, error) {
		return strings.TrimSpace(r.Header.Get(header)), nil
	}
}

// reservedSubdomains are the leftmost host labels that never name a tenant.
var reservedSubdomains = []string{"www", "api", "app"}

// NewSubdomainResolver resolves the tenant slug from the leftmost host
// label. A subdomain only counts when the host has at least three
// dot-separated labels and the label is not reserved; extra labels beyond
// the defaults can be reserved via the argument.
func NewSubdomainResolver(reserved ...string) Resolver {
	blocked := append(slices.Clone(reservedSubdomains), reserved...)

	return func(r *http.Request) (string, error) {
		host := r.Host
		if idx := strings.LastIndex(host, ":"); idx != -1 {
			host = host[:idx]
		}

		labels := strings.Split(host, ".")
		if len(labels) < 3 {
			return "", nil
		}

		sub := labels[0]
		if sub == "" || slices.Contains(blocked, sub) {
			return "", nil
		}
		return sub, nil
	}
}

// Chain tries resolvers in order and returns the first non-empty
// identifier. Order defines precedence; a tenant named by an earlier
// strategy wins even when later strategies would disagree.
func Chain(resolvers ...Resolver) Resolver {
	return func(r *http.Request) (string, error) {
		for _, resolve := range resolvers {
			id, err := resolve(r)
			if err != nil {
				return "", err
			}
			if id != "" {
				return id, nil
			}
		}
		return "", nil
	}
}
