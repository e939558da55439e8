// Package tenant implements the tenant-isolation core: an ambient,
// request-scoped tenant context, an ordered resolution chain, and HTTP
// middleware tying them together.
//
// # Ambient context
//
// The current tenant rides the request's context.Context. That makes
// isolation structural: concurrent requests own disjoint context chains, so
// one request can never observe another's tenant, and the value vanishes
// when the request ends regardless of how it ends.
//
// # Resolution
//
// A Resolver chain derives the tenant identifier from competing signal
// sources with fixed precedence: signed JWT claims first, then route
// parameter, request header, and finally the host subdomain. The first
// non-empty identifier wins and is resolved against a Provider; only
// tenants with Active status resolve.
//
// # Fail-closed default
//
// Requests with no resolvable tenant are rejected unless the middleware is
// explicitly configured with WithAllowMissing, and even then the data layer
// returns empty results for tenant-scoped queries. Tenant-agnostic routes
// must opt out via WithSkipPaths.
//
// Typical wiring:
//
//	resolver := tenant.Chain(
//		tenant.NewClaimResolver(claimSource),
//		tenant.NewPathResolver("tenantSlug"),
//		tenant.NewHeaderResolver(tenant.DefaultTenantHeader),
//		tenant.NewSubdomainResolver(),
//	)
//	r.Use(tenant.Middleware(resolver, provider, tenant.WithSkipPaths("/auth", "/health")))
package tenant
