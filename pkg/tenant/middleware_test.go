package tenant_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlane/shopcore/pkg/tenant"
)

// stubProvider serves tenants from a fixed map.
type stubProvider struct {
	bySlug map[string]*tenant.Tenant
	err    error
}

func (p *stubProvider) GetByID(_ context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	if p.err != nil {
		return nil, p.err
	}
	for _, t := range p.bySlug {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, tenant.ErrTenantNotFound
}

func (p *stubProvider) GetBySlug(_ context.Context, slug string) (*tenant.Tenant, error) {
	if p.err != nil {
		return nil, p.err
	}
	if t, ok := p.bySlug[slug]; ok {
		return t, nil
	}
	return nil, tenant.ErrTenantNotFound
}

func captureTenant(tenantOut **tenant.Tenant) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if t, ok := tenant.FromContext(r.Context()); ok {
			*tenantOut = t
		}
		w.WriteHeader(http.StatusOK)
	})
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	acme := newTestTenant("acme", tenant.StatusActive)
	provider := &stubProvider{bySlug: map[string]*tenant.Tenant{
		"acme":      acme,
		"suspended": newTestTenant("suspended", tenant.StatusSuspended),
		"trial":     newTestTenant("trial", tenant.StatusTrial),
	}}
	headerResolver := tenant.NewHeaderResolver("")

	t.Run("resolves active tenant into context", func(t *testing.T) {
		t.Parallel()

		var got *tenant.Tenant
		mw := tenant.Middleware(headerResolver, provider, tenant.WithCache(tenant.NewNopCache()))

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(tenant.DefaultTenantHeader, "acme")
		rec := httptest.NewRecorder()
		mw(captureTenant(&got)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, acme.ID, got.ID)
	})

	t.Run("resolves by uuid identifier", func(t *testing.T) {
		t.Parallel()

		var got *tenant.Tenant
		mw := tenant.Middleware(headerResolver, provider, tenant.WithCache(tenant.NewNopCache()))

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(tenant.DefaultTenantHeader, acme.ID.String())
		rec := httptest.NewRecorder()
		mw(captureTenant(&got)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, "acme", got.Slug)
	})

	t.Run("unknown tenant is 404", func(t *testing.T) {
		t.Parallel()

		mw := tenant.Middleware(headerResolver, provider, tenant.WithCache(tenant.NewNopCache()))

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(tenant.DefaultTenantHeader, "ghost")
		rec := httptest.NewRecorder()
		mw(http.NotFoundHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Tenant not found", errorBody(t, rec)["error"])
	})

	t.Run("suspended tenant is indistinguishable from unknown", func(t *testing.T) {
		t.Parallel()

		mw := tenant.Middleware(headerResolver, provider, tenant.WithCache(tenant.NewNopCache()))

		for _, slug := range []string{"suspended", "trial"} {
			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set(tenant.DefaultTenantHeader, slug)
			rec := httptest.NewRecorder()
			mw(http.NotFoundHandler()).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, "Tenant not found", errorBody(t, rec)["error"])
		}
	})

	t.Run("no identifier rejected by default", func(t *testing.T) {
		t.Parallel()

		mw := tenant.Middleware(headerResolver, provider, tenant.WithCache(tenant.NewNopCache()))

		rec := httptest.NewRecorder()
		mw(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("WithAllowMissing proceeds with empty context", func(t *testing.T) {
		t.Parallel()

		var got *tenant.Tenant
		called := false
		mw := tenant.Middleware(headerResolver, provider,
			tenant.WithCache(tenant.NewNopCache()),
			tenant.WithAllowMissing(),
		)

		rec := httptest.NewRecorder()
		mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			if tt, ok := tenant.FromContext(r.Context()); ok {
				got = tt
			}
		})).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

		assert.True(t, called)
		assert.Nil(t, got)
	})

	t.Run("skip paths bypass resolution", func(t *testing.T) {
		t.Parallel()

		called := false
		mw := tenant.Middleware(headerResolver, provider,
			tenant.WithCache(tenant.NewNopCache()),
			tenant.WithSkipPaths("/health"),
		)

		rec := httptest.NewRecorder()
		mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		})).ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

		assert.True(t, called)
	})

	t.Run("provider fault is 500", func(t *testing.T) {
		t.Parallel()

		faulty := &stubProvider{err: assert.AnError}
		mw := tenant.Middleware(headerResolver, faulty, tenant.WithCache(tenant.NewNopCache()))

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(tenant.DefaultTenantHeader, "acme")
		rec := httptest.NewRecorder()
		mw(http.NotFoundHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("cached tenant skips provider", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCache()
		defer cache.Close()

		faulty := &stubProvider{err: assert.AnError}
		cache.Set(context.Background(), "acme", acme, time.Minute)

		var got *tenant.Tenant
		mw := tenant.Middleware(headerResolver, faulty, tenant.WithCache(cache))

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(tenant.DefaultTenantHeader, "acme")
		rec := httptest.NewRecorder()
		mw(captureTenant(&got)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, acme.ID, got.ID)
	})
}

func TestMiddleware_SluggedRouteGroup(t *testing.T) {
	t.Parallel()

	// Mirrors the production mount: the middleware runs inside a
	// /t/{tenantSlug} route group so the path strategy sees the chi route
	// param.
	acme := newTestTenant("acme", tenant.StatusActive)
	provider := &stubProvider{bySlug: map[string]*tenant.Tenant{"acme": acme}}
	resolver := tenant.Chain(
		tenant.NewPathResolver("tenantSlug"),
		tenant.NewHeaderResolver(""),
	)

	var got *tenant.Tenant
	r := chi.NewRouter()
	r.Route("/t/{tenantSlug}/customers", func(r chi.Router) {
		r.Use(tenant.Middleware(resolver, provider, tenant.WithCache(tenant.NewNopCache())))
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			if t, ok := tenant.FromContext(req.Context()); ok {
				got = t
			}
		})
	})

	t.Run("resolves the path slug", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", "/t/acme/customers/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, acme.ID, got.ID)
	})

	t.Run("path segment outranks the header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/t/acme/customers/", nil)
		req.Header.Set(tenant.DefaultTenantHeader, "unknown-shop")
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, acme.ID, got.ID)
	})
}

func TestRequire(t *testing.T) {
	t.Parallel()

	t.Run("rejects request without tenant", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		tenant.Require(nil)(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Tenant context is required", errorBody(t, rec)["error"])
	})

	t.Run("passes request with tenant", func(t *testing.T) {
		t.Parallel()

		called := false
		req := httptest.NewRequest("GET", "/", nil)
		req = req.WithContext(tenant.WithTenant(req.Context(), newTestTenant("acme", tenant.StatusActive)))

		tenant.Require(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		})).ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, called)
	})
}
