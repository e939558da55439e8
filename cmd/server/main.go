package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/motorlane/shopcore/core"
	"github.com/motorlane/shopcore/modules/auth"
	"github.com/motorlane/shopcore/modules/shop"
	"github.com/motorlane/shopcore/modules/staff"
	"github.com/motorlane/shopcore/pkg/config"
	"github.com/motorlane/shopcore/pkg/httpserver"
	"github.com/motorlane/shopcore/pkg/logger"
	"github.com/motorlane/shopcore/pkg/pg"
	"github.com/motorlane/shopcore/pkg/redis"
	"github.com/motorlane/shopcore/pkg/requestid"
	"github.com/motorlane/shopcore/pkg/tenant"
)

type appConfig struct {
	TenantHeader   string        `env:"TENANT_HEADER" envDefault:"X-Tenant-Slug"`
	TenantCacheTTL time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`
}

func main() {
	ctx := context.Background()

	var (
		appCfg   appConfig
		logCfg   logger.Config
		httpCfg  httpserver.Config
		pgCfg    pg.Config
		redisCfg redis.Config
		authCfg  auth.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&logCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&authCfg)

	log := logger.New(logCfg, logger.WithContextExtractors(
		requestid.LoggerExtractor(),
		tenant.LoggerExtractor(),
	))

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		log.ErrorContext(ctx, "failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		log.ErrorContext(ctx, "failed to run migrations", "error", err)
		os.Exit(1)
	}

	// The tenant cache degrades to in-process memory when redis is down;
	// resolution correctness never depends on it.
	tenantCache := tenant.NewMemoryCache()
	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		log.WarnContext(ctx, "redis unavailable, using in-memory tenant cache", "error", err)
	} else {
		defer redisClient.Close()
		tenantCache = tenant.NewRedisCache(redisClient)
	}

	staffStorage := staff.NewPostgresStorage(pool)

	authSvc, err := auth.NewService(authCfg,
		auth.NewPostgresUserStorage(pool),
		auth.NewPostgresRefreshStorage(pool),
		staffStorage,
		log,
	)
	if err != nil {
		log.ErrorContext(ctx, "failed to build auth service", "error", err)
		os.Exit(1)
	}

	resolver := tenant.Chain(
		tenant.NewClaimResolver(auth.TenantClaimSource()),
		tenant.NewPathResolver("tenantSlug"),
		tenant.NewHeaderResolver(appCfg.TenantHeader),
		tenant.NewSubdomainResolver(),
	)
	provider := tenant.NewPostgresProvider(pool)

	resolveTenant := tenant.Middleware(resolver, provider,
		tenant.WithCache(tenantCache),
		tenant.WithCacheTTL(appCfg.TenantCacheTTL),
	)
	// Auth endpoints accept tenant-less requests: a login outside any
	// tenant scope still works, it just issues a token without shop claims.
	resolveTenantOptional := tenant.Middleware(resolver, provider,
		tenant.WithCache(tenantCache),
		tenant.WithCacheTTL(appCfg.TenantCacheTTL),
		tenant.WithAllowMissing(),
	)

	guard := shop.Guard(func(roles ...staff.Role) func(http.Handler) http.Handler {
		return staff.RequireRole(auth.StaffPrincipalSource(), staffStorage, roles...)
	})

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(auth.Authenticate(authSvc))

	r.Get("/health", healthHandler(pg.Healthcheck(pool)))

	r.Route("/auth", func(r chi.Router) {
		r.Use(resolveTenantOptional)
		r.Mount("/", auth.NewHandler(authSvc).Router())
	})

	shopRouter := shop.NewHandler(shop.NewPostgresStorage(pool), guard).Router()

	r.Route("/shop", func(r chi.Router) {
		r.Use(resolveTenant)
		r.Mount("/", shopRouter)
	})

	// Slug-in-path variant of the same surface; the resolver chain picks
	// the {tenantSlug} segment up when no claim names a tenant.
	r.Route("/t/{tenantSlug}/shop", func(r chi.Router) {
		r.Use(resolveTenant)
		r.Mount("/", shopRouter)
	})

	if err := httpserver.New(httpCfg, log).Run(ctx, r); err != nil {
		log.ErrorContext(ctx, "server exited with error", "error", err)
		os.Exit(1)
	}
}

func healthHandler(checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				core.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
				return
			}
		}
		core.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
