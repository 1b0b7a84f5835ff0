package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/health"
	pkgmiddleware "github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/middleware"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/config"
	sfmiddleware "github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/middleware"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/service"
)

const serviceName = "storefront"

// requestTimeout bounds a page visit, catalog fetch included.
const requestTimeout = 20 * time.Second

// NewRouter creates a chi router with global middleware, health and ops
// endpoints, the JSON catalog API and the HTML pages. ctx bounds background
// work started by middleware.
func NewRouter(
	ctx context.Context,
	cfg *config.Config,
	svc *service.StorefrontService,
	templates *Templates,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	corsCfg := pkgmiddleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	// Global middleware stack (applied in order).
	r.Use(pkgmiddleware.CORS(corsCfg))
	r.Use(sfmiddleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
	r.Use(pkgmiddleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(pkgmiddleware.RequestLogging(logger))
	r.Use(pkgmiddleware.PrometheusMetrics(serviceName))
	r.Use(pkgmiddleware.Tracing(serviceName))
	r.Use(pkgmiddleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())

	// Metrics endpoint with IP allowlist protection.
	r.With(pkgmiddleware.IPAllowlist(cfg.MetricsAllowedCIDRs, logger)).Handle("/metrics", promhttp.Handler())

	pkgmiddleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	// JSON catalog API
	catalogHandler := NewCatalogHandler(svc, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.With(pkgmiddleware.Page("api.products")).Get("/products", catalogHandler.ListProducts)
		r.With(pkgmiddleware.Page("api.product")).Get("/products/{id}", catalogHandler.GetProduct)
		r.With(pkgmiddleware.Page("api.categories")).Get("/categories", catalogHandler.ListCategories)
	})

	// HTML pages
	pageHandler := NewPageHandler(svc, templates, logger)

	r.Get("/", pageHandler.Home)
	r.With(pkgmiddleware.Page("shop")).Get("/shop", pageHandler.Shop)
	r.With(pkgmiddleware.Page("product")).Get("/product/{id}", pageHandler.ProductDetail)
	r.NotFound(pageHandler.NotFound)

	return r
}
