package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/health"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/httpclient"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/tracing"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/catalog"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/config"
	handler "github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/handler/http"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/service"
)

// App wires together all dependencies and runs the storefront.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
	stopBackground context.CancelFunc
}

// NewApp creates a new application instance: tracer, catalog client behind a
// circuit breaker, service, health checks and the HTTP router. The storefront
// has no database, cache or broker dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	templates, err := handler.ParseTemplates()
	if err != nil {
		return nil, err
	}

	// One request per page visit: retries stay disabled.
	clientCfg := httpclient.DefaultConfig()
	clientCfg.Timeout = cfg.CatalogTimeout

	cbCfg := httpclient.DefaultCircuitBreakerConfig("catalog")
	cbCfg.FailureRatio = cfg.BreakerFailureRatio
	cbCfg.MinRequests = cfg.BreakerMinRequests
	cbCfg.Timeout = cfg.BreakerOpenTimeout

	doer := httpclient.NewCircuitBreakerClient(httpclient.New(clientCfg), cbCfg, logger)
	fetcher := catalog.NewHTTPFetcher(doer, cfg.CatalogURL, logger,
		catalog.WithMaxBodyBytes(cfg.CatalogMaxBodyBytes),
		catalog.WithSlowFetchThreshold(cfg.CatalogSlowFetch),
	)
	svc := service.NewStorefrontService(fetcher, cfg.ImageBaseURL, logger)

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("templates", templates.Check)
	healthHandler.RegisterNonCritical("catalog", catalogReachable(cfg.CatalogHost()))

	bgCtx, stopBackground := context.WithCancel(context.Background())
	router := handler.NewRouter(bgCtx, cfg, svc, templates, healthHandler, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      25 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
		stopBackground: stopBackground,
	}, nil
}

// catalogReachable dials the catalog host. A failure degrades readiness but
// does not take the storefront out of rotation: pages render a
// "Loading failed" state on their own.
func catalogReachable(hostPort string) health.Checker {
	return func(ctx context.Context) error {
		if hostPort == "" {
			return errors.New("catalog host is not configured")
		}
		d := net.Dialer{Timeout: 2 * time.Second}
		conn, err := d.DialContext(ctx, "tcp", hostPort)
		if err != nil {
			return fmt.Errorf("catalog unreachable: %w", err)
		}
		_ = conn.Close()
		return nil
	}
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
			slog.String("catalog_url", a.cfg.CatalogURL),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application in order:
// 1. HTTP server (drain in-flight requests)
// 2. Background middleware work
// 3. Tracer (flush pending spans from drained requests)
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.stopBackground != nil {
		a.stopBackground()
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
