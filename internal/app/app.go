package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"kyccli/internal/analytics"
	"kyccli/internal/config"
	apierrors "kyccli/internal/errors"
	"kyccli/internal/infrastructure"
	custommiddleware "kyccli/internal/middleware"
	"kyccli/internal/services"
	"kyccli/internal/store"
	handlers "kyccli/internal/transport/http"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Application wires configuration, storage, services and the HTTP router
// into a runnable server.
type Application struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server

	session          *store.Session
	importService    *services.ImportService
	dashboardService *services.DashboardService
}

// New builds the application from configuration. It initializes logging,
// opens the persistent store, restores any previously committed dataset,
// and assembles the router.
func New(cfg *config.Config) (*Application, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, apierrors.NewConfigError("failed to prepare directories", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, apierrors.NewConfigError("failed to initialize logger", err)
	}

	kv, err := store.NewKVStore(cfg.Paths.StoreDir)
	if err != nil {
		return nil, apierrors.NewStorageError("failed to open store directory", err)
	}
	session := store.NewSession(kv, logger)

	aggregator := analytics.NewAggregator(logger, analytics.DefaultAggregatorConfig())
	importService := services.NewImportService(session, logger)
	dashboardService := services.NewDashboardService(session, aggregator, logger)

	app := &Application{
		cfg:              cfg,
		logger:           logger,
		session:          session,
		importService:    importService,
		dashboardService: dashboardService,
	}

	app.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

// router assembles the middleware chain and mounts the handler routes.
func (a *Application) router() chi.Router {
	r := chi.NewRouter()

	r.Use(custommiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommiddleware.StructuredLogger(a.logger))
	r.Use(custommiddleware.Recoverer(a.logger))
	if a.cfg.Security.RateLimit.Enabled {
		limiter := custommiddleware.NewRateLimiter(a.cfg.Security.RateLimit.RPS, a.cfg.Security.RateLimit.Burst, a.logger)
		r.Use(limiter.Handler)
	}
	r.Use(chimiddleware.Timeout(a.cfg.Server.RequestTimeout))

	errorHandler := apierrors.NewErrorHandler(a.logger)

	datasetHandler := handlers.NewDatasetHandler(a.importService, a.dashboardService, a.cfg.Import.MaxUploadBytes, a.logger, errorHandler)
	dashboardHandler := handlers.NewDashboardHandler(a.dashboardService, a.logger, errorHandler)
	exportHandler := handlers.NewExportHandler(a.dashboardService, a.logger, errorHandler)
	preferencesHandler := handlers.NewPreferencesHandler(a.session, a.logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(Version)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/dataset", datasetHandler.Routes())
		r.Mount("/", dashboardHandler.Routes())
		r.Mount("/export", exportHandler.Routes())
		r.Mount("/preferences", preferencesHandler.Routes())
	})

	r.Get("/healthz", healthHandler.Health)
	r.Handle("/metrics", handlers.MetricsHandler())

	return r
}

// Run starts the HTTP server and blocks until the context is cancelled or
// a termination signal arrives, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening",
			slog.String("addr", a.server.Addr),
			slog.String("version", Version))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	a.logger.Info("server stopped")
	return infrastructure.CloseLogFile()
}

// Handler exposes the assembled router, primarily for tests.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}
