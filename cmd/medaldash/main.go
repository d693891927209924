package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/okian/medaldash/internal/adapters/http/api"
	"github.com/okian/medaldash/internal/adapters/http/site"
	"github.com/okian/medaldash/internal/adapters/http/swagger"
	"github.com/okian/medaldash/internal/adapters/source"
	app "github.com/okian/medaldash/internal/app"
	"github.com/okian/medaldash/internal/config"
	"github.com/okian/medaldash/internal/domain/dataset"
	"github.com/okian/medaldash/pkg/logger"
	"github.com/okian/medaldash/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "medaldash stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

// newService builds the dashboard service from cfg.
func newService(cfg *config.Config, log logger.Logger) *app.Service {
	return app.New(
		app.WithLogger(log.Named("service")),
		app.WithSourceSettings(source.Settings{
			Driver: cfg.DatasetDriver,
			Path:   cfg.DatasetPath,
			DSN:    cfg.DatasetDSN,
			Table:  cfg.DatasetTable,
		}),
		app.WithNormalizerOptions(
			dataset.WithYearRange(cfg.MinYear, cfg.MaxYear),
			dataset.WithAliases(cfg.CountryAliases),
		),
		app.WithTopN(cfg.TopN),
		app.WithDefaults(cfg.DefaultCountry, cfg.DefaultYear),
	)
}

// newHandler registers every route of the process on one mux.
func newHandler(ctx context.Context, svc *app.Service, log logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Register ReDoc and the OpenAPI document
	swagger.Register(ctx, mux)

	// Register the dashboard script and stylesheet
	site.Register(ctx, mux)

	// Register business API routes with the service dependency.
	api.NewServer(svc, svc, api.WithLogger(log.Named("api"))).Register(ctx, mux)

	return api.RequestIDMiddleware(mux)
}

// run loads the dataset, then serves HTTP until ctx is cancelled or the
// server fails.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	svc := newService(cfg, log)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		startSystemMetricsUpdater(gctx, metrics.RefreshInterval())
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info(context.Background(), "shutting down server...")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		log.Info(context.Background(), "server stopped")
		return nil
	})

	return g.Wait()
}

// startSystemMetricsUpdater updates system metrics every interval until ctx ends.
func startSystemMetricsUpdater(ctx context.Context, interval time.Duration) {
	updateSystemMetrics()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		// Average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
