package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"genaidash/internal/config"
	"genaidash/internal/dashboard"
	apperrors "genaidash/internal/errors"
	"genaidash/internal/history"
	"genaidash/internal/infrastructure"
	"genaidash/internal/middleware"
	"genaidash/internal/services"
	handlers "genaidash/internal/transport/http"
	"genaidash/pkg/contracts"
)

// Application holds the wired components of one process
type Application struct {
	Settings      config.Settings
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	History       *history.Store // nil when no history path is configured
	Dashboards    *services.DashboardService
	Health        *services.HealthService
	Router        chi.Router
	Server        *http.Server
}

// Option adjusts how New wires an Application
type Option func(*options)

type options struct {
	traceWriter io.Writer
}

// WithTraceWriter sets where exported spans are written, stderr by default
func WithTraceWriter(w io.Writer) Option {
	return func(o *options) { o.traceWriter = w }
}

// New wires every component from a resolved settings snapshot. Nothing
// listens until Serve is called; Close releases what New opened.
func New(settings config.Settings, logger *slog.Logger, opts ...Option) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &Application{
		Settings: settings,
		Logger:   logger,
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFromSettings(settings, o.traceWriter), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	a.OTelProviders = providers

	a.Metrics, err = infrastructure.CreateBusinessMetrics(providers.Meter)
	if err != nil {
		a.shutdownOTel(context.Background())
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	var runs services.RunStore
	if path := settings.Runtime.HistoryPath; path != "" {
		a.History, err = history.Open(path, logger)
		if err != nil {
			a.shutdownOTel(context.Background())
			return nil, err
		}
		runs = a.History
	}

	a.Dashboards = services.NewDashboardService(settings, runs, logger,
		dashboard.WithTelemetry(providers.Tracer, a.Metrics))
	a.Health = services.NewHealthService(logger)

	a.setupRouter()
	a.createServer()

	logger.Debug("Application initialized",
		slog.String("version", contracts.Version),
		slog.Bool("history", a.History != nil))
	return a, nil
}

func (a *Application) setupRouter() {
	errorHandler := apperrors.NewErrorHandler(a.Logger, false)

	a.Router = handlers.NewRouter(handlers.RouterConfig{
		Dashboard: a.Dashboards,
		Health:    a.Health,
		Metrics:   a.OTelProviders.PrometheusHTTP,
		OTel:      middleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics),
		RateLimiter: middleware.NewRateLimiter(
			a.Settings.Server.RateLimitRPS,
			a.Settings.Server.RateLimitBurst,
			errorHandler,
			a.Logger,
		),
		Timeout:      a.Settings.RequestTimeout(),
		ErrorHandler: errorHandler,
		Logger:       a.Logger,
	})
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:              a.Settings.Server.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       config.DefaultReadTimeout,
		// Responses must be able to outlive the per-request timeout
		WriteTimeout: max(config.DefaultWriteTimeout, a.Settings.RequestTimeout()+5*time.Second),
		IdleTimeout:  60 * time.Second,
	}
}

// Serve listens on the configured address and serves until ctx is done
func (a *Application) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.Server.Addr, err)
	}
	return a.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is done, then drains in-flight
// requests for at most the shutdown timeout. A server failure is returned
// without waiting for ctx.
func (a *Application) ServeListener(ctx context.Context, ln net.Listener) error {
	a.Logger.InfoContext(ctx, "Starting server",
		slog.String("address", ln.Addr().String()),
		slog.String("version", contracts.Version))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- a.Server.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}

	a.Logger.InfoContext(ctx, "Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Settings.ShutdownTimeout())
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	<-serveErr

	a.Logger.InfoContext(ctx, "Server stopped")
	return nil
}

// Close releases the run store and flushes telemetry
func (a *Application) Close(ctx context.Context) error {
	var errs []error

	if a.History != nil {
		if err := a.History.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.shutdownOTel(ctx); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (a *Application) shutdownOTel(ctx context.Context) error {
	if a.OTelProviders == nil {
		return nil
	}
	if err := a.OTelProviders.Shutdown(ctx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		return err
	}
	return nil
}
