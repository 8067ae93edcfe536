package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	apierrors "genaidash/internal/errors"
	"genaidash/internal/middleware"
)

// RouterConfig collects what NewRouter needs
type RouterConfig struct {
	Dashboard    DashboardServiceInterface
	Health       HealthServiceInterface
	Metrics      http.Handler
	OTel         *middleware.OTelMiddleware
	RateLimiter  *middleware.RateLimiter
	Timeout      time.Duration
	ErrorHandler *apierrors.ErrorHandler
	Logger       *slog.Logger
}

// NewRouter builds the HTTP API. Middleware order matters: RequestID must
// run first so every later log line and error carries the request id.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if cfg.OTel != nil {
		r.Use(cfg.OTel.Handler)
	}
	r.Use(middleware.StructuredLogger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.ErrorHandler))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimw.StripSlashes)
	if cfg.Timeout > 0 {
		r.Use(chimw.Timeout(cfg.Timeout))
	}

	r.NotFound(cfg.ErrorHandler.NotFound)
	r.MethodNotAllowed(cfg.ErrorHandler.MethodNotAllowed)

	r.Method(http.MethodGet, "/metrics", NewMetricsHandler(cfg.Metrics, cfg.ErrorHandler))

	health := NewHealthHandler(cfg.Health, cfg.Logger)
	dashboards := NewDashboardHandler(cfg.Dashboard, cfg.Logger, cfg.ErrorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.HealthCheck)
		r.Get("/version", health.Version)

		r.Group(func(r chi.Router) {
			if cfg.RateLimiter != nil {
				r.Use(cfg.RateLimiter.Handler)
			}
			r.Mount("/", dashboards.Routes())
		})
	})

	return r
}
