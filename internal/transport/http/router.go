package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"trsync/internal/platform/health"
	"trsync/internal/platform/metrics"
	"trsync/internal/platform/middleware"
	teacherhandler "trsync/internal/teachers/handler"
	"trsync/pkg/platform/validation"
)

// Config is what the router needs from main.
type Config struct {
	Teachers       teacherhandler.Service
	Health         *health.Handler
	Registry       *prometheus.Registry
	Logger         *slog.Logger
	RequestTimeout time.Duration
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(logger))
	if cfg.Registry != nil {
		r.Use(middleware.Latency(middleware.NewMetrics(cfg.Registry), routePattern))
		r.Handle("/metrics", metrics.Handler(cfg.Registry))
	}

	if cfg.Health != nil {
		cfg.Health.Register(r)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))
		r.Use(middleware.BodyLimit(validation.MaxBodySize))
		r.Use(middleware.ContentTypeJSON)
		teacherhandler.New(cfg.Teachers, logger).Register(r)
	})

	return r
}

// routePattern labels requests by chi route so ids never reach metric labels.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
