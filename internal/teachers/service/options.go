package service

import (
	"log/slog"

	"trsync/internal/platform/tracer"
	teachermetrics "trsync/internal/teachers/metrics"
	"trsync/internal/teachers/ports"
)

// serviceConfig holds optional dependencies for the service.
type serviceConfig struct {
	logger    *slog.Logger
	tracer    tracer.Tracer
	publisher ports.EventPublisher
	metrics   *teachermetrics.Metrics
}

// Option configures the service.
type Option func(c *serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) {
		c.logger = logger
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(c *serviceConfig) {
		c.tracer = t
	}
}

// WithEventPublisher sets where committed batches are announced. Without
// one, nothing is published.
func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(c *serviceConfig) {
		c.publisher = publisher
	}
}

func WithMetrics(m *teachermetrics.Metrics) Option {
	return func(c *serviceConfig) {
		c.metrics = m
	}
}
