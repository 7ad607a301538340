package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"trsync/internal/matching"
	"trsync/internal/platform/config"
	"trsync/internal/platform/database"
	"trsync/internal/platform/health"
	"trsync/internal/platform/kafka/producer"
	"trsync/internal/platform/logger"
	"trsync/internal/platform/metrics"
	redisclient "trsync/internal/platform/redis"
	"trsync/internal/platform/tracer"
	"trsync/internal/referencedata"
	"trsync/internal/referencedata/cache"
	refmetrics "trsync/internal/referencedata/metrics"
	"trsync/internal/registry"
	registrymetrics "trsync/internal/registry/metrics"
	"trsync/internal/registry/store"
	"trsync/internal/seeder"
	"trsync/internal/teachers/adapters"
	teachermetrics "trsync/internal/teachers/metrics"
	"trsync/internal/teachers/service"
	httptransport "trsync/internal/transport/http"
	"trsync/migrations"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	log.Info("initializing trsync",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"postgres", cfg.DatabaseURL != "",
		"redis", cfg.Redis.URL != "",
		"kafka", cfg.Kafka.Enabled(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := build(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer app.close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		return
	}

	log.Info("server stopped")
}

type app struct {
	router  http.Handler
	closers []func() error
	logger  *slog.Logger
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to release resource", "error", err)
		}
	}
}

func build(ctx context.Context, cfg config.Server, log *slog.Logger) (_ *app, err error) {
	a := &app{logger: log}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	reg := metrics.NewRegistry(health.Version, cfg.Environment)
	checks := health.New(cfg.Environment)
	trace := tracer.NewOTel()

	backing, err := registryStore(ctx, cfg, a, reg, checks)
	if err != nil {
		return nil, err
	}
	records := registry.NewInstrumented(backing, registrymetrics.New(reg))

	if cfg.SeedDemoData {
		if err := seeder.New(records, log).SeedAll(ctx); err != nil {
			return nil, err
		}
	}

	refMetrics := refmetrics.New(reg)
	refCache, err := referenceCache(ctx, cfg, a, reg, checks, refMetrics, log)
	if err != nil {
		return nil, err
	}
	resolver := referencedata.New(records, refCache,
		referencedata.WithLogger(log),
		referencedata.WithTracer(trace),
		referencedata.WithMetrics(refMetrics),
	)
	matcher := matching.New(records, matching.WithTracer(trace))

	opts := []service.Option{
		service.WithLogger(log),
		service.WithTracer(trace),
		service.WithMetrics(teachermetrics.New(reg)),
	}
	if cfg.Kafka.Enabled() {
		p, err := producer.New(producer.Config{
			Brokers:         cfg.Kafka.Brokers,
			Acks:            cfg.Kafka.Acks,
			Retries:         3,
			DeliveryTimeout: 10 * time.Second,
		}, log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, p.Close)
		checks.RegisterCheck("kafka", p.Health)
		opts = append(opts, service.WithEventPublisher(adapters.NewKafkaPublisher(p, cfg.Kafka.Topic)))
	}

	teachers := service.New(records, resolver, matcher, opts...)
	a.router = httptransport.NewRouter(httptransport.Config{
		Teachers:       teachers,
		Health:         checks,
		Registry:       reg,
		Logger:         log,
		RequestTimeout: cfg.RequestTimeout,
	})
	return a, nil
}

// registryStore is PostgreSQL when DATABASE_URL is set and in-memory otherwise.
func registryStore(ctx context.Context, cfg config.Server, a *app, reg *prometheus.Registry, checks *health.Handler) (registry.Store, error) {
	pool, err := database.New(ctx, database.DefaultConfig(cfg.DatabaseURL))
	if err != nil {
		return nil, err
	}
	if pool == nil {
		a.logger.Warn("DATABASE_URL not set, using in-memory registry")
		return store.NewInMemory(), nil
	}
	a.closers = append(a.closers, pool.Close)

	if err := pool.Migrate(ctx, migrations.FS); err != nil {
		return nil, err
	}
	if err := metrics.RegisterDBStats(reg, pool.DB(), "registry"); err != nil {
		return nil, err
	}
	checks.RegisterCheck("postgres", pool.Health)
	return store.NewPostgres(pool.DB()), nil
}

// referenceCache shares resolved reference data through Redis when it is
// configured. A nil cache gives each resolver its own in-memory cache.
func referenceCache(ctx context.Context, cfg config.Server, a *app, reg *prometheus.Registry, checks *health.Handler, m *refmetrics.Metrics, log *slog.Logger) (referencedata.Cache, error) {
	client, err := redisclient.New(ctx, cfg.Redis, redisclient.NewPoolMetrics(reg))
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}
	a.closers = append(a.closers, client.Close)
	checks.RegisterCheck("redis", func(ctx context.Context) error {
		client.RecordPoolStats()
		return client.Health(ctx)
	})
	return cache.NewRedis(client.Client, cfg.ReferenceCacheTTL, m, log), nil
}
