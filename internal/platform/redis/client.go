package redis

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"trsync/internal/platform/config"
)

// PoolMetrics mirrors go-redis pool statistics into Prometheus.
type PoolMetrics struct {
	Hits       prometheus.Counter
	Misses     prometheus.Counter
	Timeouts   prometheus.Counter
	StaleConns prometheus.Counter
	TotalConns prometheus.Gauge
	IdleConns  prometheus.Gauge
}

func NewPoolMetrics(reg prometheus.Registerer) *PoolMetrics {
	f := promauto.With(reg)
	return &PoolMetrics{
		Hits: f.NewCounter(prometheus.CounterOpts{
			Name: "trsync_redis_pool_hits_total",
			Help: "Number of times a connection was found in the pool",
		}),
		Misses: f.NewCounter(prometheus.CounterOpts{
			Name: "trsync_redis_pool_misses_total",
			Help: "Number of times a connection was not found in the pool",
		}),
		Timeouts: f.NewCounter(prometheus.CounterOpts{
			Name: "trsync_redis_pool_timeouts_total",
			Help: "Number of times a connection was not obtained due to timeout",
		}),
		StaleConns: f.NewCounter(prometheus.CounterOpts{
			Name: "trsync_redis_pool_stale_conns_total",
			Help: "Number of stale connections removed from the pool",
		}),
		TotalConns: f.NewGauge(prometheus.GaugeOpts{
			Name: "trsync_redis_pool_total_conns",
			Help: "Number of total connections in the pool",
		}),
		IdleConns: f.NewGauge(prometheus.GaugeOpts{
			Name: "trsync_redis_pool_idle_conns",
			Help: "Number of idle connections in the pool",
		}),
	}
}

// Client wraps the go-redis client with health checking capabilities.
type Client struct {
	*redis.Client
	metrics   *PoolMetrics
	lastStats *redis.PoolStats
}

// New creates a new Redis client from the provided configuration.
// Returns nil if the URL is empty (Redis not configured).
func New(ctx context.Context, cfg config.RedisConfig, m *PoolMetrics) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck // best-effort cleanup on init failure
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client, metrics: m}, nil
}

// Health checks if the Redis connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// RecordPoolStats publishes the current pool statistics. Counters advance by
// the delta since the previous call. Not safe for concurrent use; call it
// from a single ticker goroutine.
func (c *Client) RecordPoolStats() {
	if c.metrics == nil {
		return
	}
	stats := c.PoolStats()
	c.metrics.TotalConns.Set(float64(stats.TotalConns))
	c.metrics.IdleConns.Set(float64(stats.IdleConns))

	prev := &redis.PoolStats{}
	if c.lastStats != nil {
		prev = c.lastStats
	}
	addDelta(c.metrics.Hits, stats.Hits, prev.Hits)
	addDelta(c.metrics.Misses, stats.Misses, prev.Misses)
	addDelta(c.metrics.Timeouts, stats.Timeouts, prev.Timeouts)
	addDelta(c.metrics.StaleConns, stats.StaleConns, prev.StaleConns)

	c.lastStats = stats
}

func addDelta(counter prometheus.Counter, now, before uint32) {
	if now > before {
		counter.Add(float64(now - before))
	}
}
