package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"trsync/internal/referencedata/metrics"
	"trsync/pkg/platform/circuit"
)

const (
	layerRedis     = "redis"
	redisKeyPrefix = "trsync:refdata:"
)

// Redis is a shared second-level cache in front of the registry. Lookups go
// through an in-process Memory cache first, so each process still resolves a
// key at most once and coalesces concurrent misses. Only resolved ids are
// shared; absence is cached per process.
//
// While the breaker is open reads skip Redis. Writes still go out and their
// outcomes close the breaker again.
type Redis struct {
	client  *redis.Client
	ttl     time.Duration
	local   *Memory
	breaker *circuit.Breaker
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewRedis constructs a Redis-backed cache. ttl <= 0 stores entries without expiry.
func NewRedis(client *redis.Client, ttl time.Duration, m *metrics.Metrics, logger *slog.Logger) *Redis {
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{
		client:  client,
		ttl:     ttl,
		local:   NewMemory(m),
		breaker: circuit.New(layerRedis),
		metrics: m,
		logger:  logger,
	}
}

func (c *Redis) GetOrPopulate(ctx context.Context, key string, populate Populate) (Entry, error) {
	return c.local.GetOrPopulate(ctx, key, func(ctx context.Context) (Entry, error) {
		var (
			e     Entry
			found bool
			err   error
		)
		if !c.breaker.IsOpen() {
			e, found, err = c.find(ctx, key)
			c.record(ctx, err)
			if err != nil {
				// read failures fall through to the registry
				c.logger.WarnContext(ctx, "reference cache read failed", "key", key, "error", err)
			}
		}
		if found && e.Found {
			c.metrics.RecordCacheHit(layerRedis)
			return e, nil
		}
		c.metrics.RecordCacheMiss(layerRedis)

		e, err = populate(ctx)
		if err != nil {
			return Entry{}, err
		}
		if !e.Found {
			// absence stays process-local; the registry may gain the record later
			return e, nil
		}
		err = c.save(ctx, key, e)
		c.record(ctx, err)
		if err != nil {
			c.logger.WarnContext(ctx, "reference cache write failed", "key", key, "error", err)
		}
		return e, nil
	})
}

func (c *Redis) record(ctx context.Context, err error) {
	change := c.breaker.Record(err)
	switch {
	case change.Opened:
		c.logger.ErrorContext(ctx, "circuit breaker opened", "circuit", c.breaker.Name(), "error", err)
	case change.Closed:
		c.logger.InfoContext(ctx, "circuit breaker closed", "circuit", c.breaker.Name())
	}
}

func (c *Redis) find(ctx context.Context, key string) (Entry, bool, error) {
	data, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("get reference cache: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, false, fmt.Errorf("decode reference cache: %w", err)
	}
	return e, true, nil
}

func (c *Redis) save(ctx context.Context, key string, e Entry) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode reference cache: %w", err)
	}
	ttl := c.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("save reference cache: %w", err)
	}
	return nil
}
