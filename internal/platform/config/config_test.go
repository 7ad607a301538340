package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{"TRSYNC_ADDR", "DATABASE_URL", "REDIS_URL", "KAFKA_BROKERS", "KAFKA_TOPIC", "REFERENCE_CACHE_TTL", "ENVIRONMENT", "SEED_DEMO_DATA"} {
			t.Setenv(key, "")
		}
		cfg := FromEnv()

		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, "local", cfg.Environment)
		assert.Empty(t, cfg.DatabaseURL)
		assert.Zero(t, cfg.ReferenceCacheTTL)
		assert.Equal(t, DefaultKafkaTopic, cfg.Kafka.Topic)
		assert.False(t, cfg.Kafka.Enabled())
		assert.False(t, cfg.SeedDemoData)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("TRSYNC_ADDR", ":9090")
		t.Setenv("DATABASE_URL", "postgres://localhost/trsync")
		t.Setenv("REDIS_URL", "redis://localhost:6379/0")
		t.Setenv("REFERENCE_CACHE_TTL", "12h")
		t.Setenv("KAFKA_BROKERS", "localhost:9092")
		t.Setenv("KAFKA_TOPIC", "teachers")
		t.Setenv("SEED_DEMO_DATA", "true")
		cfg := FromEnv()

		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, "postgres://localhost/trsync", cfg.DatabaseURL)
		assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
		assert.Equal(t, 12*time.Hour, cfg.ReferenceCacheTTL)
		assert.Equal(t, "teachers", cfg.Kafka.Topic)
		assert.True(t, cfg.Kafka.Enabled())
		assert.True(t, cfg.SeedDemoData)
	})

	t.Run("unparseable durations fall back", func(t *testing.T) {
		t.Setenv("REFERENCE_CACHE_TTL", "forever")
		t.Setenv("REQUEST_TIMEOUT", "soon")
		cfg := FromEnv()

		assert.Zero(t, cfg.ReferenceCacheTTL)
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	})
}
