package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	Environment     string
	LogLevel        string
	DatabaseURL     string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	Redis           RedisConfig
	Kafka           KafkaConfig
	// ReferenceCacheTTL of zero keeps resolved reference data for the life of
	// the shared cache.
	ReferenceCacheTTL time.Duration
	// SeedDemoData loads reference data and demo teachers at startup.
	SeedDemoData bool
}

// RedisConfig configures the shared reference data cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the teacher.synchronized event stream.
type KafkaConfig struct {
	Brokers string
	Topic   string
	Acks    string
}

// Enabled reports whether events should be published at all.
func (k KafkaConfig) Enabled() bool {
	return k.Brokers != ""
}

const DefaultKafkaTopic = "trsync.teacher-synchronized"

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:              getEnv("TRSYNC_ADDR", ":8080"),
		Environment:       getEnv("ENVIRONMENT", "local"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RequestTimeout:    getDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:   getDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		ReferenceCacheTTL: getDuration("REFERENCE_CACHE_TTL", 0),
		SeedDemoData:      getBool("SEED_DEMO_DATA", false),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: os.Getenv("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_TOPIC", DefaultKafkaTopic),
			Acks:    getEnv("KAFKA_ACKS", "all"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Unparseable values fall back to the default.
func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
