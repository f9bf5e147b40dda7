// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strings"
	"time"

	pstrings "todotrack/pkg/platform/strings"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	TokenTTL      time.Duration
	SessionTTL    time.Duration

	// Categories seeds the admissible item categories. Empty means the
	// built-in defaults.
	Categories []string

	LogFormat string // "json" or "text"
	LogLevel  string

	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	Postgres PostgresConfig
	Redis    RedisConfig
}

// PostgresConfig holds connection settings for the task store. An empty URL
// means the in-memory store is used.
type PostgresConfig struct {
	URL string
}

// RedisConfig holds connection settings for the category store and the token
// revocation list. An empty URL means the in-memory fallbacks are used.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("TODOTRACK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("TODOTRACK_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		JWTIssuer:     envOr("TODOTRACK_JWT_ISSUER", "todotrack"),
		JWTAudience:   envOr("TODOTRACK_JWT_AUDIENCE", "todotrack-api"),
		TokenTTL:      durationOr("TODOTRACK_TOKEN_TTL", time.Hour),
		SessionTTL:    durationOr("TODOTRACK_SESSION_TTL", 24*time.Hour),
		Categories:    splitList(os.Getenv("TODOTRACK_CATEGORIES")),
		LogFormat:     envOr("TODOTRACK_LOG_FORMAT", "json"),
		LogLevel:      envOr("TODOTRACK_LOG_LEVEL", "info"),

		HTTPWriteTimeout: durationOr("TODOTRACK_HTTP_WRITE_TIMEOUT", 30*time.Second),
		HTTPIdleTimeout:  durationOr("TODOTRACK_HTTP_IDLE_TIMEOUT", 2*time.Minute),
		Postgres: PostgresConfig{
			URL: os.Getenv("TODOTRACK_POSTGRES_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("TODOTRACK_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	out := pstrings.DedupeAndTrim(strings.Split(v, ","))
	if len(out) == 0 {
		return nil
	}
	return out
}
