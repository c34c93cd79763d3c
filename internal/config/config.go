package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port           string
	Env            string
	PostgresDSN    string
	MongoURI       string
	MongoDB        string
	RedisAddr      string
	RedisPassword  string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	TokenSecret    string
	TokenTTL       time.Duration
}

// ErrNoTokenSecret is returned when TOKEN_SECRET is unset. There is no
// fallback secret; the process must not start without one.
var ErrNoTokenSecret = errors.New("TOKEN_SECRET is not configured")

// Load reads configuration from the environment. It fails if the token
// signing secret is absent or the token TTL is unparseable.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getenv("PORT", "8080"),
		Env:            getenv("APP_ENV", "development"),
		PostgresDSN:    getenv("POSTGRES_DSN", ""),
		MongoURI:       getenv("MONGO_URI", ""),
		MongoDB:        getenv("MONGO_DB", "contesthub"),
		RedisAddr:      getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
		MinioEndpoint:  getenv("MINIO_ENDPOINT", "minio:9000"),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "entry-media"),
		MinioUseSSL:    getenv("MINIO_USE_SSL", "false") == "true",
		TokenSecret:    getenv("TOKEN_SECRET", ""),
	}

	if cfg.TokenSecret == "" {
		return nil, ErrNoTokenSecret
	}

	ttl := getenv("TOKEN_TTL", "720h")
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return nil, fmt.Errorf("parse TOKEN_TTL %q: %w", ttl, err)
	}
	cfg.TokenTTL = d

	return cfg, nil
}

// IsDevelopment reports whether the service runs with development
// diagnostics (error detail included in 500 responses).
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
