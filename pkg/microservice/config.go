package microservice

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment variable Config reads.
const EnvPrefix = "VACARIO_"

// Config holds the cache service configuration, read from the environment.
type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
	HTTPPort  string `env:"HTTP_PORT" envDefault:":8080"`

	// Store selects the backend: memory, sqlite, redis, firestore or gcs.
	Store         string `env:"STORE" envDefault:"sqlite"`
	CacheCapacity int    `env:"CACHE_CAPACITY" envDefault:"5"`

	SQLitePath string `env:"SQLITE_PATH" envDefault:"vacario.db"`

	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	RedisTTL      time.Duration `env:"REDIS_TTL" envDefault:"0s"`

	ProjectID           string `env:"PROJECT_ID"`
	CredentialsFile     string `env:"CREDENTIALS_FILE"`
	FirestoreCollection string `env:"FIRESTORE_COLLECTION" envDefault:"vacario-cache"`
	GCSBucket           string `env:"GCS_BUCKET"`
	GCSPrefix           string `env:"GCS_PREFIX" envDefault:"caches"`
}

// LoadConfig reads Config from VACARIO_* environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the selected store depends on.
func (c *Config) Validate() error {
	if c.CacheCapacity <= 0 {
		return fmt.Errorf("cache capacity must be greater than 0, got %d", c.CacheCapacity)
	}
	switch c.Store {
	case "memory", "redis":
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite store requires %sSQLITE_PATH", EnvPrefix)
		}
	case "firestore":
		if c.ProjectID == "" {
			return fmt.Errorf("firestore store requires %sPROJECT_ID", EnvPrefix)
		}
	case "gcs":
		if c.GCSBucket == "" {
			return fmt.Errorf("gcs store requires %sGCS_BUCKET", EnvPrefix)
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	return nil
}
