package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const devSessionSecret = "dev-session-secret"

type Config struct {
	Port          string `env:"PORT,           default=8080"`
	Env           string `env:"ENV,            default=development"`
	LogLevel      string `env:"LOG_LEVEL,      default=info"`
	DefaultLocale string `env:"DEFAULT_LOCALE, default=es"`

	Session SessionConfig
	Backend BackendConfig
	Redis   RedisConfig
	Mongo   MongoConfig
	Storage StorageConfig
}

type SessionConfig struct {
	Secret   string        `env:"SESSION_SECRET"`
	TTL      time.Duration `env:"SESSION_TTL,       default=8h"`
	HTTPOnly bool          `env:"SESSION_HTTP_ONLY, default=false"`
	Secure   bool          `env:"SESSION_SECURE,    default=false"`
}

type BackendConfig struct {
	URL     string        `env:"BACKEND_URL,     default=http://localhost:3000"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=10s"`
	// BreakerTimeout is how long the circuit stays open before probing again.
	BreakerTimeout time.Duration `env:"BACKEND_BREAKER_TIMEOUT, default=30s"`
}

// RedisConfig enables the room and DNI lookup cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	DB       int           `env:"REDIS_DB,  default=0"`
	CacheTTL time.Duration `env:"CACHE_TTL, default=5m"`
}

// MongoConfig enables the audit trail. An empty URI disables it.
type MongoConfig struct {
	URI          string `env:"MONGO_URI"`
	Database     string `env:"MONGO_DB,      default=turnos"`
	AuditWorkers int    `env:"AUDIT_WORKERS, default=4"`
}

// StorageConfig points at the S3-compatible bucket for profile pictures.
// An empty Bucket disables uploads.
type StorageConfig struct {
	Bucket        string `env:"STORAGE_BUCKET"`
	Region        string `env:"STORAGE_REGION, default=auto"`
	Endpoint      string `env:"STORAGE_ENDPOINT"`
	AccessKey     string `env:"STORAGE_ACCESS_KEY"`
	SecretKey     string `env:"STORAGE_SECRET_KEY"`
	PublicBaseURL string `env:"STORAGE_PUBLIC_BASE_URL"`
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Session.Secret == "" {
		if c.IsProduction() {
			return errors.New("config: SESSION_SECRET is required in production")
		}
		c.Session.Secret = devSessionSecret
	}
	if c.Session.TTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	if c.Backend.URL == "" {
		return errors.New("config: BACKEND_URL is required")
	}
	if c.DefaultLocale != "es" && c.DefaultLocale != "en" {
		return fmt.Errorf("config: unsupported DEFAULT_LOCALE %q", c.DefaultLocale)
	}
	if c.Mongo.AuditWorkers < 1 {
		c.Mongo.AuditWorkers = 1
	}
	return nil
}
