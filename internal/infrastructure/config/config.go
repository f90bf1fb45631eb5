package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	TokenTTL        time.Duration `env:"TOKEN_TTL,        default=24h"`
	StartingCredits int64         `env:"STARTING_CREDITS, default=1000"`
	CatalogPath     string        `env:"CATALOG_PATH"`
	SeedOnStartup   bool          `env:"SEED_ON_STARTUP,  default=true"`

	Mongo MongoConfig
	Redis RedisConfig
	Trade TradeConfig
}

type MongoConfig struct {
	URI          string `env:"MONGO_URI,          default=mongodb://localhost:27017"`
	Database     string `env:"MONGO_DB,           default=space_trading"`
	Transactions bool   `env:"MONGO_TRANSACTIONS, default=false"`
}

type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED,  default=true"`
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type TradeConfig struct {
	MaxAttempts    int           `env:"TRADE_MAX_ATTEMPTS,    default=8"`
	RetryDelay     time.Duration `env:"TRADE_RETRY_DELAY,     default=25ms"`
	Workers        int           `env:"TRADE_WORKERS,         default=8"`
	IdempotencyTTL time.Duration `env:"TRADE_IDEMPOTENCY_TTL, default=24h"`
}

// IsDevelopment reports whether pretty console logging and the insecure
// default secret are allowed.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		if !c.IsDevelopment() {
			return errors.New("JWT_SECRET is required outside development")
		}
		c.JWTSecret = "dev-secret"
	}
	if c.StartingCredits < 0 {
		return errors.New("STARTING_CREDITS must not be negative")
	}
	if c.Trade.MaxAttempts < 1 {
		return errors.New("TRADE_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}
