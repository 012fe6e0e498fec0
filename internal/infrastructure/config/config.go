package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"        validate:"required"`
	Env      string `env:"ENV,       default=development" validate:"oneof=development production test"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	// Debug exposes diagnostic error text in API responses.
	Debug    bool   `env:"APP_DEBUG, default=false"`

	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Seed     SeedConfig
}

type DatabaseConfig struct {
	Driver string `env:"DB_DRIVER, default=sqlite" validate:"oneof=sqlite postgres mysql mongo"`
	DSN    string `env:"DB_DSN"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=students_api"`
}

// RedisConfig is used when TOKEN_STORE=redis. REDIS_URL overrides the other fields.
type RedisConfig struct {
	URL      string `env:"REDIS_URL"`
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0" validate:"gte=0"`
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET,  required"         validate:"min=16"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=24h"      validate:"gt=0"`
	TokenStore string        `env:"TOKEN_STORE, default=database" validate:"oneof=database redis"`
	// PruneInterval is how often expired tokens are deleted from a SQL store.
	PruneInterval time.Duration `env:"TOKEN_PRUNE_INTERVAL, default=1h" validate:"gt=0"`
}

// SeedConfig describes the account created at startup when Enabled is set.
type SeedConfig struct {
	Enabled  bool   `env:"SEED_ADMIN,     default=false"`
	Name     string `env:"ADMIN_NAME,     default=admin"           validate:"required"`
	Email    string `env:"ADMIN_EMAIL,    default=admin@gmail.com" validate:"email"`
	Password string `env:"ADMIN_PASSWORD, default=11111111"        validate:"min=8"`
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads a .env file from the working directory when present, then
// processes environment variables using go-envconfig and validates the result.
// Variables already set in the environment win over the .env file.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	if err := cfg.validateDatabase(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "postgres", "mysql":
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("config: DB_DSN is required for DB_DRIVER=%s", c.Database.Driver)
		}
	case "mongo":
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return errors.New("config: MONGO_URI and MONGO_DB are required for DB_DRIVER=mongo")
		}
	}
	return nil
}
