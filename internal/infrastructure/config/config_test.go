package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123"

func loadMap(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	return load(context.Background(), envconfig.MapLookuper(env))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadMap(t, map[string]string{"JWT_SECRET": testSecret})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.Debug)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "database", cfg.Auth.TokenStore)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, time.Hour, cfg.Auth.PruneInterval)
	assert.False(t, cfg.Seed.Enabled)
	assert.Equal(t, "admin", cfg.Seed.Name)
	assert.Equal(t, "admin@gmail.com", cfg.Seed.Email)
	assert.Equal(t, "11111111", cfg.Seed.Password)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := loadMap(t, map[string]string{
		"JWT_SECRET":           testSecret,
		"PORT":                 "9000",
		"ENV":                  "production",
		"APP_DEBUG":            "true",
		"DB_DRIVER":            "postgres",
		"DB_DSN":               "postgres://u:p@localhost:5432/students",
		"TOKEN_STORE":          "redis",
		"TOKEN_TTL":            "90m",
		"TOKEN_PRUNE_INTERVAL": "15m",
		"REDIS_DB":             "2",
		"SEED_ADMIN":           "true",
	})
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.Debug)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "redis", cfg.Auth.TokenStore)
	assert.Equal(t, 90*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 15*time.Minute, cfg.Auth.PruneInterval)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.True(t, cfg.Seed.Enabled)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":       {},
		"short secret":         {"JWT_SECRET": "short"},
		"unknown driver":       {"JWT_SECRET": testSecret, "DB_DRIVER": "oracle"},
		"unknown token store":  {"JWT_SECRET": testSecret, "TOKEN_STORE": "memcached"},
		"postgres without dsn": {"JWT_SECRET": testSecret, "DB_DRIVER": "postgres"},
		"mysql without dsn":    {"JWT_SECRET": testSecret, "DB_DRIVER": "mysql"},
		"bad ttl":              {"JWT_SECRET": testSecret, "TOKEN_TTL": "soon"},
		"zero prune interval":  {"JWT_SECRET": testSecret, "TOKEN_PRUNE_INTERVAL": "0s"},
		"bad seed email":       {"JWT_SECRET": testSecret, "ADMIN_EMAIL": "not-an-email"},
		"short seed password":  {"JWT_SECRET": testSecret, "ADMIN_PASSWORD": "123"},
		"unknown environment":  {"JWT_SECRET": testSecret, "ENV": "staging"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := loadMap(t, env)
			assert.Error(t, err)
		})
	}
}
