package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/shoplite/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:5000", cfg.Addr())
	assert.Equal(t, slog.LevelInfo, cfg.App.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.Stock.LockTimeout)
	assert.Equal(t, 3, cfg.Stock.BusyRetries)
	assert.Equal(t, "postgres://postgres:@localhost:5432/shoplite?sslmode=disable", cfg.ConnectionString())
	assert.Empty(t, cfg.Auth.Secret)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("STOCK_LOCK_TIMEOUT", "250ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "app://shell,http://localhost:3000")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, slog.LevelDebug, cfg.App.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.Stock.LockTimeout)
	assert.Equal(t, []string{"app://shell", "http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_NegativeRetries(t *testing.T) {
	t.Setenv("STOCK_BUSY_RETRIES", "-1")

	_, err := config.Load()
	assert.Error(t, err)
}
