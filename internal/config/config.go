package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name      string     `envconfig:"APP_NAME" default:"ShopLite POS"`
		Host      string     `envconfig:"LISTEN_HOST" default:"127.0.0.1"`
		Port      int        `envconfig:"PORT" default:"5000"`
		LogLevel  slog.Level `envconfig:"LOG_LEVEL" default:"INFO"`
		LogFormat string     `envconfig:"LOG_FORMAT" default:"text"`
	}

	DB struct {
		Host         string `envconfig:"DB_HOST" default:"localhost"`
		Port         int    `envconfig:"DB_PORT" default:"5432"`
		User         string `envconfig:"DB_USER" default:"postgres"`
		Password     string `envconfig:"DB_PASSWORD" default:""`
		Name         string `envconfig:"DB_NAME" default:"shoplite"`
		SSLMode      string `envconfig:"DB_SSLMODE" default:"disable"`
		MaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns int    `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	// Stock governs how units of work that touch product quantities wait
	// for row locks and how often a busy unit of work is retried.
	Stock struct {
		LockTimeout time.Duration `envconfig:"STOCK_LOCK_TIMEOUT" default:"5s"`
		BusyRetries int           `envconfig:"STOCK_BUSY_RETRIES" default:"3"`
		BusyBackoff time.Duration `envconfig:"STOCK_BUSY_BACKOFF" default:"50ms"`
	}

	Auth struct {
		Secret   string        `envconfig:"AUTH_SECRET"`
		TokenTTL time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"720h"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5000,http://127.0.0.1:5000"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Stock.BusyRetries < 0 {
		return nil, fmt.Errorf("STOCK_BUSY_RETRIES must not be negative, got %d", cfg.Stock.BusyRetries)
	}

	return &cfg, nil
}
