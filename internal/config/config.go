// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full server configuration.
type Config struct {
	HTTPAddr    string `env:"SHADOWQUEST_HTTP_ADDR" envDefault:":8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	// RunMigrations applies the embedded migrations at startup.
	RunMigrations bool `env:"RUN_MIGRATIONS" envDefault:"true"`

	TokenSecret string        `env:"WEBSOCKET_TOKEN_SECRET" envDefault:"dev-secret-change-in-production"`
	TokenExpiry time.Duration `env:"TOKEN_EXPIRY" envDefault:"24h"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	QuizTimeout   time.Duration `env:"QUIZ_TIMEOUT" envDefault:"60s"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"5s"`

	// RateLimit is requests per RateLimitWindow per client IP; 0 disables limiting.
	RateLimit       int           `env:"RATE_LIMIT" envDefault:"20"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	// RedisURL switches rate limiting to a shared Redis counter when set.
	RedisURL string `env:"REDIS_URL"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse parses the current environment without touching .env files.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TokenSecret == "" {
		return Config{}, fmt.Errorf("WEBSOCKET_TOKEN_SECRET must not be empty")
	}
	if cfg.QuizTimeout <= 0 {
		return Config{}, fmt.Errorf("QUIZ_TIMEOUT must be positive, got %s", cfg.QuizTimeout)
	}
	return cfg, nil
}
