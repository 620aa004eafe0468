package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR"    envDefault:":8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"production"`
	LogLevel    string `env:"LOG_LEVEL"    envDefault:"info"` // debug, info, warn, error

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:4200"`

	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT"      envDefault:"10s"`
	MaxIdleConns      int           `env:"DB_MAX_IDLE_CONNS"    envDefault:"10"`
	MaxOpenConns      int           `env:"DB_MAX_OPEN_CONNS"    envDefault:"100"`
	ConnMaxLifetime   time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
	LegacyFlagColumns bool          `env:"LEGACY_FLAG_COLUMNS"  envDefault:"false"`
	ExposeErrors      bool          `env:"EXPOSE_ERRORS"        envDefault:"true"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", cfg.RequestTimeout)
	}
	if cfg.MaxOpenConns <= 0 {
		return fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	return nil
}
