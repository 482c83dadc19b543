package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV"       envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT"      envDefault:"8080"  validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"  validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`
	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	JWTSecret   string `env:"JWT_SECRET,required" validate:"required,min=32"`
	JWTTTLHours int    `env:"JWT_TTL_HOURS"       envDefault:"24" validate:"min=1,max=720"`

	EmailProvider string `env:"EMAIL_PROVIDER" envDefault:"log" validate:"oneof=log resend smtp"`
	EmailFrom     string `env:"EMAIL_FROM"     validate:"required_if=EmailProvider resend,required_if=EmailProvider smtp"`
	ResendAPIKey  string `env:"RESEND_API_KEY" validate:"required_if=EmailProvider resend"`
	SMTPHost      string `env:"SMTP_HOST"      validate:"required_if=EmailProvider smtp"`
	SMTPPort      int    `env:"SMTP_PORT"      envDefault:"587"`
	SMTPUsername  string `env:"SMTP_USERNAME"`
	SMTPPassword  string `env:"SMTP_PASSWORD"`

	ConfirmTokenTTLHours int    `env:"CONFIRM_TOKEN_TTL_HOURS" envDefault:"24" validate:"min=1,max=720"`
	TokenPurgeCron       string `env:"TOKEN_PURGE_CRON"        envDefault:"@every 1h" validate:"required"`
	PasswordMinLength    int    `env:"PASSWORD_MIN_LENGTH"     envDefault:"1" validate:"min=1,max=128"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	CatalogCacheTTLSec int      `env:"CATALOG_CACHE_TTL_SEC" envDefault:"60" validate:"min=0,max=3600"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Env != "local" && cfg.EmailProvider == "log" {
		return nil, fmt.Errorf("invalid config: EMAIL_PROVIDER=log is only allowed with ENV=local")
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLHours) * time.Hour
}

func (c *Config) ConfirmTokenTTL() time.Duration {
	return time.Duration(c.ConfirmTokenTTLHours) * time.Hour
}

func (c *Config) CatalogCacheTTL() time.Duration {
	return time.Duration(c.CatalogCacheTTLSec) * time.Second
}

// DatabaseConfig is the subset of Config needed by offline tooling that only
// talks to Postgres.
type DatabaseConfig struct {
	Env         string `env:"ENV"       envDefault:"local" validate:"required,oneof=local staging production"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"  validate:"oneof=debug info warn error"`
	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`
}

func LoadDatabase() (*DatabaseConfig, error) {
	cfg := &DatabaseConfig{}
	if err := parseAndValidate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *DatabaseConfig) SlogLevel() slog.Level {
	return (&Config{LogLevel: c.LogLevel}).SlogLevel()
}

// WorkerConfig is what the maintenance worker needs: no JWT secret and no
// email provider.
type WorkerConfig struct {
	DatabaseConfig

	MetricsPort    string `env:"METRICS_PORT"     envDefault:"9090"`
	TokenPurgeCron string `env:"TOKEN_PURGE_CRON" envDefault:"@every 1h" validate:"required"`
}

func LoadWorker() (*WorkerConfig, error) {
	cfg := &WorkerConfig{}
	if err := parseAndValidate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseAndValidate(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
