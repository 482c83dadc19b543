package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/ErlanBelekov/shop-api/config"
)

const testSecret = "config-test-secret-at-least-32-chars"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/shop")
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Env != "local" {
		t.Errorf("Env = %q, want local", cfg.Env)
	}
	if cfg.EmailProvider != "log" {
		t.Errorf("EmailProvider = %q, want log", cfg.EmailProvider)
	}
	if cfg.ConfirmTokenTTL() != 24*time.Hour {
		t.Errorf("ConfirmTokenTTL = %v, want 24h", cfg.ConfirmTokenTTL())
	}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("SlogLevel = %v, want info", cfg.SlogLevel())
	}
	if len(cfg.CORSAllowedOrigins) != 1 {
		t.Errorf("CORSAllowedOrigins = %v, want one default origin", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", testSecret)

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for empty DATABASE_URL")
	}
}

func TestLoad_ShortJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/shop")
	t.Setenv("JWT_SECRET", "short")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for short JWT_SECRET")
	}
}

func TestLoad_ResendRequiresKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/shop")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("EMAIL_PROVIDER", "resend")
	t.Setenv("EMAIL_FROM", "shop@example.com")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for missing RESEND_API_KEY")
	}
}

func TestLoad_LogProviderRejectedOutsideLocal(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/shop")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("ENV", "production")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for log email provider in production")
	}
}

func TestLoadDatabase_DoesNotNeedJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/shop")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.LoadDatabase()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel = %v, want debug", cfg.SlogLevel())
	}
}

func TestLoadWorker_NeedsNoSecretsOrEmail(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/shop")
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("EMAIL_PROVIDER", "")
	t.Setenv("TOKEN_PURGE_CRON", "*/5 * * * *")

	cfg, err := config.LoadWorker()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TokenPurgeCron != "*/5 * * * *" {
		t.Errorf("TokenPurgeCron = %q", cfg.TokenPurgeCron)
	}
	if cfg.MetricsPort != "9090" {
		t.Errorf("MetricsPort = %q, want default 9090", cfg.MetricsPort)
	}
	if cfg.DatabaseURL != "postgres://localhost/shop" || cfg.Env != "production" {
		t.Errorf("embedded database config not parsed: %+v", cfg.DatabaseConfig)
	}
}

func TestLoadWorker_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := config.LoadWorker(); err == nil {
		t.Fatal("expected error for empty DATABASE_URL")
	}
}
