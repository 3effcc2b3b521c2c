package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"TimePulse"`
		Env      string `envconfig:"APP_ENV" default:"development"`
		Port     int    `envconfig:"PORT" default:"8080"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"timepulse"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Encryption struct {
		// Key is the operator secret the field encryption key is derived from.
		// Empty falls back to a development key.
		Key  string `envconfig:"ENCRYPTION_KEY"`
		Salt string `envconfig:"ENCRYPTION_SALT" default:"salt"`
		// LegacyKeys are passphrases older CryptoJS ciphertexts were written with. The
		// default is the passphrase the first releases shipped with.
		LegacyKeys []string `envconfig:"ENCRYPTION_LEGACY_KEYS" default:"timepulse-encryption-key"`
	}

	Invoice struct {
		DueDays int `envconfig:"INVOICE_DUE_DAYS" default:"30"`
	}

	Auth struct {
		JWTSecret string `envconfig:"JWT_SECRET"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	// Console identifies the operator of the admin TUI, which talks to the database
	// directly instead of presenting a token.
	Console struct {
		TenantID uuid.UUID `envconfig:"CONSOLE_TENANT_ID"`
		UserID   uuid.UUID `envconfig:"CONSOLE_USER_ID"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

// LegacyPassphrases returns the passphrases to try against CryptoJS ciphertexts. The
// current secret comes first since most legacy rows were written with it.
func (c *Config) LegacyPassphrases() []string {
	return append([]string{c.Encryption.Key}, c.Encryption.LegacyKeys...)
}

// SlogLevel maps App.LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Invoice.DueDays < 0 {
		return nil, fmt.Errorf("INVOICE_DUE_DAYS must not be negative, got %d", cfg.Invoice.DueDays)
	}

	return &cfg, nil
}
