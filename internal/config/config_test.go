package config_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/timepulse/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Invoice.DueDays)
	assert.Equal(t, "salt", cfg.Encryption.Salt)
	assert.Equal(t, []string{"timepulse-encryption-key"}, cfg.Encryption.LegacyKeys)
	assert.Contains(t, cfg.LegacyPassphrases(), "timepulse-encryption-key")
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "operator-secret")
	t.Setenv("ENCRYPTION_LEGACY_KEYS", "old-one,old-two")
	t.Setenv("INVOICE_DUE_DAYS", "45")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("DB_NAME", "tp")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 45, cfg.Invoice.DueDays)
	assert.Equal(t, []string{"operator-secret", "old-one", "old-two"}, cfg.LegacyPassphrases())
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Contains(t, cfg.ConnectionString(), "/tp?sslmode=disable")
}

func TestLoad_NegativeDueDays(t *testing.T) {
	t.Setenv("INVOICE_DUE_DAYS", "-1")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_ConsoleIdentity(t *testing.T) {
	t.Setenv("CONSOLE_TENANT_ID", "3f1c1f5e-8a5b-4c9e-9f57-1c2d3e4f5a6b")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "3f1c1f5e-8a5b-4c9e-9f57-1c2d3e4f5a6b", cfg.Console.TenantID.String())
	assert.Equal(t, "00000000-0000-0000-0000-000000000000", cfg.Console.UserID.String())

	t.Setenv("CONSOLE_TENANT_ID", "not-a-uuid")

	_, err = config.Load()
	assert.Error(t, err)
}
