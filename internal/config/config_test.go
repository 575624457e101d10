package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"FII_DATA_DIR", "GO_PORT", "DEV_MODE", "LOG_LEVEL", "SCAN_SCHEDULE", "SCAN_WORKERS",
		"SCAN_TIMEOUT", "HISTORY_RETENTION", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	dir := filepath.Join(t.TempDir(), "data")
	t.Setenv("FII_DATA_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.DirExists(t, dir)
	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, "@every 5m", cfg.ScanSchedule)
	assert.Equal(t, 10, cfg.ScanWorkers)
	assert.Equal(t, 2*time.Minute, cfg.ScanTimeout)
	assert.Zero(t, cfg.HistoryRetention)
	assert.False(t, cfg.TelegramEnabled())
	assert.Equal(t, filepath.Join(dir, "history.db"), cfg.HistoryDBPath())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FII_DATA_DIR", t.TempDir())
	t.Setenv("GO_PORT", "9100")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SCAN_SCHEDULE", "0 */10 * * * *")
	t.Setenv("SCAN_WORKERS", "4")
	t.Setenv("HISTORY_RETENTION", "8760h")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "0 */10 * * * *", cfg.ScanSchedule)
	assert.Equal(t, 4, cfg.ScanWorkers)
	assert.Equal(t, 8760*time.Hour, cfg.HistoryRetention)
	assert.True(t, cfg.TelegramEnabled())
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("FII_DATA_DIR", t.TempDir())
	t.Setenv("GO_PORT", "eighty")
	t.Setenv("SCAN_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.ScanTimeout)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{Port: 8001, ScanWorkers: 10, ScanTimeout: time.Minute, ScanSchedule: "@every 5m"}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"valid", func(c *Config) {}, ""},
		{"port zero", func(c *Config) { c.Port = 0 }, "GO_PORT"},
		{"port too high", func(c *Config) { c.Port = 70000 }, "GO_PORT"},
		{"no workers", func(c *Config) { c.ScanWorkers = 0 }, "SCAN_WORKERS"},
		{"bad timeout", func(c *Config) { c.ScanTimeout = 0 }, "SCAN_TIMEOUT"},
		{"negative retention", func(c *Config) { c.HistoryRetention = -time.Hour }, "HISTORY_RETENTION"},
		{"bad schedule", func(c *Config) { c.ScanSchedule = "whenever" }, "SCAN_SCHEDULE"},
		{"token without chat", func(c *Config) { c.TelegramBotToken = "x" }, "TELEGRAM"},
		{"chat without token", func(c *Config) { c.TelegramChatID = "1" }, "TELEGRAM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
