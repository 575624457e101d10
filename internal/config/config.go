// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds application configuration
type Config struct {
	DataDir          string // Base directory for the history database, always absolute
	LogLevel         string
	Port             int
	DevMode          bool
	ScanSchedule     string
	ScanWorkers      int
	ScanTimeout      time.Duration
	HistoryRetention time.Duration // zero keeps history forever
	TelegramBotToken string
	TelegramChatID   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("FII_DATA_DIR", "./data")

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:          absDataDir,
		Port:             getEnvAsInt("GO_PORT", 8001),
		DevMode:          getEnvAsBool("DEV_MODE", false),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		ScanSchedule:     getEnv("SCAN_SCHEDULE", "@every 5m"),
		ScanWorkers:      getEnvAsInt("SCAN_WORKERS", 10),
		ScanTimeout:      getEnvAsDuration("SCAN_TIMEOUT", 2*time.Minute),
		HistoryRetention: getEnvAsDuration("HISTORY_RETENTION", 0),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid GO_PORT %d: must be between 1 and 65535", c.Port)
	}
	if c.ScanWorkers < 1 {
		return fmt.Errorf("invalid SCAN_WORKERS %d: must be at least 1", c.ScanWorkers)
	}
	if c.ScanTimeout <= 0 {
		return fmt.Errorf("invalid SCAN_TIMEOUT %s: must be positive", c.ScanTimeout)
	}
	if c.HistoryRetention < 0 {
		return fmt.Errorf("invalid HISTORY_RETENTION %s: must not be negative", c.HistoryRetention)
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.ScanSchedule); err != nil {
		return fmt.Errorf("invalid SCAN_SCHEDULE %q: %w", c.ScanSchedule, err)
	}

	// Telegram needs both values or neither
	if (c.TelegramBotToken == "") != (c.TelegramChatID == "") {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}

	return nil
}

// TelegramEnabled reports whether Telegram notifications are configured
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

// HistoryDBPath returns the path of the history database
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
