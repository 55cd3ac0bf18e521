package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all settings for both binaries, read from the environment
// with an optional .env file. Environment variables always win over .env.
type Config struct {
	DBPath   string
	Port     string
	APIToken string
	LogLevel string

	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubscriber string

	// CronSpec keeps the notifier resident and runs it on this schedule.
	// Empty means run once and exit.
	CronSpec string

	SendConcurrency    int
	SendTimeout        time.Duration
	DeadlineWindowDays int
	TrashRetentionDays int
	Dedupe             bool
}

// Load reads configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:          envOr("WISHNOTE_DB_PATH", "wishnote.db"),
		Port:            envOr("WISHNOTE_PORT", "8080"),
		APIToken:        os.Getenv("WISHNOTE_API_TOKEN"),
		LogLevel:        envOr("WISHNOTE_LOG_LEVEL", "info"),
		VAPIDPublicKey:  os.Getenv("WISHNOTE_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("WISHNOTE_VAPID_PRIVATE_KEY"),
		VAPIDSubscriber: envOr("WISHNOTE_VAPID_SUBSCRIBER", "mailto:notifications@example.com"),
		CronSpec:        os.Getenv("WISHNOTE_CRON_SPEC"),
	}

	var err error
	if cfg.SendConcurrency, err = envInt("WISHNOTE_SEND_CONCURRENCY", 8); err != nil {
		return nil, err
	}
	timeoutSec, err := envInt("WISHNOTE_SEND_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}
	cfg.SendTimeout = time.Duration(timeoutSec) * time.Second
	if cfg.DeadlineWindowDays, err = envInt("WISHNOTE_DEADLINE_WINDOW_DAYS", 3); err != nil {
		return nil, err
	}
	if cfg.TrashRetentionDays, err = envInt("WISHNOTE_TRASH_RETENTION_DAYS", 30); err != nil {
		return nil, err
	}
	if cfg.Dedupe, err = envBool("WISHNOTE_NOTIFY_DEDUPE", true); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ValidateNotifier checks the settings the scheduled job cannot run
// without. Called before any work so a bad deployment fails loudly.
func (c *Config) ValidateNotifier() error {
	if c.VAPIDPublicKey == "" || c.VAPIDPrivateKey == "" {
		return fmt.Errorf("WISHNOTE_VAPID_PUBLIC_KEY and WISHNOTE_VAPID_PRIVATE_KEY must be set")
	}
	return nil
}

// ValidateServer checks the settings the API server requires.
func (c *Config) ValidateServer() error {
	if err := c.ValidateNotifier(); err != nil {
		return err
	}
	if c.APIToken == "" {
		return fmt.Errorf("WISHNOTE_API_TOKEN must be set")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
