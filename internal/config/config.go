// Package config loads application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Logging   LoggingConfig
	OIDC      OIDCConfig
	Scheduler SchedulerConfig
	Notify    NotifyConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Addr string
}

// DatabaseConfig holds the PostgreSQL connection settings. When URL is empty
// the service runs on the in-memory store (development only).
type DatabaseConfig struct {
	URL string
}

// LoggingConfig holds logrus setup options.
type LoggingConfig struct {
	Level       string
	FilePath    string
	ToStdout    bool
	FormatJSON  bool
	Environment string
	SentryDSN   string
}

// OIDCConfig holds optional SSO settings.
type OIDCConfig struct {
	Enabled      bool
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// SchedulerConfig holds cron expressions for the background jobs.
type SchedulerConfig struct {
	SessionCleanupSpec string
	ReminderSpec       string
	OverdueDigestSpec  string
}

// NotifyConfig holds the outbound webhook settings.
type NotifyConfig struct {
	WebhookURL string
	AuthToken  string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from the
		// environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr: getenvWithDefault("ADDR", ":8080"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Logging: LoggingConfig{
			Level:       getenvWithDefault("LOG_LEVEL", "info"),
			FilePath:    os.Getenv("LOG_FILE"),
			ToStdout:    getenvWithDefault("LOG_TO_STDOUT", "true") == "true",
			FormatJSON:  os.Getenv("LOG_FORMAT_JSON") == "true",
			Environment: getenvWithDefault("ENVIRONMENT", "development"),
			SentryDSN:   os.Getenv("SENTRY_DSN"),
		},
		OIDC: OIDCConfig{
			Enabled:      os.Getenv("OIDC_ISSUER_URL") != "",
			IssuerURL:    os.Getenv("OIDC_ISSUER_URL"),
			ClientID:     os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("OIDC_REDIRECT_URL"),
		},
		Scheduler: SchedulerConfig{
			SessionCleanupSpec: getenvWithDefault("CRON_SESSION_CLEANUP", "@hourly"),
			ReminderSpec:       getenvWithDefault("CRON_APPOINTMENT_REMINDERS", "0 7 * * *"),
			OverdueDigestSpec:  getenvWithDefault("CRON_OVERDUE_DIGEST", "30 7 * * *"),
		},
		Notify: NotifyConfig{
			WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
			AuthToken:  os.Getenv("NOTIFY_AUTH_TOKEN"),
		},
	}

	return cfg, nil
}

func getenvWithDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
