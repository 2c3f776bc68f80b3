package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/learningremind/internal/spaced_repetition"
	"github.com/joho/godotenv"
)

// Defaults applied when the corresponding environment variable is unset
const (
	DefaultNotificationTime = "09:00"
	DefaultTimezone         = "Australia/Sydney"
	DefaultChannel          = "email"
	DefaultDBType           = "sqlite"
	DefaultDatabasePath     = "data/learningremind.db"
)

// Config holds the static service configuration. It is read once at
// boot and never mutated afterwards.
type Config struct {
	// Database settings
	DBType       string // "sqlite" or "postgres"
	DatabasePath string // sqlite file path
	DatabaseURL  string // postgres connection string

	// Spaced-repetition interval table shared by all schedules
	Intervals spaced_repetition.Intervals

	// Daily reminder settings
	NotificationTime string         // wall-clock fire time, "HH:MM"
	Timezone         *time.Location // zone the fire time and day boundaries are computed in
	TimezoneName     string

	// Delivery channel: "email" or "telegram"
	Channel string

	// Email channel
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string

	// Telegram channel
	TelegramToken string

	// Base URL used to build review links in reminder messages
	FrontendURL string
}

// Load reads .env (if present) and the environment, applies defaults
// and validates the result.
func Load() (*Config, error) {
	// Missing .env is fine, the environment may be set directly
	_ = godotenv.Load()

	cfg := &Config{
		DBType:           getEnv("DB_TYPE", DefaultDBType),
		DatabasePath:     getEnv("DATABASE_PATH", DefaultDatabasePath),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		NotificationTime: getEnv("NOTIFICATION_TIME", DefaultNotificationTime),
		TimezoneName:     getEnv("NOTIFICATION_TIMEZONE", DefaultTimezone),
		Channel:          getEnv("NOTIFY_CHANNEL", DefaultChannel),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPUser:         os.Getenv("SMTP_USER"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		EmailFrom:        os.Getenv("EMAIL_FROM"),
		TelegramToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		FrontendURL:      getEnv("FRONTEND_URL", "http://localhost:5173"),
	}

	if cfg.DBType != "sqlite" && cfg.DBType != "postgres" {
		return nil, fmt.Errorf("unsupported DB_TYPE %q", cfg.DBType)
	}
	if cfg.DBType == "postgres" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when DB_TYPE is postgres")
	}

	intervals, err := parseIntervals(os.Getenv("REVIEW_INTERVALS"))
	if err != nil {
		return nil, err
	}
	cfg.Intervals = intervals

	if _, err := time.Parse("15:04", cfg.NotificationTime); err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_TIME %q: %v", cfg.NotificationTime, err)
	}

	loc, err := time.LoadLocation(cfg.TimezoneName)
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_TIMEZONE %q: %v", cfg.TimezoneName, err)
	}
	cfg.Timezone = loc

	port := getEnv("SMTP_PORT", "587")
	cfg.SMTPPort, err = strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT %q: %v", port, err)
	}

	switch cfg.Channel {
	case "email":
		if cfg.SMTPHost == "" || cfg.SMTPUser == "" {
			return nil, fmt.Errorf("SMTP_HOST and SMTP_USER are required when NOTIFY_CHANNEL is email")
		}
		if cfg.EmailFrom == "" {
			cfg.EmailFrom = cfg.SMTPUser
		}
	case "telegram":
		if cfg.TelegramToken == "" {
			return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required when NOTIFY_CHANNEL is telegram")
		}
	default:
		return nil, fmt.Errorf("unsupported NOTIFY_CHANNEL %q", cfg.Channel)
	}

	return cfg, nil
}

// parseIntervals parses a comma-separated list of day counts, e.g.
// "1,3,7,14,30". An empty value yields the default table.
func parseIntervals(s string) (spaced_repetition.Intervals, error) {
	if strings.TrimSpace(s) == "" {
		return spaced_repetition.DefaultIntervals, nil
	}
	parts := strings.Split(s, ",")
	intervals := make(spaced_repetition.Intervals, 0, len(parts))
	for _, p := range parts {
		days, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid REVIEW_INTERVALS entry %q: %v", p, err)
		}
		intervals = append(intervals, days)
	}
	if err := intervals.Validate(); err != nil {
		return nil, fmt.Errorf("invalid REVIEW_INTERVALS: %v", err)
	}
	return intervals, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
