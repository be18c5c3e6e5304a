package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Finance API
	FinanceAPI FinanceAPIConfig

	// Money and reports
	DefaultCurrency      string
	DefaultLocale        string
	ReportTimezone       *time.Location
	AllowOpenCustomRange bool

	// Snapshots
	SnapshotTTL           time.Duration
	SnapshotEvictSchedule string
}

// FinanceAPIConfig holds the remote finance API connection settings
type FinanceAPIConfig struct {
	URL       string
	Timeout   time.Duration
	RateLimit int // requests per second
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	var errs []string

	timeout, err := getDuration("FINANCE_API_TIMEOUT", 15*time.Second)
	if err != nil {
		errs = append(errs, err.Error())
	}
	rateLimit, err := getInt("FINANCE_API_RATE_LIMIT", 10)
	if err != nil {
		errs = append(errs, err.Error())
	}
	ttl, err := getDuration("SNAPSHOT_TTL", 5*time.Minute)
	if err != nil {
		errs = append(errs, err.Error())
	}
	allowOpen, err := getBool("ALLOW_OPEN_CUSTOM_RANGE", false)
	if err != nil {
		errs = append(errs, err.Error())
	}
	tzName := getEnv("REPORT_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		errs = append(errs, fmt.Sprintf("REPORT_TIMEZONE: unknown zone %q", tzName))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		Env:         getEnv("ENV", "development"),
		FinanceAPI: FinanceAPIConfig{
			URL:       getEnv("FINANCE_API_URL", ""),
			Timeout:   timeout,
			RateLimit: rateLimit,
		},
		DefaultCurrency:       strings.ToUpper(getEnv("DEFAULT_CURRENCY", "BRL")),
		DefaultLocale:         getEnv("DEFAULT_LOCALE", "pt-BR"),
		ReportTimezone:        loc,
		AllowOpenCustomRange:  allowOpen,
		SnapshotTTL:           ttl,
		SnapshotEvictSchedule: getEnv("SNAPSHOT_EVICT_SCHEDULE", "@every 5m"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	if c.FinanceAPI.URL == "" {
		return fmt.Errorf("FINANCE_API_URL is required")
	}
	if u, err := url.Parse(c.FinanceAPI.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("FINANCE_API_URL must be an absolute URL")
	}
	if c.FinanceAPI.Timeout <= 0 {
		return fmt.Errorf("FINANCE_API_TIMEOUT must be positive")
	}
	if c.FinanceAPI.RateLimit <= 0 {
		return fmt.Errorf("FINANCE_API_RATE_LIMIT must be positive")
	}
	if err := domain.ValidateCurrency(c.DefaultCurrency); err != nil {
		return fmt.Errorf("DEFAULT_CURRENCY: %w", err)
	}
	if c.SnapshotTTL <= 0 {
		return fmt.Errorf("SNAPSHOT_TTL must be positive")
	}
	if _, err := cron.ParseStandard(c.SnapshotEvictSchedule); err != nil {
		return fmt.Errorf("SNAPSHOT_EVICT_SCHEDULE: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: must be an integer", key)
	}
	return v, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: must be a boolean", key)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: must be a duration such as 30s or 5m", key)
	}
	return v, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
