// Package config loads process configuration from the environment, mirroring
// the teacher's cmd/api/config.go pattern of os.Getenv reads with sane
// defaults rather than a struct-tag config library (the teacher has none in
// its stack).
package config

import (
	"os"
	"strconv"
	"time"
)

// Config is every environment-derived setting cmd/cartrecovery needs.
type Config struct {
	Env   string
	Store StoreConfig
	Mail  MailConfig
	Push  PushConfig
}

// StoreConfig configures the document store gateway.
type StoreConfig struct {
	URL      string
	APIKey   string
	Username string
	Password string
	Timeout  time.Duration
}

// MailConfig configures the optional SMTP recovery-email sender.
type MailConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
}

// PushConfig configures the optional Expo push sender.
type PushConfig struct {
	Enabled bool
	Timeout time.Duration
}

// Load reads configuration from the environment, matching the teacher's
// convention of string-typed env vars with numeric/duration parsing guarded
// by fallbacks.
func Load() Config {
	return Config{
		Env: getEnv("APP_ENV", "development"),
		Store: StoreConfig{
			URL:      os.Getenv("DOCSTORE_URL"),
			APIKey:   os.Getenv("DOCSTORE_API_KEY"),
			Username: os.Getenv("DOCSTORE_USERNAME"),
			Password: os.Getenv("DOCSTORE_PASSWORD"),
			Timeout:  getDuration("DOCSTORE_TIMEOUT", 30*time.Second),
		},
		Mail: MailConfig{
			Host:      getEnv("SMTP_HOST", "live.smtp.mailtrap.io"),
			Port:      getInt("SMTP_PORT", 2525),
			Username:  os.Getenv("SMTP_USERNAME"),
			Password:  os.Getenv("SMTP_PASSWORD"),
			FromEmail: os.Getenv("RECOVERY_FROM_EMAIL"),
		},
		Push: PushConfig{
			Enabled: getBool("PUSH_ENABLED", false),
			Timeout: getDuration("PUSH_TIMEOUT", 10*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
