// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults applied when the environment leaves a value unset.
const (
	DefaultAddr       = ":8080"
	DefaultDBPath     = "teamchat.db"
	DefaultSessionTTL = 604800 * time.Second
	DefaultResetTTL   = 3600 * time.Second
	DefaultResetURL   = "http://localhost:8080/reset"
)

// Config holds the full server configuration.
type Config struct {
	Addr   string
	DBPath string

	SessionTTL time.Duration
	ResetTTL   time.Duration
	ResetURL   string

	SMTPAddr     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	LogLevel string
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present; real environment variables win.
func Load() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:           getEnv("TEAMCHAT_ADDR", DefaultAddr),
		DBPath:         getEnv("TEAMCHAT_DB_PATH", DefaultDBPath),
		ResetURL:       getEnv("TEAMCHAT_RESET_URL", DefaultResetURL),
		SMTPAddr:       getEnv("TEAMCHAT_SMTP_ADDR", ""),
		SMTPFrom:       getEnv("TEAMCHAT_SMTP_FROM", "no-reply@localhost"),
		SMTPUsername:   getEnv("TEAMCHAT_SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("TEAMCHAT_SMTP_PASSWORD", ""),
		MinioEndpoint:  getEnv("TEAMCHAT_MINIO_ENDPOINT", ""),
		MinioAccessKey: getEnv("TEAMCHAT_MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("TEAMCHAT_MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("TEAMCHAT_MINIO_BUCKET", "teamchat-attachments"),
		LogLevel:       getEnv("TEAMCHAT_LOG_LEVEL", "info"),
	}

	var err error
	if cfg.SessionTTL, err = getDurationSeconds("TEAMCHAT_SESSION_TTL", DefaultSessionTTL); err != nil {
		return nil, err
	}
	if cfg.ResetTTL, err = getDurationSeconds("TEAMCHAT_RESET_TTL", DefaultResetTTL); err != nil {
		return nil, err
	}
	if cfg.MinioUseSSL, err = getBool("TEAMCHAT_MINIO_USE_SSL", false); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getDurationSeconds reads a TTL expressed as a number of seconds.
func getDurationSeconds(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return time.Duration(seconds) * time.Second, nil
}

func getBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
