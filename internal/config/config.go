// Package config contains everything related to configuration
package config

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment names accepted by APP_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds the application configuration.
type Config struct {
	APIBaseURL         string
	Environment        string
	RequestTimeout     time.Duration
	RateLimit          float64
	RateBurst          int
	PageSize           int
	SessionPath        string
	DatabasePath       string
	LogPath            string
	ExportDir          string
	ExportPollInterval time.Duration
	ExportClearDelay   time.Duration
}

// Default values
const (
	defaultRequestTimeout     = 30 * time.Second
	defaultRateLimit          = 10.0
	defaultRateBurst          = 20
	defaultPageSize           = 20
	defaultExportPollInterval = 2 * time.Second
	defaultExportClearDelay   = 3 * time.Second
)

// ErrMissingBaseURL is returned when no API base URL could be resolved.
var ErrMissingBaseURL = errors.New("API_BASE_URL is required (set via env, .env or the web build env file)")

// IsDevelopment reports whether verbose request logging is enabled.
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	web := LoadWebBuildEnv(os.Getenv("WEB_ENV_PATH"))
	var defaultBaseURL, defaultEnv string
	if web != nil {
		defaultBaseURL = web.APIBaseURL
		defaultEnv = web.Environment
	}
	if defaultEnv == "" {
		defaultEnv = EnvProduction
	}

	baseDir := getDefaultBaseDir()
	cfg := &Config{
		APIBaseURL:         getEnvString("API_BASE_URL", defaultBaseURL),
		Environment:        getEnvString("APP_ENV", defaultEnv),
		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", defaultRequestTimeout),
		RateLimit:          getEnvFloat("RATE_LIMIT", defaultRateLimit),
		RateBurst:          getEnvInt("RATE_BURST", defaultRateBurst),
		PageSize:           getEnvInt("PAGE_SIZE", defaultPageSize),
		SessionPath:        getEnvString("SESSION_PATH", filepath.Join(baseDir, "session.json")),
		DatabasePath:       getEnvString("DATABASE_PATH", filepath.Join(baseDir, "activity.db")),
		LogPath:            getEnvString("LOG_PATH", filepath.Join(baseDir, "radmin.log")),
		ExportDir:          getEnvString("EXPORT_DIR", filepath.Join(baseDir, "exports")),
		ExportPollInterval: getEnvDuration("EXPORT_POLL_INTERVAL", defaultExportPollInterval),
		ExportClearDelay:   getEnvDuration("EXPORT_CLEAR_DELAY", defaultExportClearDelay),
	}

	if cfg.APIBaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if u, err := url.Parse(cfg.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New("API_BASE_URL must be an absolute URL")
	}
	if cfg.Environment != EnvDevelopment {
		cfg.Environment = EnvProduction
	}

	for _, dir := range []string{
		filepath.Dir(cfg.SessionPath),
		filepath.Dir(cfg.DatabasePath),
		filepath.Dir(cfg.LogPath),
		cfg.ExportDir,
	} {
		if err := ensureDir(dir); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "referral-admin", ".env"),
			filepath.Join(home, ".referral-admin", ".env"),
		)
	}

	// Parent directory (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(cwd), ".env"))
	}

	return paths
}

// getDefaultBaseDir returns the directory holding session, database, logs and exports.
func getDefaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".referral-admin"
	}
	return filepath.Join(home, ".config", "referral-admin")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f >= 0 {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
