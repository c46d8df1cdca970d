// Package config provides environment-driven configuration for the tradelens document server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	StorageDriver string
	DataDir       string
	DatabaseURL   Secret
	DBMaxConns    int
	Port          string
	MetricsPort   string
	ListenHost    string
	CORSOrigins   []string
	LogLevel      string
	EnableWS      bool
	WriteTimeout  time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		StorageDriver: envOrDefault("STORAGE_DRIVER", DriverFile),
		DataDir:       envOrDefault("DATA_DIR", "./data"),
		DatabaseURL:   Secret(envOrDefault("DATABASE_URL", "")),
		Port:          envOrDefault("PORT", "3030"),
		MetricsPort:   envOrDefault("METRICS_PORT", "9091"),
		ListenHost:    envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
		EnableWS:      envOrDefault("ENABLE_WS", "true") == "true",
	}

	maxConns, err := strconv.Atoi(envOrDefault("DB_MAX_CONNS", "10"))
	if err != nil || maxConns < 2 || maxConns > 200 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be an integer between 2 and 200")
	}
	cfg.DBMaxConns = maxConns

	writeTimeout, err := time.ParseDuration(envOrDefault("WRITE_TIMEOUT", "10s"))
	if err != nil || writeTimeout <= 0 {
		return nil, fmt.Errorf("WRITE_TIMEOUT must be a positive duration")
	}
	cfg.WriteTimeout = writeTimeout

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3000")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// MetricsAddr returns the metrics listen address in host:port format.
func (c *Config) MetricsAddr() string {
	return c.ListenHost + ":" + c.MetricsPort
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
