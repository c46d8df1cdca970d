package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

func (c *Config) validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}

	if err := c.validateNetwork(); err != nil {
		return err
	}

	if err := c.validateCORS(); err != nil {
		return err
	}

	return nil
}

func (c *Config) validateStorage() error {
	switch c.StorageDriver {
	case DriverFile:
		if strings.TrimSpace(c.DataDir) == "" {
			return fmt.Errorf("DATA_DIR must not be empty when STORAGE_DRIVER is file")
		}
		return nil
	case DriverPostgres:
		return c.validateDatabase()
	default:
		return fmt.Errorf("STORAGE_DRIVER must be 'file' or 'postgres', got %q", c.StorageDriver)
	}
}

func (c *Config) validateDatabase() error {
	if c.DatabaseURL.Value() == "" {
		return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER is postgres")
	}

	dbURL, err := url.Parse(c.DatabaseURL.Value())
	if err != nil {
		return fmt.Errorf("DATABASE_URL is not a valid URL: %w", err)
	}

	if dbURL.Scheme != "postgres" && dbURL.Scheme != "postgresql" {
		return fmt.Errorf("DATABASE_URL scheme must be postgres:// or postgresql://")
	}

	if dbURL.Hostname() == "" {
		return fmt.Errorf("DATABASE_URL must include a host")
	}

	dbHost := dbURL.Hostname()
	if dbHost != "localhost" && dbHost != "127.0.0.1" && dbHost != "::1" {
		if dbURL.Query().Get("sslmode") == "disable" {
			return fmt.Errorf("DATABASE_URL sslmode=disable is not allowed for non-local host %q", dbHost)
		}
	}

	return nil
}

func (c *Config) validateNetwork() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid integer: %w", err)
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	// Loopback for local runs, wildcard for containers where the boundary is external.
	validHosts := map[string]bool{
		"127.0.0.1": true,
		"::1":       true,
		"localhost": true,
		"0.0.0.0":   true,
		"::":        true,
	}
	if !validHosts[c.ListenHost] {
		return fmt.Errorf("LISTEN_HOST must be a loopback address or 0.0.0.0/:: for containers (got %q)", c.ListenHost)
	}

	metricsPort, err := strconv.Atoi(c.MetricsPort)
	if err != nil {
		return fmt.Errorf("METRICS_PORT must be a valid integer: %w", err)
	}

	if metricsPort < 1 || metricsPort > 65535 {
		return fmt.Errorf("METRICS_PORT must be between 1 and 65535")
	}

	if metricsPort == port {
		return fmt.Errorf("METRICS_PORT must differ from PORT")
	}

	return nil
}

func (c *Config) validateCORS() error {
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return fmt.Errorf("CORS_ORIGINS must not contain wildcard '*'")
		}
		if strings.ContainsAny(origin, "*?[]") {
			return fmt.Errorf("CORS_ORIGINS must not contain glob characters (*?[]), got %q", origin)
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("CORS_ORIGINS contains invalid origin %q (must have scheme and host)", origin)
		}
	}

	return nil
}
