// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Catalog  CatalogConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 15s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// CatalogConfig holds settings for the remote product source.
type CatalogConfig struct {
	// APIURL is the product listing endpoint.
	// Supports both CATALOG_API_URL and PRODUCTS_API_URL.
	APIURL string `env:"CATALOG_API_URL" envAlt:"PRODUCTS_API_URL" default:"https://api.escuelajs.co/api/v1/products"`

	// FetchTimeout bounds a single outbound fetch; 0 disables it (default: 30s)
	FetchTimeout time.Duration `env:"CATALOG_FETCH_TIMEOUT" default:"30s"`

	// MaxBodyBytes caps the size of the upstream response body (default: 10MB)
	MaxBodyBytes int64 `env:"CATALOG_MAX_BODY_BYTES" default:"10485760"`

	// FetchOnStart loads the catalog before the server accepts requests (default: true)
	FetchOnStart bool `env:"CATALOG_FETCH_ON_START" default:"true"`

	// RefreshInterval re-fetches the catalog periodically; 0 disables it (default: 0s)
	RefreshInterval time.Duration `env:"CATALOG_REFRESH_INTERVAL" default:"0s"`

	// CollationLocale is the BCP 47 tag used when sorting by title (default: en)
	CollationLocale string `env:"CATALOG_COLLATION_LOCALE" default:"en"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the sustained rate per IP (default: 300).
	// Every keystroke in the search box is a request, so this is generous.
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`

	// Burst is the number of requests allowed above the sustained rate (default: 50)
	Burst int `env:"RATE_LIMIT_BURST" default:"50"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RefreshAPIKeys, when set, are required in X-API-Key on POST /api/catalog/refresh.
	// Comma-separated. Empty leaves the endpoint open.
	RefreshAPIKeys []string `env:"SECURITY_REFRESH_API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
