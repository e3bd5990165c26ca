package server

import (
	"time"

	appconfig "github.com/openoda/geoaddress/internal/config"
	"github.com/openoda/geoaddress/internal/entrypoint"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// API settings
	PathPrefix string

	// Identity surfaced in the discovery document
	Identity entrypoint.Identity

	// Database settings reported on the readiness endpoint
	Database appconfig.Database

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// Performance settings
	RateLimit int // Requests per minute per IP (0 to disable)
	CacheTTL  time.Duration

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Features
	MetricsEnabled bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:           "localhost",
		Port:           8080,
		PathPrefix:     entrypoint.DefaultBasePath,
		Identity:       entrypoint.DefaultIdentity(),
		CORSEnabled:    false,
		CORSOrigins:    []string{},
		RateLimit:      100,
		CacheTTL:       5 * time.Minute,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    120 * time.Second,
		MetricsEnabled: true,
	}
}

// FromAppConfig maps the resolved application configuration onto a server
// Config.
func FromAppConfig(cfg *appconfig.Config) Config {
	return Config{
		Host:           cfg.Host,
		Port:           cfg.Port,
		PathPrefix:     cfg.PathPrefix,
		Identity:       cfg.Identity(),
		Database:       cfg.Database,
		CORSEnabled:    cfg.CORSEnabled,
		CORSOrigins:    cfg.CORSOrigins,
		RateLimit:      cfg.RateLimit,
		CacheTTL:       cfg.CacheTTL,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MetricsEnabled: cfg.MetricsEnabled,
	}
}
