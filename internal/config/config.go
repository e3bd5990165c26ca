// Package config assembles process configuration from environment
// variables and Viper-managed config files. The service identity used by
// the discovery responder is resolved here once and injected, so the
// responder itself never reads the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/openoda/geoaddress/internal/entrypoint"
)

// Config is the resolved service configuration.
type Config struct {
	// Identity surfaced in the discovery document's self link.
	ComponentName string
	ReleaseName   string

	// SpecPath is the API specification file served and introspected.
	SpecPath string

	// HTTP server settings.
	Host         string
	Port         int
	PathPrefix   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// CORS settings.
	CORSEnabled bool
	CORSOrigins []string

	// RateLimit is requests per minute per IP (0 disables limiting).
	RateLimit int

	// CacheTTL controls how long list responses stay cached.
	CacheTTL time.Duration

	// MetricsEnabled exposes the Prometheus endpoint.
	MetricsEnabled bool

	// Database connection settings (see Database.ConnectionString).
	Database Database

	// Logging settings.
	LogLevel  string
	LogFormat string
}

// Database holds the document database connection settings. The service
// runs against its in-memory store when nothing is configured; the
// connection string is surfaced on the readiness endpoint either way.
type Database struct {
	URL  string
	Host string
	Port int
	Name string
}

// ConnectionString resolves the database connection string: an explicit
// URL wins, otherwise one is composed from host/port/name, otherwise ""
// (in-memory store).
func (d Database) ConnectionString() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Host != "" {
		port := d.Port
		if port == 0 {
			port = 27017
		}
		name := d.Name
		if name == "" {
			name = "tmf"
		}
		return fmt.Sprintf("mongodb://%s:%d/%s", d.Host, port, name)
	}
	return ""
}

// InMemory reports whether no external database is configured.
func (d Database) InMemory() bool {
	return d.ConnectionString() == ""
}

// Defaults registers default values on the global Viper instance.
func Defaults() {
	viper.SetDefault("component_name", entrypoint.DefaultComponentName)
	viper.SetDefault("release_name", entrypoint.DefaultReleaseName)
	viper.SetDefault("api_spec_path", "api/tmf673.yaml")
	viper.SetDefault("http_host", "0.0.0.0")
	viper.SetDefault("http_port", 8080)
	viper.SetDefault("api_prefix", entrypoint.DefaultBasePath)
	viper.SetDefault("read_timeout", 10*time.Second)
	viper.SetDefault("write_timeout", 10*time.Second)
	viper.SetDefault("idle_timeout", 120*time.Second)
	viper.SetDefault("cors_enabled", false)
	viper.SetDefault("rate_limit", 100)
	viper.SetDefault("cache_ttl", 5*time.Minute)
	viper.SetDefault("metrics_enabled", true)
	viper.SetDefault("db_port", 27017)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "auto")
}

// Load resolves the configuration from Viper and the environment.
func Load() *Config {
	Defaults()

	return &Config{
		ComponentName:  GetString("component_name"),
		ReleaseName:    GetString("release_name"),
		SpecPath:       GetString("api_spec_path"),
		Host:           GetString("http_host"),
		Port:           viper.GetInt("http_port"),
		PathPrefix:     GetString("api_prefix"),
		ReadTimeout:    viper.GetDuration("read_timeout"),
		WriteTimeout:   viper.GetDuration("write_timeout"),
		IdleTimeout:    viper.GetDuration("idle_timeout"),
		CORSEnabled:    viper.GetBool("cors_enabled"),
		CORSOrigins:    viper.GetStringSlice("cors_origins"),
		RateLimit:      viper.GetInt("rate_limit"),
		CacheTTL:       viper.GetDuration("cache_ttl"),
		MetricsEnabled: viper.GetBool("metrics_enabled"),
		Database: Database{
			URL:  GetString("db_url"),
			Host: GetString("db_host"),
			Port: viper.GetInt("db_port"),
			Name: GetString("db_name"),
		},
		LogLevel:  GetString("log_level"),
		LogFormat: GetString("log_format"),
	}
}

// Identity returns the configured discovery identity.
func (c *Config) Identity() entrypoint.Identity {
	return entrypoint.Identity{
		ComponentName: c.ComponentName,
		ReleaseName:   c.ReleaseName,
	}
}

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(key string) string {
	osValue := os.Getenv(key)
	viperValue := viper.GetString(key)

	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}
