package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openoda/geoaddress/internal/apispec"
	"github.com/openoda/geoaddress/internal/config"
	"github.com/openoda/geoaddress/internal/server"
	"github.com/openoda/geoaddress/internal/store"
	"github.com/openoda/geoaddress/pkg/logging"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the TMF673 REST API server",
		Long: `Start the Geographic Address Management REST API server.

Features:
  - Discovery entrypoint at / listing every API operation
  - TMF resource endpoints with filtering, pagination, and field selection
  - WebSocket and Server-Sent Events notification streams
  - In-memory caching with configurable TTL
  - Rate limiting (requests per minute per IP)
  - CORS support for web applications
  - Request logging, panic recovery, and Prometheus metrics
  - Graceful shutdown with connection draining`,
		Example: `  # Start on default port 8080
  geoaddress serve

  # Start on a custom port with its own specification file
  geoaddress serve --port 3000 --spec ./api/tmf673.yaml

  # Enable CORS for specific origins
  geoaddress serve --cors --cors-origins "https://example.com"`,
		RunE: runServe,
	}

	cmd.Flags().Int("port", 8080, "Server port")
	cmd.Flags().String("host", "0.0.0.0", "Bind address")
	cmd.Flags().String("spec", "", "API specification file (YAML or JSON)")
	cmd.Flags().String("prefix", "", "API path prefix")
	cmd.Flags().Bool("cors", false, "Enable CORS")
	cmd.Flags().StringSlice("cors-origins", []string{}, "Allowed CORS origins (comma-separated)")
	cmd.Flags().Int("rate-limit", -1, "Requests per minute per IP (0 to disable)")
	cmd.Flags().Duration("cache-ttl", 0, "List response cache TTL")
	cmd.Flags().Bool("metrics", true, "Enable the Prometheus metrics endpoint")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	applyServeFlags(cmd, cfg)
	logger := logging.Default()

	loader := apispec.NewLoader(cfg.SpecPath, logger)
	if err := loader.Load(); err != nil {
		// The service still starts; the entrypoint degrades to its
		// self link and readiness reports the missing specification.
		logger.Warn().Err(err).Str("path", cfg.SpecPath).Msg("API specification not loaded")
	}

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("prefix", cfg.PathPrefix).
		Str("component", cfg.ComponentName).
		Str("release", cfg.ReleaseName).
		Msg("Starting API server")

	srv := server.New(store.New(), loader, server.FromAppConfig(cfg), logger)
	srv.Start()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-cmd.Context().Done():
		logger.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info().Msg("Server stopped")
	return nil
}

// applyServeFlags overlays explicitly-set command flags on the resolved
// configuration.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("host") {
		cfg.Host, _ = flags.GetString("host")
	}
	if flags.Changed("spec") {
		cfg.SpecPath, _ = flags.GetString("spec")
	}
	if flags.Changed("prefix") {
		cfg.PathPrefix, _ = flags.GetString("prefix")
	}
	if flags.Changed("cors") {
		cfg.CORSEnabled, _ = flags.GetBool("cors")
	}
	if flags.Changed("cors-origins") {
		cfg.CORSOrigins, _ = flags.GetStringSlice("cors-origins")
		if len(cfg.CORSOrigins) > 0 {
			cfg.CORSEnabled = true
		}
	}
	if flags.Changed("rate-limit") {
		cfg.RateLimit, _ = flags.GetInt("rate-limit")
	}
	if flags.Changed("cache-ttl") {
		cfg.CacheTTL, _ = flags.GetDuration("cache-ttl")
	}
	if flags.Changed("metrics") {
		cfg.MetricsEnabled, _ = flags.GetBool("metrics")
	}

	// Keep Viper in sync for anything else reading these keys.
	viper.Set("http_port", cfg.Port)
	viper.Set("http_host", cfg.Host)
}
