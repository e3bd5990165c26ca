// Package cmd implements the geoaddress CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openoda/geoaddress/internal/config"
	"github.com/openoda/geoaddress/pkg/logging"
)

// NewRootCommand creates the root command for the geoaddress CLI.
func NewRootCommand(version, commit, date string) *cobra.Command {
	root := &cobra.Command{
		Use:   "geoaddress",
		Short: "TMF673 Geographic Address Management service",
		Long: `geoaddress serves the TMF673 Geographic Address Management API.

The service exposes a discovery entrypoint at / describing every API
operation, TMF resource endpoints under the API path prefix, and
real-time resource change notifications over WebSocket and SSE.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return bootstrap(cmd)
		},
	}

	root.PersistentFlags().String("config", "", "Config file (default searches ./geoaddress.yaml)")
	root.PersistentFlags().String("log-level", "", "Log level (trace, debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "", "Log format (json, console, auto)")

	root.AddCommand(NewServeCommand())
	root.AddCommand(NewEntrypointCommand())

	return root
}

// bootstrap loads .env, the optional config file, and configures logging
// before any command runs.
func bootstrap(cmd *cobra.Command) error {
	// .env is optional; missing files are not an error.
	_ = godotenv.Load()

	viper.SetEnvPrefix("")
	viper.AutomaticEnv()
	config.Defaults()

	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	} else {
		viper.SetConfigName("geoaddress")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		// A missing default config file is fine.
		_ = viper.ReadInConfig()
	}

	logCfg := logging.DefaultConfig()
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		logCfg.Level = level
	} else if level := config.GetString("log_level"); level != "" {
		logCfg.Level = level
	}
	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		logCfg.Format = format
	} else if format := config.GetString("log_format"); format != "" {
		logCfg.Format = format
	}
	logging.Configure(logCfg)

	return nil
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context, version, commit, date string) error {
	root := NewRootCommand(version, commit, date)
	if err := root.ExecuteContext(ctx); err != nil {
		logging.Default().Error().Err(err).Msg("Command failed")
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
