package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openoda/geoaddress/internal/apispec"
	"github.com/openoda/geoaddress/internal/config"
	"github.com/openoda/geoaddress/internal/entrypoint"
	"github.com/openoda/geoaddress/pkg/logging"
)

// NewEntrypointCommand creates the entrypoint command, which prints the
// discovery document the server would serve at / without starting it.
func NewEntrypointCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entrypoint",
		Short: "Print the discovery document for an API specification",
		Example: `  # Print the discovery document for the configured specification
  geoaddress entrypoint

  # Print it for a specific file
  geoaddress entrypoint --spec ./api/tmf673.yaml`,
		RunE: runEntrypoint,
	}

	cmd.Flags().String("spec", "", "API specification file (YAML or JSON)")

	return cmd
}

func runEntrypoint(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if spec, _ := cmd.Flags().GetString("spec"); spec != "" {
		cfg.SpecPath = spec
	}

	loader := apispec.NewLoader(cfg.SpecPath, logging.Default())
	if err := loader.Load(); err != nil {
		return fmt.Errorf("loading specification: %w", err)
	}

	builder := entrypoint.NewBuilder(cfg.Identity())
	doc := builder.Build(loader.Document())

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding discovery document: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
