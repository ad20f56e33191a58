package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/placedesk/placedesk/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration: the config file, any project overlay,
PLACEDESK_* environment variables and the --api-url and --token flags.

This includes:
- Schema version compatibility
- API URL, timeout and concurrency ranges
- Default output format

A missing API token is reported as a warning, since config commands do not need one.`,
		Example: `  # Validate current configuration
  placedesk config validate

  # Validate and show detailed information
  placedesk config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, config.GetGlobalConfig(), verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, cfg *config.Config, verbose bool) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := cfg.RequireToken(); err != nil {
		cmd.PrintErrln("Warning:", err)
	}
	cmd.Println("Configuration is valid")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	source := cfg.Path()
	if source == "" {
		source = "(defaults only)"
	}

	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", source)
	cmd.Printf("  API URL: %s\n", cfg.API.URL)
	cmd.Printf("  API timeout: %s\n", cfg.API.Timeout)
	cmd.Printf("  Max concurrency: %d\n", cfg.API.MaxConcurrency)
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Export directory: %s\n", cfg.Output.ExportDir)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)
}
