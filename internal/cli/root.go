package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/placedesk/placedesk/internal/config"
	"github.com/placedesk/placedesk/internal/logging"
	"github.com/placedesk/placedesk/internal/metrics"
	"github.com/placedesk/placedesk/internal/strapi"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// app carries what every subcommand needs once the root pre-run has loaded it.
type app struct {
	cfg     *config.Config
	metrics *metrics.Metrics
	logs    *logging.LogPathResult
}

// client builds an API client from the effective configuration.
func (a *app) client() (*strapi.Client, error) {
	if err := a.cfg.RequireToken(); err != nil {
		return nil, err
	}
	return strapi.NewClient(strapi.Config{
		BaseURL: a.cfg.API.URL,
		Token:   a.cfg.API.Token,
		Timeout: a.cfg.API.Timeout,
		Metrics: a.metrics,
	})
}

// flushMetrics writes the registry for node_exporter when metrics.textfile is set.
func (a *app) flushMetrics(ctx context.Context) error {
	if a.cfg == nil || a.cfg.Metrics.Textfile == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		logging.FromContext(ctx).Warn().Ctx(ctx).
			Str("component", "cli").
			Str("operation", "flush_metrics").
			Err(err).
			Msg("could not write metrics textfile")
		return err
	}
	return nil
}

// NewRootCmd creates the root Cobra command for the placedesk CLI.
// It loads configuration, wires up logging, tracing and audit logging, and
// registers the applications, requests, dashboard and config command groups.
func NewRootCmd(ver string) *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "placedesk",
		Short:         "Placement office console",
		Long:          "placedesk: review job applicants and registration requests, apply batch decisions, export and download resumes",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			config.SetGlobalConfig(cfg)
			a.cfg = cfg
			a.metrics = metrics.New()

			result := setupLogging(cmd)
			a.logs = &result
			return nil
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file (default ~/.placedesk/config.yaml)")
	cmd.PersistentFlags().String("api-url", "", "content API base URL (overrides config and PLACEDESK_API_URL)")
	cmd.PersistentFlags().String("token", "", "API token (overrides config and PLACEDESK_API_TOKEN)")

	cmd.AddCommand(
		newApplicationsCmd(a),
		newRequestsCmd(a),
		newDashboardCmd(a),
		newConfigCmd(),
	)

	// Cobra skips the post-run hooks when RunE fails, so the end-of-command work
	// is attached to every RunE instead.
	finishOnReturn(cmd, func(cmd *cobra.Command, runErr error) error {
		flushErr := a.flushMetrics(cmd.Context())
		cleanupErr := cleanupLogging(cmd, a.logs)
		if flushErr == nil && cleanupErr == nil {
			return runErr
		}
		return errors.Join(runErr, flushErr, cleanupErr)
	})
	return cmd
}

// finishOnReturn wraps the RunE of cmd and all of its descendants so finish runs
// after every invocation, whether RunE succeeded or not.
func finishOnReturn(cmd *cobra.Command, finish func(*cobra.Command, error) error) {
	for _, sub := range cmd.Commands() {
		finishOnReturn(sub, finish)
	}
	if cmd.RunE == nil {
		return
	}
	run := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return finish(cmd, run(cmd, args))
	}
}

// loadConfig builds the effective configuration: --config file or global file
// plus project overlay, then environment, then --api-url and --token.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		// config init creates the file, so only the other commands require it.
		if _, err := os.Stat(path); err != nil && !isConfigCommand(cmd) {
			return nil, fmt.Errorf("config file: %w", err)
		}
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		loaded.ApplyEnv(os.LookupEnv)
		cfg = loaded
	} else {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cwd, err := os.Getwd()
		if err != nil {
			cwd = "."
		}
		cfg = config.NewWithProjectDir(ctx, config.ResolveProjectDir(ctx, cwd))
	}

	if url, _ := cmd.Flags().GetString("api-url"); url != "" {
		cfg.API.URL = url
	}
	if token, _ := cmd.Flags().GetString("token"); token != "" {
		cfg.API.Token = token
	}
	return cfg, nil
}

func isConfigCommand(cmd *cobra.Command) bool {
	return cmd.Parent() != nil && cmd.Parent().Name() == "config"
}

const rootCmdExample = `  # List applicants for job 42, best CPI first
  placedesk applications list --job 42 --sort cpi:desc

  # Place two applicants after confirming
  placedesk applications place --job 42 --ids 11,12

  # Reject every applicant still marked applied, without prompting
  placedesk applications reject --job 42 --filter status=applied --all-visible --yes

  # Export the visible applicants to Excel
  placedesk applications export --job 42 --format xlsx

  # Download resumes of the selected applicants
  placedesk applications resumes --job 42 --ids 11,12

  # Approve pending registrations
  placedesk requests approve --ids 7,8

  # Open the interactive dashboard
  placedesk dashboard applications --job 42

  # Initialize configuration
  placedesk config init`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}
