package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/placedesk/placedesk/internal/config"
	"github.com/placedesk/placedesk/internal/logging"
)

// setupLogging configures logging from the config file, environment and the --debug flag,
// and stores the logger, trace ID and audit logger in the command context.
func setupLogging(cmd *cobra.Command) logging.LogPathResult {
	loggingCfg := config.GetLoggingConfig()

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}

	// Ensure log directory exists after all overrides have been applied.
	if loggingCfg.File != "" {
		if err := config.EnsureLogDir(); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
		}
	}

	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	// Packages add their own component field, so the context carries the untagged logger.
	ctx = result.Logger.WithContext(ctx)

	auditLogger := logging.NewAuditLogger(loggingCfg.ToAuditConfig())
	ctx = logging.ContextWithAuditLogger(ctx, auditLogger)
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).Str("command", cmd.CommandPath()).Msg("command started")

	return result
}

// cleanupLogging closes audit logger and log file handles.
func cleanupLogging(cmd *cobra.Command, logResult *logging.LogPathResult) error {
	ctx := cmd.Context()
	if err := logging.AuditLoggerFromContext(ctx).Close(); err != nil {
		return err
	}
	if logResult != nil {
		return logResult.Close()
	}
	return nil
}

// dashboardLogFile is where the dashboard logs when no log file is configured.
const dashboardLogFile = "placedesk.log"

// redirectDashboardLogging moves logging off the terminal the dashboard draws on.
// A configured log file is kept. Otherwise logs go to placedesk.log in the config
// directory, and are discarded when that file cannot be opened. The returned func
// closes any file opened here.
func redirectDashboardLogging(ctx context.Context, current *logging.LogPathResult) (context.Context, func() error) {
	noop := func() error { return nil }
	if current != nil && current.UsingFile {
		return ctx, noop
	}

	dir, err := config.GetConfigDir()
	if err != nil {
		return zerolog.Nop().WithContext(ctx), noop
	}
	result := logging.NewLoggerWithPath(logging.Config{
		Level:  logging.FromContext(ctx).GetLevel().String(),
		Format: logging.FormatJSON,
		Output: logging.OutputFile,
		File:   filepath.Join(dir, dashboardLogFile),
	})
	if !result.UsingFile {
		return zerolog.Nop().WithContext(ctx), noop
	}
	return result.Logger.WithContext(ctx), result.Close
}
