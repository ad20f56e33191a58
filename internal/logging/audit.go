package logging

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"
)

// AuditLoggerConfig controls the mutation audit trail.
type AuditLoggerConfig struct {
	Enabled bool
	File    string
}

// AuditEntry records one state-changing request sent to the backend.
type AuditEntry struct {
	Action  string
	Entity  string
	ID      int
	Subject string
	Target  string
	Outcome string
	Error   string
}

// AuditLogger appends one JSON line per AuditEntry, stamped with the time and the
// trace ID of the context. A nil or disabled AuditLogger is a no-op.
type AuditLogger struct {
	file   *os.File
	logger zerolog.Logger
}

// NewAuditLogger opens the audit file when enabled. Failure to open the file disables auditing
// rather than failing the command.
func NewAuditLogger(cfg AuditLoggerConfig) *AuditLogger {
	if !cfg.Enabled || cfg.File == "" {
		return &AuditLogger{}
	}
	f, err := openLogFile(cfg.File)
	if err != nil {
		return &AuditLogger{}
	}
	logger := zerolog.New(zerolog.SyncWriter(f)).With().Timestamp().Logger().Hook(TraceIDHook{})
	return &AuditLogger{file: f, logger: logger}
}

// Enabled reports whether entries are being written.
func (a *AuditLogger) Enabled() bool {
	return a != nil && a.file != nil
}

// Log writes entry. Empty subject and error fields are left out.
func (a *AuditLogger) Log(ctx context.Context, entry AuditEntry) {
	if !a.Enabled() {
		return
	}
	e := a.logger.Log().Ctx(ctx).
		Str("action", entry.Action).
		Str("entity", entry.Entity).
		Int("id", entry.ID).
		Str("target", entry.Target).
		Str("outcome", entry.Outcome)
	if entry.Subject != "" {
		e = e.Str("subject", entry.Subject)
	}
	if entry.Error != "" {
		e = e.Str("error", entry.Error)
	}
	e.Send()
}

// Close closes the audit file.
func (a *AuditLogger) Close() error {
	if a == nil || a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	a.logger = zerolog.Nop()
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}

type auditLoggerKey struct{}

// ContextWithAuditLogger stores a in ctx.
func ContextWithAuditLogger(ctx context.Context, a *AuditLogger) context.Context {
	return context.WithValue(ctx, auditLoggerKey{}, a)
}

// AuditLoggerFromContext returns the audit logger in ctx, or a disabled one.
func AuditLoggerFromContext(ctx context.Context) *AuditLogger {
	if a, ok := ctx.Value(auditLoggerKey{}).(*AuditLogger); ok && a != nil {
		return a
	}
	return &AuditLogger{}
}
