package placement

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/placedesk/placedesk/internal/grid"
	"github.com/placedesk/placedesk/internal/logging"
	"github.com/placedesk/placedesk/internal/metrics"
)

// DefaultExportName returns "export.<format>".
func DefaultExportName(format string) string {
	return "export." + format
}

// Export writes the grid's export rows (the SelectionSet, or all visible rows when it
// is empty) to path in the given format and returns how many rows were written.
func Export[T grid.Row](
	ctx context.Context,
	g *grid.Grid[T],
	format, path string,
	m *metrics.Metrics,
) (int, error) {
	format = strings.ToLower(format)
	if format != grid.FormatCSV && format != grid.FormatXLSX {
		return 0, fmt.Errorf("unsupported export format %q (use csv or xlsx)", format)
	}

	rows := g.ExportRows()

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating export file: %w", err)
	}

	if format == grid.FormatXLSX {
		err = grid.WriteXLSX(f, g.Columns(), rows)
	} else {
		err = grid.WriteCSV(f, g.Columns(), rows)
	}
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("exporting %s: %w", path, err)
	}

	m.ObserveExport(format)
	logging.FromContext(ctx).Info().Ctx(ctx).
		Str("component", "placement").
		Str("operation", "export").
		Str("format", format).
		Str("path", path).
		Int("rows", len(rows)).
		Msg("grid exported")
	return len(rows), nil
}
