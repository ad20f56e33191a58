package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/placedesk/placedesk/internal/cli/pagination"
	"github.com/placedesk/placedesk/internal/config"
	"github.com/placedesk/placedesk/internal/grid"
	"github.com/placedesk/placedesk/internal/logging"
	"github.com/placedesk/placedesk/internal/placement"
	"github.com/placedesk/placedesk/internal/strapi"
)

// Output formats for list commands.
const (
	OutputTable  = "table"
	OutputJSON   = "json"
	OutputNDJSON = "ndjson"
	OutputCSV    = "csv"
)

const tabPadding = 2

// ExitCodeBatchFailures is returned when --fail-on-error is set and a row failed.
const ExitCodeBatchFailures = 2

// BatchExitError carries the process exit code for a batch with failed rows.
type BatchExitError struct {
	ExitCode int
	Reason   string
}

func (e *BatchExitError) Error() string {
	return e.Reason
}

// viewFlags shape which rows are visible: --filter, --search and --sort.
type viewFlags struct {
	filters []string
	search  string
	sort    string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.filters, "filter", nil,
		"column filter 'column=value', case-insensitive substring (repeatable)")
	cmd.Flags().StringVar(&f.search, "search", "", "substring matched against every column")
	cmd.Flags().StringVar(&f.sort, "sort", "", "sort by 'column[:asc|desc]'")
}

// applyView sets the filters and sort from f on g.
func applyView[T grid.Row](ctx context.Context, g *grid.Grid[T], f *viewFlags) error {
	for _, expr := range f.filters {
		if strings.TrimSpace(expr) == "" {
			continue
		}
		if err := g.ApplyFilterExpression(expr); err != nil {
			logging.FromContext(ctx).Warn().Ctx(ctx).
				Str("component", "cli").
				Str("operation", "apply_filters").
				Str("filter", expr).
				Err(err).
				Msg("invalid filter expression")
			return err
		}
	}
	g.SetQuickFilter(f.search)
	return g.SortBy(f.sort)
}

// selectFlags pick rows: --ids or --all-visible. The selection is always
// intersected with the visible rows.
type selectFlags struct {
	ids        []int
	allVisible bool
}

func (f *selectFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntSliceVar(&f.ids, "ids", nil, "row IDs to select, comma-separated")
	cmd.Flags().BoolVar(&f.allVisible, "all-visible", false, "select every row that passes the filters")
}

// applySelection selects the rows named by f on g.
func applySelection[T grid.Row](g *grid.Grid[T], f *selectFlags) {
	if f.allVisible {
		g.SelectAllVisible()
		return
	}
	g.Select(f.ids...)
}

// loadGrid fetches rows into a new grid and applies the view flags.
func loadGrid[T grid.Row](
	ctx context.Context,
	columns []grid.Column[T],
	fetch func(ctx context.Context) ([]T, error),
	view *viewFlags,
) (*grid.Grid[T], error) {
	rows, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	g := grid.New(columns)
	g.Replace(rows)
	if err = applyView(ctx, g, view); err != nil {
		return nil, err
	}
	return g, nil
}

// pageFlags window list output: --limit/--offset or --page/--page-size.
type pageFlags struct {
	params pagination.Params
}

func (f *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.params.Limit, "limit", 0, "print at most this many rows (0 prints all)")
	cmd.Flags().IntVar(&f.params.Offset, "offset", 0, "skip this many visible rows")
	cmd.Flags().IntVar(&f.params.Page, "page", 0, "1-based page number (requires --page-size)")
	cmd.Flags().IntVar(&f.params.PageSize, "page-size", 0, "rows per page")
}

// printList writes the visible rows of g, windowed by page, in the requested format.
// Table output gets a footer when pagination is in use.
func printList[T grid.Row](cmd *cobra.Command, g *grid.Grid[T], output string, page *pageFlags) error {
	if err := page.params.Validate(); err != nil {
		return err
	}
	visible := g.Visible()
	rows, first := pagination.Slice(visible, page.params)

	format := outputFormat(output)
	if err := renderRows(cmd.OutOrStdout(), format, g.Columns(), rows, first); err != nil {
		return err
	}
	if format == OutputTable && page.params.IsEnabled() {
		cmd.Println(pagination.NewMeta(page.params, len(visible)))
	}
	return nil
}

// renderRows writes rows in the requested output format. first is the index of
// rows[0] among the visible rows, used for the S.No. column.
func renderRows[T grid.Row](w io.Writer, format string, columns []grid.Column[T], rows []T, first int) error {
	switch format {
	case OutputTable:
		return renderTable(w, columns, rows, first)
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rowObjects(columns, rows))
	case OutputNDJSON:
		enc := json.NewEncoder(w)
		for _, obj := range rowObjects(columns, rows) {
			if err := enc.Encode(obj); err != nil {
				return err
			}
		}
		return nil
	case OutputCSV:
		return grid.WriteCSV(w, columns, rows)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func renderTable[T grid.Row](w io.Writer, columns []grid.Column[T], rows []T, first int) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)

	header := []string{"S.No.", "ID"}
	rule := []string{"-----", "--"}
	for _, c := range columns {
		header = append(header, c.Title)
		rule = append(rule, strings.Repeat("-", len(c.Title)))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, strings.Join(rule, "\t"))

	for i, r := range rows {
		cells := []string{strconv.Itoa(first + i + 1), strconv.Itoa(r.RowID())}
		for _, c := range columns {
			cells = append(cells, c.Value(r))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func rowObjects[T grid.Row](columns []grid.Column[T], rows []T) []map[string]any {
	out := make([]map[string]any, len(rows))
	for i, r := range rows {
		obj := make(map[string]any, len(columns)+1)
		obj["id"] = r.RowID()
		for _, c := range columns {
			obj[c.Key] = c.Value(r)
		}
		out[i] = obj
	}
	return out
}

// outputFormat resolves --output against the configured default.
func outputFormat(flag string) string {
	if flag != "" {
		return strings.ToLower(flag)
	}
	return config.GetDefaultOutputFormat()
}

// batchFlags are shared by every batch action command.
type batchFlags struct {
	yes         bool
	failOnError bool
}

func (f *batchFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&f.failOnError, "fail-on-error", false,
		"exit with code 2 when any row fails")
}

// runBatch applies action to the visible selected rows of g, then refetches.
func runBatch[T placement.Subjecter](
	cmd *cobra.Command,
	a *app,
	client placement.Mutator,
	action placement.Action,
	g *grid.Grid[T],
	fetch func(ctx context.Context) ([]T, error),
	flags *batchFlags,
) error {
	ctx := cmd.Context()

	dispatcher, err := placement.NewDispatcher(placement.DispatcherConfig{
		Client:      client,
		Confirmer:   newConfirmer(flags.yes, cmd.OutOrStdout(), cmd.InOrStdin()),
		Notifier:    newWriterNotifier(cmd.ErrOrStderr()),
		Concurrency: a.cfg.API.MaxConcurrency,
		Metrics:     a.metrics,
		Refetch: func(ctx context.Context) error {
			rows, fetchErr := fetch(ctx)
			if fetchErr != nil {
				return fetchErr
			}
			g.Replace(rows)
			return nil
		},
	})
	if err != nil {
		return err
	}

	report, err := dispatcher.Dispatch(ctx, action, placement.Targets(g.SelectionSet()))
	switch {
	case errors.Is(err, placement.ErrNoSelection):
		return fmt.Errorf("%s: %w", action.Name, err)
	case errors.Is(err, placement.ErrDeclined):
		cmd.Println("Cancelled.")
		return nil
	case err != nil && len(report.Outcomes) == 0:
		return err
	}

	cmd.Printf("%d succeeded, %d failed\n", report.Succeeded, report.Failed)
	if err != nil {
		// The batch itself settled; only the refetch failed.
		cmd.PrintErrf("Warning: %v\n", err)
	}
	if flags.failOnError && report.HasFailures() {
		return &BatchExitError{
			ExitCode: ExitCodeBatchFailures,
			Reason:   fmt.Sprintf("%s: %d of %d rows failed", action.Name, report.Failed, len(report.Outcomes)),
		}
	}
	return nil
}

// exportFlags are shared by the export commands.
type exportFlags struct {
	format string
	out    string
}

func (f *exportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", grid.FormatCSV, "export format: csv or xlsx")
	cmd.Flags().StringVar(&f.out, "out", "", "output file (default <export_dir>/export.<format>)")
}

// runExport writes the export rows of g (visible selected rows, or every
// visible row when none is selected).
func runExport[T grid.Row](cmd *cobra.Command, a *app, g *grid.Grid[T], flags *exportFlags) error {
	format := strings.ToLower(flags.format)
	path := flags.out
	if path == "" {
		path = filepath.Join(a.cfg.Output.ExportDir, placement.DefaultExportName(format))
	}

	n, err := placement.Export(cmd.Context(), g, format, path, a.metrics)
	if err != nil {
		return err
	}
	cmd.Printf("Exported %d rows to %s\n", n, path)
	return nil
}

// describeAPIError prefers the server's message for API failures.
func describeAPIError(err error) error {
	if errors.Is(err, strapi.ErrUnauthorized) {
		return fmt.Errorf("%w (check api.token or PLACEDESK_API_TOKEN)", err)
	}
	return err
}
