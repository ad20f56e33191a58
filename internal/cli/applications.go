package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/placedesk/placedesk/internal/placement"
	"github.com/placedesk/placedesk/internal/strapi"
)

// newApplicationsCmd creates the applications command group for one job's applicants.
func newApplicationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "applications",
		Aliases: []string{"apps"},
		Short:   "Review and decide on a job's applicants",
	}
	cmd.AddCommand(
		newApplicationsListCmd(a),
		newApplicationsActionCmd(a, placement.Place, "Mark applicants as selected"),
		newApplicationsActionCmd(a, placement.Unplace, "Move applicants back to applied"),
		newApplicationsActionCmd(a, placement.Reject, "Mark applicants as rejected"),
		newApplicationsExportCmd(a),
		newApplicationsResumesCmd(a),
	)
	return cmd
}

// jobFlag is the required --job flag.
type jobFlag struct {
	id int
}

func (f *jobFlag) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.id, "job", 0, "job ID (required)")
	_ = cmd.MarkFlagRequired("job")
}

// applicationsSource returns the client and a fetch function for the job's applications.
func applicationsSource(a *app, job *jobFlag) (*strapi.Client, func(context.Context) ([]placement.ApplicationRecord, error), error) {
	if job.id <= 0 {
		return nil, nil, fmt.Errorf("--job must be a positive job ID, got %d", job.id)
	}
	client, err := a.client()
	if err != nil {
		return nil, nil, err
	}
	fetcher := placement.NewFetcher(client)
	fetch := func(ctx context.Context) ([]placement.ApplicationRecord, error) {
		rows, fetchErr := fetcher.Applications(ctx, job.id)
		return rows, describeAPIError(fetchErr)
	}
	return client, fetch, nil
}

func newApplicationsListCmd(a *app) *cobra.Command {
	var (
		job    jobFlag
		view   viewFlags
		page   pageFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a job's applicants",
		Example: `  placedesk applications list --job 42
  placedesk applications list --job 42 --filter status=applied --sort cpi:desc --output csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, fetch, err := applicationsSource(a, &job)
			if err != nil {
				return err
			}
			g, err := loadGrid(cmd.Context(), placement.ApplicationColumns(), fetch, &view)
			if err != nil {
				return err
			}
			return printList(cmd, g, output, &page)
		},
	}

	job.register(cmd)
	view.register(cmd)
	page.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json, ndjson or csv (default from config)")
	return cmd
}

func newApplicationsActionCmd(a *app, action placement.Action, short string) *cobra.Command {
	var (
		job   jobFlag
		view  viewFlags
		sel   selectFlags
		batch batchFlags
	)

	cmd := &cobra.Command{
		Use:   action.Name,
		Short: short,
		Long: fmt.Sprintf(`Sends one update per selected applicant setting status to %q.

The selection is --ids or --all-visible, intersected with the rows that pass
--filter and --search. Every row is attempted; failures are reported per row
and the applicant list is reloaded once all updates have finished.`, action.Target),
		Example: fmt.Sprintf(`  placedesk applications %[1]s --job 42 --ids 11,12
  placedesk applications %[1]s --job 42 --filter status=applied --all-visible --yes`, action.Name),
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, fetch, err := applicationsSource(a, &job)
			if err != nil {
				return err
			}
			g, err := loadGrid(cmd.Context(), placement.ApplicationColumns(), fetch, &view)
			if err != nil {
				return err
			}
			applySelection(g, &sel)
			return runBatch(cmd, a, client, action, g, fetch, &batch)
		},
	}

	job.register(cmd)
	view.register(cmd)
	sel.register(cmd)
	batch.register(cmd)
	return cmd
}

func newApplicationsExportCmd(a *app) *cobra.Command {
	var (
		job    jobFlag
		view   viewFlags
		sel    selectFlags
		export exportFlags
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export applicants to CSV or XLSX",
		Long: `Exports the selected visible applicants. With no selection, every visible
applicant is exported. Columns follow the grid order and use its titles.`,
		Example: `  placedesk applications export --job 42
  placedesk applications export --job 42 --ids 11,12 --format xlsx --out shortlist.xlsx`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, fetch, err := applicationsSource(a, &job)
			if err != nil {
				return err
			}
			g, err := loadGrid(cmd.Context(), placement.ApplicationColumns(), fetch, &view)
			if err != nil {
				return err
			}
			applySelection(g, &sel)
			return runExport(cmd, a, g, &export)
		},
	}

	job.register(cmd)
	view.register(cmd)
	sel.register(cmd)
	export.register(cmd)
	return cmd
}

func newApplicationsResumesCmd(a *app) *cobra.Command {
	var (
		job    jobFlag
		view   viewFlags
		sel    selectFlags
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "resumes",
		Short: "Download the selected applicants' resumes as resume.zip",
		Example: `  placedesk applications resumes --job 42 --ids 11,12
  placedesk applications resumes --job 42 --filter status=selected --all-visible --out-dir ./offers`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, fetch, err := applicationsSource(a, &job)
			if err != nil {
				return err
			}
			g, err := loadGrid(cmd.Context(), placement.ApplicationColumns(), fetch, &view)
			if err != nil {
				return err
			}
			applySelection(g, &sel)
			return runDownload(cmd, a, client, g.SelectionSet(), outDir)
		},
	}

	job.register(cmd)
	view.register(cmd)
	sel.register(cmd)
	cmd.Flags().StringVar(&outDir, "out-dir", "", "directory for resume.zip (default output.export_dir)")
	return cmd
}

// runDownload saves the resume archive for rows.
func runDownload[T interface{ Roll() string }](
	cmd *cobra.Command,
	a *app,
	client placement.Getter,
	rows []T,
	outDir string,
) error {
	if outDir == "" {
		outDir = a.cfg.Output.ExportDir
	}
	downloader := placement.NewDownloader(client, placement.DirSaver{Dir: outDir}, a.metrics)

	path, err := downloader.Download(cmd.Context(), placement.RollsOf(rows))
	if err != nil {
		if errors.Is(err, placement.ErrNoSelection) {
			return fmt.Errorf("resumes: %w", err)
		}
		var apiErr *strapi.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("resume download failed: %s", apiErr.Message)
		}
		return err
	}
	cmd.Printf("Saved %s\n", path)
	return nil
}
