package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/placedesk/placedesk/internal/placement"
	"github.com/placedesk/placedesk/internal/strapi"
)

// newRequestsCmd creates the requests command group for pending registrations.
func newRequestsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "requests",
		Aliases: []string{"registrations"},
		Short:   "Review pending student registrations",
	}
	cmd.AddCommand(
		newRequestsListCmd(a),
		newRequestsActionCmd(a, placement.Approve, "Approve registrations"),
		newRequestsActionCmd(a, placement.Decline, "Reject registrations"),
		newRequestsExportCmd(a),
	)
	return cmd
}

// requestsSource returns the client and a fetch function for pending registrations.
func requestsSource(a *app) (*strapi.Client, func(context.Context) ([]placement.StudentRecord, error), error) {
	client, err := a.client()
	if err != nil {
		return nil, nil, err
	}
	fetcher := placement.NewFetcher(client)
	fetch := func(ctx context.Context) ([]placement.StudentRecord, error) {
		rows, fetchErr := fetcher.PendingStudents(ctx)
		return rows, describeAPIError(fetchErr)
	}
	return client, fetch, nil
}

func newRequestsListCmd(a *app) *cobra.Command {
	var (
		view   viewFlags
		page   pageFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registrations awaiting approval",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, fetch, err := requestsSource(a)
			if err != nil {
				return err
			}
			g, err := loadGrid(cmd.Context(), placement.StudentColumns(), fetch, &view)
			if err != nil {
				return err
			}
			return printList(cmd, g, output, &page)
		},
	}

	view.register(cmd)
	page.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json, ndjson or csv (default from config)")
	return cmd
}

// newRequestsActionCmd builds approve and reject. The reject command is the
// Decline action, which writes approved=rejected.
func newRequestsActionCmd(a *app, action placement.Action, short string) *cobra.Command {
	var (
		view  viewFlags
		sel   selectFlags
		batch batchFlags
	)

	cmd := &cobra.Command{
		Use:   action.Verb,
		Short: short,
		Long: fmt.Sprintf(`Sends one update per selected registration setting approved to %q.

The selection is --ids or --all-visible, intersected with the rows that pass
--filter and --search. The pending list is reloaded once all updates have finished.`, action.Target),
		Example: fmt.Sprintf(`  placedesk requests %[1]s --ids 7,8
  placedesk requests %[1]s --filter registered_for=intern --all-visible --yes`, action.Verb),
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, fetch, err := requestsSource(a)
			if err != nil {
				return err
			}
			g, err := loadGrid(cmd.Context(), placement.StudentColumns(), fetch, &view)
			if err != nil {
				return err
			}
			applySelection(g, &sel)
			return runBatch(cmd, a, client, action, g, fetch, &batch)
		},
	}

	view.register(cmd)
	sel.register(cmd)
	batch.register(cmd)
	return cmd
}

func newRequestsExportCmd(a *app) *cobra.Command {
	var (
		view   viewFlags
		sel    selectFlags
		export exportFlags
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export pending registrations to CSV or XLSX",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, fetch, err := requestsSource(a)
			if err != nil {
				return err
			}
			g, err := loadGrid(cmd.Context(), placement.StudentColumns(), fetch, &view)
			if err != nil {
				return err
			}
			applySelection(g, &sel)
			return runExport(cmd, a, g, &export)
		},
	}

	view.register(cmd)
	sel.register(cmd)
	export.register(cmd)
	return cmd
}
