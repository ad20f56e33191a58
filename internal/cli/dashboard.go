package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/placedesk/placedesk/internal/placement"
	"github.com/placedesk/placedesk/internal/tui"
)

// ErrNotInteractive is returned when the dashboard is started without a terminal.
var ErrNotInteractive = errors.New("dashboard needs an interactive terminal; use the list and action commands instead")

// newDashboardCmd creates the dashboard command group for the interactive grids.
func newDashboardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Interactive grids for applicants and registration requests",
		Long: `Opens a full-screen grid with selection, filters, sorting, batch actions,
export, resume download and a notification history.

Keys: space select, a select all, c clear, / search, f column filter,
s sort, esc clear filters, enter details, e/E export csv/xlsx, d resumes,
n notifications, r refresh, q quit.`,
	}
	cmd.AddCommand(newDashboardApplicationsCmd(a), newDashboardRequestsCmd(a))
	return cmd
}

func newDashboardApplicationsCmd(a *app) *cobra.Command {
	var job jobFlag

	cmd := &cobra.Command{
		Use:   "applications",
		Short: "Applicants of one job (p place, u unplace, x reject)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireInteractive(); err != nil {
				return err
			}
			screen, err := applicationsScreen(a, &job)
			if err != nil {
				return err
			}
			ctx, closeLogs := redirectDashboardLogging(cmd.Context(), a.logs)
			defer func() { _ = closeLogs() }()
			return runDashboard(ctx, tui.NewGridModel(ctx, screen))
		},
	}

	job.register(cmd)
	return cmd
}

func newDashboardRequestsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "requests",
		Short: "Pending registrations (o approve, x reject)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireInteractive(); err != nil {
				return err
			}
			screen, err := requestsScreen(a)
			if err != nil {
				return err
			}
			ctx, closeLogs := redirectDashboardLogging(cmd.Context(), a.logs)
			defer func() { _ = closeLogs() }()
			return runDashboard(ctx, tui.NewGridModel(ctx, screen))
		},
	}
}

func requireInteractive() error {
	if tui.DetectOutputMode(false, false, false) != tui.OutputModeInteractive {
		return ErrNotInteractive
	}
	return nil
}

// applicationsScreen wires the applicants grid to the API.
func applicationsScreen(a *app, job *jobFlag) (tui.Screen[placement.ApplicationRecord], error) {
	client, fetch, err := applicationsSource(a, job)
	if err != nil {
		return tui.Screen[placement.ApplicationRecord]{}, err
	}
	history := placement.NewHistory(nil)
	dispatcher, err := placement.NewDispatcher(placement.DispatcherConfig{
		Client:      client,
		Notifier:    history,
		Concurrency: a.cfg.API.MaxConcurrency,
		Metrics:     a.metrics,
	})
	if err != nil {
		return tui.Screen[placement.ApplicationRecord]{}, err
	}
	downloader := placement.NewDownloader(client, placement.DirSaver{Dir: a.cfg.Output.ExportDir}, a.metrics)

	return tui.Screen[placement.ApplicationRecord]{
		Title:   fmt.Sprintf("Applicants for job %d", job.id),
		Columns: placement.ApplicationColumns(),
		Details: placement.ApplicationDetails(),
		Fetch:   fetch,
		Actions: []tui.ActionKey{
			{Key: "p", Action: placement.Place},
			{Key: "u", Action: placement.Unplace},
			{Key: "x", Action: placement.Reject},
		},
		Dispatcher: dispatcher,
		History:    history,
		Download: func(ctx context.Context, rows []placement.ApplicationRecord) (string, error) {
			return downloader.Download(ctx, placement.RollsOf(rows))
		},
		ExportDir: a.cfg.Output.ExportDir,
		Metrics:   a.metrics,
	}, nil
}

// requestsScreen wires the pending registrations grid to the API.
func requestsScreen(a *app) (tui.Screen[placement.StudentRecord], error) {
	client, fetch, err := requestsSource(a)
	if err != nil {
		return tui.Screen[placement.StudentRecord]{}, err
	}
	history := placement.NewHistory(nil)
	dispatcher, err := placement.NewDispatcher(placement.DispatcherConfig{
		Client:      client,
		Notifier:    history,
		Concurrency: a.cfg.API.MaxConcurrency,
		Metrics:     a.metrics,
	})
	if err != nil {
		return tui.Screen[placement.StudentRecord]{}, err
	}
	downloader := placement.NewDownloader(client, placement.DirSaver{Dir: a.cfg.Output.ExportDir}, a.metrics)

	return tui.Screen[placement.StudentRecord]{
		Title:   "Pending registrations",
		Columns: placement.StudentColumns(),
		Details: placement.StudentDetails(),
		Fetch:   fetch,
		Actions: []tui.ActionKey{
			{Key: "o", Action: placement.Approve},
			{Key: "x", Action: placement.Decline},
		},
		Dispatcher: dispatcher,
		History:    history,
		Download: func(ctx context.Context, rows []placement.StudentRecord) (string, error) {
			return downloader.Download(ctx, placement.RollsOf(rows))
		},
		ExportDir: a.cfg.Output.ExportDir,
		Metrics:   a.metrics,
	}, nil
}

func runDashboard(ctx context.Context, model tea.Model) error {
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}
