package placement

import (
	"context"
	"errors"
	"fmt"

	"github.com/placedesk/placedesk/internal/engine/batch"
	"github.com/placedesk/placedesk/internal/logging"
	"github.com/placedesk/placedesk/internal/metrics"
)

// Dispatch errors.
var (
	ErrNoSelection = errors.New("no row selected")
	ErrDeclined    = errors.New("action declined")
)

// Mutator sends a `{data: ...}` PUT. *strapi.Client implements it.
type Mutator interface {
	PutData(ctx context.Context, path string, data any) error
}

// Target is one row a batch action applies to.
type Target struct {
	ID      int
	Subject string
}

// Outcome is the result of the PUT for one target. Err is nil on success.
type Outcome struct {
	Target
	Err error
}

// Report summarizes a dispatch.
type Report struct {
	Action    string
	Declined  bool
	Outcomes  []Outcome
	Succeeded int
	Failed    int
}

// HasFailures reports whether any row failed.
func (r Report) HasFailures() bool {
	return r.Failed > 0
}

// RefetchFunc reloads the rows after a batch has settled.
type RefetchFunc func(ctx context.Context) error

// DispatcherConfig configures a Dispatcher.
type DispatcherConfig struct {
	Client      Mutator
	Confirmer   Confirmer
	Notifier    Notifier
	Concurrency int
	Metrics     *metrics.Metrics
	// Refetch runs once after every PUT has settled, whatever the outcomes.
	Refetch RefetchFunc
}

// Dispatcher applies an Action to each target with one independent PUT per row.
type Dispatcher struct {
	client      Mutator
	confirmer   Confirmer
	notifier    Notifier
	concurrency int
	metrics     *metrics.Metrics
	refetch     RefetchFunc
}

// NewDispatcher validates cfg and builds a Dispatcher.
func NewDispatcher(cfg DispatcherConfig) (*Dispatcher, error) {
	if cfg.Client == nil {
		return nil, errors.New("dispatcher: client is required")
	}

	concurrency := batch.DefaultConcurrency
	if cfg.Concurrency > 0 {
		p, err := batch.NewProcessor[Target](min(cfg.Concurrency, batch.MaxConcurrency))
		if err != nil {
			return nil, fmt.Errorf("dispatcher: %w", err)
		}
		concurrency = p.Concurrency()
	}

	confirmer := cfg.Confirmer
	if confirmer == nil {
		confirmer = AutoConfirm
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = NotifierFunc(func(context.Context, Notification) {})
	}

	return &Dispatcher{
		client:      cfg.Client,
		confirmer:   confirmer,
		notifier:    notifier,
		concurrency: concurrency,
		metrics:     cfg.Metrics,
		refetch:     cfg.Refetch,
	}, nil
}

// Dispatch confirms, sends one PUT per target, waits for every PUT to settle,
// notifies per row, and then runs the refetch hook.
//
// An empty targets slice returns ErrNoSelection without asking or sending anything.
// A declined confirmation returns ErrDeclined with Report.Declined set.
// Per-row failures never become the returned error; they are in the Report.
func (d *Dispatcher) Dispatch(ctx context.Context, action Action, targets []Target) (Report, error) {
	return d.DispatchWithProgress(ctx, action, targets, nil)
}

// DispatchWithProgress is Dispatch with onProgress called after each row settles.
// onProgress may be called from several goroutines at once.
func (d *Dispatcher) DispatchWithProgress(
	ctx context.Context,
	action Action,
	targets []Target,
	onProgress func(batch.ProgressSnapshot),
) (Report, error) {
	report := Report{Action: action.Name}
	log := logging.FromContext(ctx)

	if len(targets) == 0 {
		return report, ErrNoSelection
	}

	subjects := make([]string, len(targets))
	for i, t := range targets {
		subjects[i] = t.Subject
	}
	ok, err := d.confirmer.Confirm(ctx, action.ConfirmMessage(subjects))
	if err != nil {
		return report, fmt.Errorf("confirming %s: %w", action.Name, err)
	}
	if !ok {
		report.Declined = true
		log.Info().Ctx(ctx).
			Str("component", "placement").
			Str("operation", "dispatch").
			Str("action", action.Name).
			Int("targets", len(targets)).
			Msg("batch action declined")
		return report, ErrDeclined
	}

	log.Info().Ctx(ctx).
		Str("component", "placement").
		Str("operation", "dispatch").
		Str("action", action.Name).
		Str("target_value", action.Target).
		Int("targets", len(targets)).
		Msg("dispatching batch action")

	processor, err := batch.NewProcessor[Target](d.concurrency)
	if err != nil {
		return report, fmt.Errorf("dispatching %s: %w", action.Name, err)
	}
	if onProgress != nil {
		processor.WithProgressCallback(func(p *batch.Progress) { onProgress(p.Snapshot()) })
	}

	audit := logging.AuditLoggerFromContext(ctx)
	// ran[i] is written only by the goroutine that owns target i.
	ran := make([]bool, len(targets))
	errs, err := processor.ProcessEach(ctx, targets, func(ctx context.Context, t Target, i int) error {
		ran[i] = true
		putErr := d.client.PutData(ctx, action.Path(t.ID), action.Body())
		d.record(ctx, audit, action, t, putErr)
		return putErr
	})
	if err != nil {
		return report, fmt.Errorf("dispatching %s: %w", action.Name, err)
	}
	// Rows never started because ctx was cancelled still count as failures.
	for i, t := range targets {
		if !ran[i] && errs[i] != nil {
			d.record(ctx, audit, action, t, errs[i])
		}
	}

	report.Outcomes = make([]Outcome, len(targets))
	for i, t := range targets {
		report.Outcomes[i] = Outcome{Target: t, Err: errs[i]}
		if errs[i] == nil {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}

	log.Info().Ctx(ctx).
		Str("component", "placement").
		Str("operation", "dispatch").
		Str("action", action.Name).
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Msg("batch action settled")

	if d.refetch != nil {
		if refetchErr := d.refetch(ctx); refetchErr != nil {
			return report, fmt.Errorf("refetching after %s: %w", action.Name, refetchErr)
		}
	}
	return report, nil
}

// record notifies, logs, audits and counts the outcome of one PUT.
func (d *Dispatcher) record(ctx context.Context, audit *logging.AuditLogger, action Action, t Target, err error) {
	entry := logging.AuditEntry{
		Action:  action.Name,
		Entity:  action.Entity,
		ID:      t.ID,
		Subject: t.Subject,
		Target:  action.Target,
		Outcome: metrics.OutcomeSuccess,
	}
	d.metrics.ObserveMutation(action.Name, err == nil)

	if err == nil {
		d.notifier.Notify(ctx, Notification{Level: LevelSuccess, Message: action.SuccessMessage(t.Subject)})
		audit.Log(ctx, entry)
		return
	}

	logging.FromContext(ctx).Error().Ctx(ctx).
		Str("component", "placement").
		Str("operation", "dispatch").
		Str("action", action.Name).
		Int("row_id", t.ID).
		Str("subject", t.Subject).
		Err(err).
		Msg("row mutation failed")
	d.notifier.Notify(ctx, Notification{Level: LevelError, Message: action.FailureMessage(t.Subject)})

	entry.Outcome = metrics.OutcomeFailure
	entry.Error = err.Error()
	audit.Log(ctx, entry)
}
