// Package metrics holds the Prometheus collectors for a placedesk invocation.
//
// A CLI run is short-lived, so nothing is served over HTTP: when a textfile path
// is configured the registry is written once at command end for node_exporter's
// textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics owns a private registry and the collectors registered on it.
// All methods are safe on a nil receiver, which records nothing.
type Metrics struct {
	registry *prometheus.Registry

	apiRequestsTotal    *prometheus.CounterVec
	apiRequestDuration  *prometheus.HistogramVec
	batchMutationsTotal *prometheus.CounterVec
	downloadsTotal      *prometheus.CounterVec
	exportsTotal        *prometheus.CounterVec
}

// New creates the registry and registers every collector.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		apiRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "placedesk_api_requests_total",
				Help: "Total number of REST API requests, labeled by method and status code.",
			},
			[]string{"method", "code"},
		),
		apiRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "placedesk_api_request_duration_seconds",
				Help:    "Histogram of REST API request latencies, labeled by method.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method"},
		),
		batchMutationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "placedesk_batch_mutations_total",
				Help: "Total number of per-row status mutations, labeled by action and outcome.",
			},
			[]string{"action", "outcome"},
		),
		downloadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "placedesk_downloads_total",
				Help: "Total number of resume archive downloads, labeled by outcome.",
			},
			[]string{"outcome"},
		),
		exportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "placedesk_exports_total",
				Help: "Total number of grid exports, labeled by file format.",
			},
			[]string{"format"},
		),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveAPIRequest records one REST call. A code of 0 means a transport error.
func (m *Metrics) ObserveAPIRequest(method string, code int, duration time.Duration) {
	if m == nil {
		return
	}
	label := strconv.Itoa(code)
	if code == 0 {
		label = "error"
	}
	m.apiRequestsTotal.WithLabelValues(method, label).Inc()
	m.apiRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// ObserveMutation records the outcome of one row in a batch action.
func (m *Metrics) ObserveMutation(action string, ok bool) {
	if m == nil {
		return
	}
	m.batchMutationsTotal.WithLabelValues(action, outcome(ok)).Inc()
}

// ObserveDownload records one archive download attempt.
func (m *Metrics) ObserveDownload(ok bool) {
	if m == nil {
		return
	}
	m.downloadsTotal.WithLabelValues(outcome(ok)).Inc()
}

// ObserveExport records one export in the given format.
func (m *Metrics) ObserveExport(format string) {
	if m == nil {
		return
	}
	m.exportsTotal.WithLabelValues(format).Inc()
}

// WriteTextfile writes the registry in the text exposition format to path.
// An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}

func outcome(ok bool) string {
	if ok {
		return OutcomeSuccess
	}
	return OutcomeFailure
}
