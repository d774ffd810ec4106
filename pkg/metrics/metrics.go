// Package metrics exposes Prometheus collectors for generation runs, alias
// failures, exports and MCP tool calls.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gnana997/uitokens/pkg/generator"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Generation metrics
	RunsTotal          *prometheus.CounterVec
	RunDurationSeconds prometheus.Histogram
	TokensGenerated    *prometheus.GaugeVec
	AliasFailuresTotal *prometheus.CounterVec

	// Export metrics
	FilesWrittenTotal *prometheus.CounterVec

	// MCP metrics
	ToolCallsTotal      *prometheus.CounterVec
	ToolDurationSeconds *prometheus.HistogramVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		RunsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "uitokens_runs_total",
				Help: "Total number of generation runs by status",
			},
			[]string{"status"}, // status: success, partial
		),

		RunDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "uitokens_run_duration_seconds",
				Help:    "Generation run duration in seconds, including resolution",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		),

		TokensGenerated: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "uitokens_tokens",
				Help: "Number of tokens in each collection of the last run",
			},
			[]string{"collection"},
		),

		AliasFailuresTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "uitokens_alias_failures_total",
				Help: "Total alias resolution failures by kind",
			},
			[]string{"kind"}, // kind: missing_target, missing_collection, cycle, depth_exceeded, kind_mismatch
		),

		FilesWrittenTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "uitokens_files_written_total",
				Help: "Total exported token files by format",
			},
			[]string{"format"}, // format: dir, zip
		),

		ToolCallsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "uitokens_mcp_tool_calls_total",
				Help: "Total MCP tool calls by tool and status",
			},
			[]string{"tool", "status"}, // status: success, error
		),

		ToolDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "uitokens_mcp_tool_duration_seconds",
				Help:    "MCP tool call duration in seconds by tool",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"tool"},
		),
	}
}

var _ generator.Observer = (*Metrics)(nil)

// ObserveRun records a finished generation run.
func (m *Metrics) ObserveRun(out *generator.Output) {
	status := "success"
	if out.Err() != nil {
		status = "partial"
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDurationSeconds.Observe(out.Duration.Seconds())

	for _, c := range out.Result.Library.Collections() {
		m.TokensGenerated.WithLabelValues(c.Name).Set(float64(len(c.Tokens)))
	}
	for _, f := range out.Result.Failures {
		m.AliasFailuresTotal.WithLabelValues(string(f.Kind)).Inc()
	}
}

// RecordFilesWritten counts exported files.
func (m *Metrics) RecordFilesWritten(format string, n int) {
	m.FilesWrittenTotal.WithLabelValues(format).Add(float64(n))
}

// RecordToolCall records one MCP tool call.
func (m *Metrics) RecordToolCall(tool string, err error, duration float64) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.ToolCallsTotal.WithLabelValues(tool, status).Inc()
	m.ToolDurationSeconds.WithLabelValues(tool).Observe(duration)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

// ListenAndServe exposes /metrics on addr until the server fails. It returns
// nil after srv.Shutdown.
func ListenAndServe(srv *http.Server, registry *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(registry))
	srv.Handler = mux
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
