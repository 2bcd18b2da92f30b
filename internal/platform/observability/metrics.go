package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics of the ledger engine. Every method is
// safe to call on a nil *Metrics so tests can run without a registry.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	commands          *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	floatMutations    *prometheus.CounterVec
	postings          *prometheus.CounterVec
	pendingEffects    prometheus.Gauge
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. A private registry avoids "duplicate collector"
// panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		commands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_commands_total",
				Help: "Transaction commands dispatched, by module, action and outcome.",
			},
			[]string{"module", "action", "outcome"},
		),
		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_operation_duration_seconds",
				Help:    "Duration of engine operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		floatMutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_float_mutations_total",
				Help: "Float balance mutations applied, by entry type.",
			},
			[]string{"entry_type"},
		),
		postings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_gl_postings_total",
				Help: "GL posting attempts, by outcome.",
			},
			[]string{"outcome"},
		),
		pendingEffects: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ledger_pending_effects",
				Help: "Ledger effects waiting to be posted, as last seen by the relay.",
			},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_http_requests_total",
				Help: "HTTP requests served, by route and status.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_http_request_duration_seconds",
				Help:    "HTTP request latency by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// IncrCommand counts one dispatched command.
func (m *Metrics) IncrCommand(module, action, outcome string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(module, action, outcome).Inc()
}

// RecordDuration records how long an operation took.
func (m *Metrics) RecordDuration(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.operationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrFloatMutation counts one applied float mutation.
func (m *Metrics) IncrFloatMutation(entryType string) {
	if m == nil {
		return
	}
	m.floatMutations.WithLabelValues(entryType).Inc()
}

// IncrPosting counts one GL posting attempt.
func (m *Metrics) IncrPosting(outcome string) {
	if m == nil {
		return
	}
	m.postings.WithLabelValues(outcome).Inc()
}

// SetPendingEffects records the current outbox backlog.
func (m *Metrics) SetPendingEffects(n int) {
	if m == nil {
		return
	}
	m.pendingEffects.Set(float64(n))
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}
