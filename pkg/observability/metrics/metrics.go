package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"

	"autosecret/pkg/agents/summary"
	"autosecret/pkg/core"
)

// Recorder exposes helpers for recording Prometheus metrics about reconciliations.
type Recorder struct {
	reconciles *prometheus.CounterVec
	entries    *prometheus.CounterVec
	errors     *prometheus.CounterVec
	duration   prometheus.Histogram
	managed    prometheus.Gauge
}

var defaultRecorder = NewRecorder(ctrlmetrics.Registry)

// Default returns the shared recorder registered with controller-runtime.
func Default() *Recorder { return defaultRecorder }

// NewRecorder constructs a Recorder and registers the metrics with the provided registerer.
// A nil registerer leaves the metrics unregistered.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		reconciles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autosecret_reconciles_total",
			Help: "Total number of AutoSecret reconciliations grouped by result.",
		}, []string{"result"}),
		entries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autosecret_entries_total",
			Help: "Total number of secret entry decisions grouped by action.",
		}, []string{"action"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autosecret_errors_total",
			Help: "Total number of reconciliation errors grouped by kind and category.",
		}, []string{"kind", "category"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "autosecret_reconcile_duration_seconds",
			Help:    "Histogram of reconciliation duration in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		}),
		managed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "autosecret_last_reconcile_entries",
			Help: "Number of declared entries seen by the most recent successful reconcile.",
		}),
	}
	if reg != nil {
		reg.MustRegister(r.reconciles, r.entries, r.errors, r.duration, r.managed)
	}
	return r
}

// ObserveReconcile records metrics for a reconciliation attempt.
func (r *Recorder) ObserveReconcile(sum *summary.Summary, reconcileErr error, duration time.Duration) {
	if r == nil {
		return
	}
	r.duration.Observe(duration.Seconds())

	if reconcileErr != nil {
		r.reconciles.WithLabelValues("error").Inc()
		r.errors.WithLabelValues(core.ErrorKind(reconcileErr), string(core.ClassifyError(reconcileErr))).Inc()
		return
	}

	r.reconciles.WithLabelValues("success").Inc()
	if sum == nil {
		return
	}
	declared := 0
	for _, action := range []summary.ActionType{summary.ActionCreated, summary.ActionUpdated, summary.ActionSkipped, summary.ActionRemoved} {
		count := sum.Count(action)
		if count > 0 {
			r.entries.WithLabelValues(string(action)).Add(float64(count))
		}
		if action != summary.ActionRemoved {
			declared += count
		}
	}
	r.managed.Set(float64(declared))
}
