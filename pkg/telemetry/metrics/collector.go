package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"microqc-hq/verdict/pkg/config"
	"microqc-hq/verdict/pkg/qc/engine"
)

// Collector registers and records all verdict metrics.
//
// Metrics:
//   - verdict_qc_runs_total: completed processing runs
//   - verdict_qc_samples_processed_total: samples processed across runs
//   - verdict_qc_rule_evaluations_total: rule evaluations by status
//   - verdict_qc_outcomes_total: fired outcomes by outcome ID
//   - verdict_qc_actions_total: resolved actions by action label
//   - verdict_qc_run_duration_seconds: processing stage duration
type Collector struct {
	registry *prometheus.Registry

	runsTotal       prometheus.Counter
	samplesTotal    prometheus.Counter
	ruleEvaluations *prometheus.CounterVec
	outcomesTotal   *prometheus.CounterVec
	actionsTotal    *prometheus.CounterVec
	runDuration     prometheus.Histogram
}

// NewCollector creates and registers the QC metrics with the provided
// registry. A nil registry gets a fresh one.
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,

		runsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "runs_total",
			Help:      "Total number of completed QC processing runs",
		}),

		samplesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "samples_processed_total",
			Help:      "Total number of samples processed",
		}),

		ruleEvaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rule_evaluations_total",
				Help:      "Total number of rule evaluations by status",
			},
			[]string{"status"},
		),

		outcomesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "outcomes_total",
				Help:      "Total number of fired QC outcomes by outcome ID",
			},
			[]string{"outcome"},
		),

		actionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "actions_total",
				Help:      "Total number of resolved QC actions by action",
			},
			[]string{"action"},
		),

		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "run_duration_seconds",
			Help:      "Duration of the QC processing stage in seconds",
			// Runs are table-driven and fast; sub-second buckets dominate.
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~16s
		}),
	}

	registry.MustRegister(
		c.runsTotal,
		c.samplesTotal,
		c.ruleEvaluations,
		c.outcomesTotal,
		c.actionsTotal,
		c.runDuration,
	)

	return c
}

// Handler returns the HTTP handler serving the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordRuleEvaluation implements engine.Recorder.
func (c *Collector) RecordRuleEvaluation(status engine.RuleStatus) {
	c.ruleEvaluations.WithLabelValues(string(status)).Inc()
}

// RecordSample implements engine.Recorder. Samples with no fired outcome
// count under the PASS sentinel.
func (c *Collector) RecordSample(outcomes []string, action string) {
	c.samplesTotal.Inc()

	if len(outcomes) == 0 {
		c.outcomesTotal.WithLabelValues(engine.PassOutcome).Inc()
	}
	for _, outcome := range outcomes {
		c.outcomesTotal.WithLabelValues(outcome).Inc()
	}

	c.actionsTotal.WithLabelValues(action).Inc()
}

// RecordRun implements engine.Recorder.
func (c *Collector) RecordRun(samples int, duration time.Duration) {
	c.runsTotal.Inc()
	c.runDuration.Observe(duration.Seconds())
}

var _ engine.Recorder = (*Collector)(nil)
