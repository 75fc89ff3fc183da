// Package metrics exposes Prometheus collectors for the recurring
// transaction engine.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Execution outcomes.
const (
	OutcomeExecuted = "executed"
	OutcomeSkipped  = "skipped"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeFailed   = "failed"
)

// Execution triggers.
const (
	TriggerManual    = "manual"
	TriggerScheduler = "scheduler"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds the collectors for rule executions and scheduler passes.
type Metrics struct {
	ExecutionsTotal    *prometheus.CounterVec
	ExecutionDuration  prometheus.Histogram
	RulesCompleted     prometheus.Counter
	SchedulerRunsTotal prometheus.Counter
	SchedulerDueRules  prometheus.Gauge
	SchedulerLastRun   prometheus.Gauge
	BudgetAlertsTotal  *prometheus.CounterVec
}

// NewMetrics registers the collectors once and returns the shared instance.
//
// Metrics:
//   - recurring_executions_total{trigger,outcome}
//   - recurring_execution_duration_seconds
//   - recurring_rules_completed_total
//   - recurring_scheduler_runs_total
//   - recurring_scheduler_due_rules
//   - recurring_scheduler_last_run_timestamp_seconds
//   - budget_alerts_total{type}
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			ExecutionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "recurring_executions_total",
					Help: "Total number of recurring transaction execution attempts",
				},
				[]string{"trigger", "outcome"},
			),
			ExecutionDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "recurring_execution_duration_seconds",
					Help:    "Duration of a recurring transaction execution in seconds",
					Buckets: prometheus.DefBuckets,
				},
			),
			RulesCompleted: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "recurring_rules_completed_total",
					Help: "Total number of recurring transactions deactivated by their own execution",
				},
			),
			SchedulerRunsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "recurring_scheduler_runs_total",
					Help: "Total number of passes over due recurring transactions",
				},
			),
			SchedulerDueRules: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "recurring_scheduler_due_rules",
					Help: "Number of due recurring transactions found by the last pass",
				},
			),
			SchedulerLastRun: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "recurring_scheduler_last_run_timestamp_seconds",
					Help: "Unix time of the last completed pass",
				},
			),
			BudgetAlertsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "budget_alerts_total",
					Help: "Total number of budget alerts raised",
				},
				[]string{"type"},
			),
		}
	})
	return globalMetrics
}

// RecordExecution counts one execution attempt and its duration.
func (m *Metrics) RecordExecution(trigger, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ExecutionsTotal.WithLabelValues(trigger, outcome).Inc()
	if outcome == OutcomeExecuted {
		m.ExecutionDuration.Observe(elapsed.Seconds())
	}
}

// RecordCompletion counts a rule that became inactive.
func (m *Metrics) RecordCompletion() {
	if m == nil {
		return
	}
	m.RulesCompleted.Inc()
}

// RecordRun records a finished pass over due rules.
func (m *Metrics) RecordRun(due int, finishedAt time.Time) {
	if m == nil {
		return
	}
	m.SchedulerRunsTotal.Inc()
	m.SchedulerDueRules.Set(float64(due))
	m.SchedulerLastRun.Set(float64(finishedAt.Unix()))
}

// RecordBudgetAlert counts a raised budget alert.
func (m *Metrics) RecordBudgetAlert(alertType string) {
	if m == nil {
		return
	}
	m.BudgetAlertsTotal.WithLabelValues(alertType).Inc()
}
