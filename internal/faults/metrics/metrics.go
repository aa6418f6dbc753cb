package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SignalsCaptured tracks signals entering the pipeline per entry point
	SignalsCaptured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faultline_signals_captured_total",
			Help: "Total number of signals captured",
		},
		[]string{"origin"},
	)

	// SignalsDeduplicated tracks signals dropped by the debounce gate
	SignalsDeduplicated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "faultline_signals_deduplicated_total",
			Help: "Total number of signals dropped as duplicates",
		},
	)

	// SignalsSuppressed tracks signals dropped by suppression rules
	SignalsSuppressed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faultline_signals_suppressed_total",
			Help: "Total number of signals suppressed by rules",
		},
		[]string{"mode", "rule"},
	)

	// ReportsSent tracks delivered reports by severity
	ReportsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faultline_reports_sent_total",
			Help: "Total number of reports delivered to sinks",
		},
		[]string{"severity"},
	)

	// ReportFailures tracks reporter errors (logged and swallowed)
	ReportFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "faultline_report_failures_total",
			Help: "Total number of failed report deliveries",
		},
	)

	// RethrowsScheduled tracks deferred surface tasks scheduled
	RethrowsScheduled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "faultline_rethrows_scheduled_total",
			Help: "Total number of deferred rethrows scheduled",
		},
	)

	// RethrowsSuperseded tracks pending rethrows overwritten by newer signals
	RethrowsSuperseded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "faultline_rethrows_superseded_total",
			Help: "Total number of pending rethrows overwritten before firing",
		},
	)

	// RethrowsFired tracks rethrows actually delivered on a fresh stack
	RethrowsFired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "faultline_rethrows_fired_total",
			Help: "Total number of deferred rethrows delivered",
		},
	)

	// DedupEntries tracks the current size of the dedup key map
	DedupEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "faultline_dedup_entries",
			Help: "Current number of tracked dedup keys",
		},
	)
)
