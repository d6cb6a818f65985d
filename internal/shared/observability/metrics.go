package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hookdeps_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hookdeps_analysis_seconds",
		Help:    "Time spent on high-level lint tasks.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	FilesLinted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hookdeps_files_linted_total",
		Help: "Files linted, by outcome (ok, cached, error).",
	}, []string{"outcome"})

	DiagnosticsReported = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hookdeps_diagnostics_total",
		Help: "Diagnostics reported, by kind.",
	}, []string{"kind"})

	FixesApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hookdeps_fixes_applied_total",
		Help: "Files rewritten with suggested fixes.",
	})

	CacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hookdeps_cache_entries",
		Help: "Current number of cached per-file results.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hookdeps_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RelintsThrottledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hookdeps_relints_throttled_total",
		Help: "Watch-mode re-lints delayed by the rate limiter.",
	})
)
