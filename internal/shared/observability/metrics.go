package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "apidocgen_parsing_seconds",
		Help:    "Time spent parsing one API document.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})

	DocumentsParsedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "apidocgen_documents_parsed_total",
		Help: "Total number of documents parsed, by outcome.",
	}, []string{"outcome"})

	DiagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "apidocgen_diagnostics_total",
		Help: "Total number of diagnostics reported while parsing, by severity.",
	}, []string{"severity"})

	PatchesAppliedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "apidocgen_patches_applied_total",
		Help: "Total number of configured patches that found their target.",
	})

	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "apidocgen_fetch_seconds",
		Help:    "Time spent fetching a document from its source.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	FetchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "apidocgen_fetch_errors_total",
		Help: "Total number of failed document fetches.",
	}, []string{"source"})

	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "apidocgen_cache_hits_total",
		Help: "Total number of documents served from the local cache.",
	})

	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "apidocgen_cache_misses_total",
		Help: "Total number of documents not found (or stale) in the local cache.",
	})

	EmitDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "apidocgen_emit_seconds",
		Help:    "Time spent on output tasks.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	VerifyIssuesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "apidocgen_verify_issues_total",
		Help: "Total number of syntax issues found in emitted declarations.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "apidocgen_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	LastRunTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "apidocgen_last_run_timestamp_seconds",
		Help: "Unix time of the last completed generator run.",
	})

	RunHeapBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "apidocgen_run_heap_bytes",
		Help: "Heap in use when the last generator run finished.",
	})
)
