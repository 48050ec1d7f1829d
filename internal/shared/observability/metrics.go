package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "refaudit_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"dialect"})

	FilesParsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "refaudit_files_parsed_total",
		Help: "Total number of source files parsed into the program model.",
	}, []string{"dialect"})

	FilesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refaudit_files_skipped_total",
		Help: "Total number of source files skipped due to parse failures.",
	})

	DeclarationsCollected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "refaudit_declarations_total",
		Help: "Total number of public-surface declarations collected.",
	}, []string{"kind"})

	ReferencesResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refaudit_references_total",
		Help: "Total number of usage sites resolved across all declarations.",
	})

	AuditDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "refaudit_audit_seconds",
		Help:    "End-to-end duration of one audit run.",
		Buckets: prometheus.DefBuckets,
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refaudit_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	ReportRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "refaudit_report_rows",
		Help: "Number of rows in the most recent report, header excluded.",
	})
)
