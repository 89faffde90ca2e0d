package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// total requests per endpoint, method and status code
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adreport_requests_total",
			Help: "Total API requests received",
		},
		[]string{"endpoint", "method", "status"},
	)

	// request latency in seconds per endpoint/method
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adreport_request_duration_seconds",
			Help:    "Histogram of request latencies",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	// reports generated, labelled by report type and outcome
	ReportCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adreport_reports_total",
			Help: "Total reports generated",
		},
		[]string{"type", "outcome"},
	)

	// end-to-end report generation latency per report type
	ReportDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adreport_report_duration_seconds",
			Help:    "Histogram of report generation latencies",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"type"},
	)

	// rows fetched from the warehouse per report
	ReportRowCount = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "adreport_report_rows",
			Help:    "Histogram of row counts fetched per report",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		},
	)

	// warehouse query latency per query kind
	WarehouseQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adreport_warehouse_query_duration_seconds",
			Help:    "Histogram of warehouse query latencies",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	// warehouse query failures per query kind
	WarehouseQueryErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adreport_warehouse_query_errors_total",
			Help: "Total warehouse query errors",
		},
		[]string{"query"},
	)

	// dimension cache lookups labelled hit/miss
	DimensionCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adreport_dimension_cache_lookups_total",
			Help: "Total dimension cache lookups",
		},
		[]string{"dimension", "result"},
	)

	// history persistence failures
	HistoryPersistErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "adreport_history_persist_errors_total",
			Help: "Total report history persistence errors",
		},
	)
)

func init() {
	// register all metrics
	prometheus.MustRegister(
		RequestCount,
		RequestLatency,
		ReportCount,
		ReportDuration,
		ReportRowCount,
		WarehouseQueryDuration,
		WarehouseQueryErrors,
		DimensionCacheLookups,
		HistoryPersistErrors,
	)
}
