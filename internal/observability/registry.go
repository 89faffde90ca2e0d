package observability

import "time"

// MetricsRegistry provides an interface for recording application metrics
// This replaces direct access to global Prometheus metrics with dependency injection
type MetricsRegistry interface {
	// HTTP Request metrics
	IncrementRequests(endpoint, method, status string)
	RecordRequestLatency(endpoint, method string, duration time.Duration)

	// Report generation metrics
	IncrementReports(reportType, outcome string)
	RecordReportDuration(reportType string, duration time.Duration)
	RecordReportRows(count int)

	// Warehouse query metrics
	RecordWarehouseQuery(query string, duration time.Duration)
	IncrementWarehouseQueryErrors(query string)

	// Dimension cache metrics
	IncrementDimensionCacheLookup(dimension, result string)

	// History persistence metrics
	IncrementHistoryPersistErrors()
}

// PrometheusRegistry implements MetricsRegistry using the global Prometheus metrics
type PrometheusRegistry struct{}

// NewPrometheusRegistry creates a new PrometheusRegistry
func NewPrometheusRegistry() *PrometheusRegistry {
	return &PrometheusRegistry{}
}

// HTTP Request metrics
func (r *PrometheusRegistry) IncrementRequests(endpoint, method, status string) {
	RequestCount.WithLabelValues(endpoint, method, status).Inc()
}

func (r *PrometheusRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {
	RequestLatency.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

// Report generation metrics
func (r *PrometheusRegistry) IncrementReports(reportType, outcome string) {
	ReportCount.WithLabelValues(reportType, outcome).Inc()
}

func (r *PrometheusRegistry) RecordReportDuration(reportType string, duration time.Duration) {
	ReportDuration.WithLabelValues(reportType).Observe(duration.Seconds())
}

func (r *PrometheusRegistry) RecordReportRows(count int) {
	ReportRowCount.Observe(float64(count))
}

// Warehouse query metrics
func (r *PrometheusRegistry) RecordWarehouseQuery(query string, duration time.Duration) {
	WarehouseQueryDuration.WithLabelValues(query).Observe(duration.Seconds())
}

func (r *PrometheusRegistry) IncrementWarehouseQueryErrors(query string) {
	WarehouseQueryErrors.WithLabelValues(query).Inc()
}

// Dimension cache metrics
func (r *PrometheusRegistry) IncrementDimensionCacheLookup(dimension, result string) {
	DimensionCacheLookups.WithLabelValues(dimension, result).Inc()
}

// History persistence metrics
func (r *PrometheusRegistry) IncrementHistoryPersistErrors() {
	HistoryPersistErrors.Inc()
}

// NoOpRegistry implements MetricsRegistry with no-op methods for testing
type NoOpRegistry struct{}

// NewNoOpRegistry creates a new NoOpRegistry
func NewNoOpRegistry() *NoOpRegistry {
	return &NoOpRegistry{}
}

func (r *NoOpRegistry) IncrementRequests(endpoint, method, status string)                    {}
func (r *NoOpRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {}
func (r *NoOpRegistry) IncrementReports(reportType, outcome string)                          {}
func (r *NoOpRegistry) RecordReportDuration(reportType string, duration time.Duration)       {}
func (r *NoOpRegistry) RecordReportRows(count int)                                           {}
func (r *NoOpRegistry) RecordWarehouseQuery(query string, duration time.Duration)            {}
func (r *NoOpRegistry) IncrementWarehouseQueryErrors(query string)                           {}
func (r *NoOpRegistry) IncrementDimensionCacheLookup(dimension, result string)               {}
func (r *NoOpRegistry) IncrementHistoryPersistErrors()                                       {}
