package observability

import "time"

// MockMetricsRegistry is a mock implementation of MetricsRegistry for testing
type MockMetricsRegistry struct{}

func (m *MockMetricsRegistry) IncrementRequests(endpoint, method, status string)                    {}
func (m *MockMetricsRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {}
func (m *MockMetricsRegistry) IncrementReports(reportType, outcome string)                          {}
func (m *MockMetricsRegistry) RecordReportDuration(reportType string, duration time.Duration)       {}
func (m *MockMetricsRegistry) RecordReportRows(count int)                                           {}
func (m *MockMetricsRegistry) RecordWarehouseQuery(query string, duration time.Duration)            {}
func (m *MockMetricsRegistry) IncrementWarehouseQueryErrors(query string)                           {}
func (m *MockMetricsRegistry) IncrementDimensionCacheLookup(dimension, result string)               {}
func (m *MockMetricsRegistry) IncrementHistoryPersistErrors()                                       {}
