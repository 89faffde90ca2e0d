package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/openmartech/adreport/internal/middleware"
	"github.com/openmartech/adreport/internal/report"
	"github.com/openmartech/adreport/internal/warehouse"
)

// AnalyticsRequest is the payload for POST /api/reports/analytics.
type AnalyticsRequest struct {
	warehouse.ReportQuery
	Customization *report.Customization `json:"customization"`
}

// AnalyticsHandler handles POST /api/reports/analytics: the full analytics
// object (summary, trends, performance, optional cards and chart) computed
// over the raw per-day rows.
func (s *Server) AnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "reports_analytics"
	const method = "POST"
	logger := middleware.LoggerFromRequest(r, s.Logger)

	var req AnalyticsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Platform == "" {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		writeError(w, http.StatusBadRequest, "platform is required")
		return
	}

	rows, err := s.Warehouse.FetchRawRows(r.Context(), req.ReportQuery)
	if err != nil {
		logger.Error("analytics fetch failed", zap.String("platform", req.Platform), zap.Error(err))
		s.Metrics.IncrementReports("analytics", "error")
		s.Metrics.IncrementRequests(endpoint, method, "500")
		writeError(w, http.StatusInternalServerError, "report generation failed")
		return
	}

	analytics, err := report.BuildAnalytics(rows, req.Customization)
	if err != nil {
		if errors.Is(err, report.ErrNoData) {
			s.Metrics.IncrementReports("analytics", "empty")
			s.Metrics.IncrementRequests(endpoint, method, "404")
			writeError(w, http.StatusNotFound, "no data for the requested range")
			return
		}
		logger.Error("analytics build failed", zap.Error(err))
		s.Metrics.IncrementReports("analytics", "error")
		s.Metrics.IncrementRequests(endpoint, method, "500")
		writeError(w, http.StatusInternalServerError, "report generation failed")
		return
	}

	s.Metrics.IncrementReports("analytics", "success")
	s.Metrics.RecordReportDuration("analytics", time.Since(start))
	s.Metrics.RecordReportRows(len(rows))
	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	writeSuccess(w, analytics)
}
