package api

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/openmartech/adreport/internal/middleware"
)

// HistoryHandler handles GET /api/reports/history?limit=N.
func (s *Server) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "reports_history"
	logger := middleware.LoggerFromRequest(r, s.Logger)

	if s.PG == nil {
		s.Metrics.IncrementRequests(endpoint, "GET", "503")
		writeError(w, http.StatusServiceUnavailable, "history store unavailable")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	records, err := s.PG.ListReportHistory(r.Context(), limit)
	if err != nil {
		logger.Error("list report history", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, "GET", "500")
		writeError(w, http.StatusInternalServerError, "history lookup failed")
		return
	}

	s.Metrics.IncrementRequests(endpoint, "GET", "200")
	s.Metrics.RecordRequestLatency(endpoint, "GET", time.Since(start))
	writeSuccess(w, records)
}
