package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/openmartech/adreport/internal/middleware"
	"github.com/openmartech/adreport/internal/report"
	"github.com/openmartech/adreport/internal/warehouse"
)

// EvidenciaRequest is the payload for POST /api/reports/evidencia.
type EvidenciaRequest struct {
	warehouse.ReportQuery
	Evidencia report.EvidenciaConfig `json:"evidencia"`
}

// EvidenciaHandler handles POST /api/reports/evidencia: the aggregated,
// sorted and projected campaign table used by exports.
func (s *Server) EvidenciaHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "reports_evidencia"
	const method = "POST"
	logger := middleware.LoggerFromRequest(r, s.Logger)

	var req EvidenciaRequest
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

	if max := s.Config.MaxEvidenciaRows; max > 0 && (req.Evidencia.MaxRows <= 0 || req.Evidencia.MaxRows > max) {
		req.Evidencia.MaxRows = max
	}

	rows, err := s.Warehouse.FetchRawRows(r.Context(), req.ReportQuery)
	if err != nil {
		logger.Error("evidencia fetch failed", zap.String("platform", req.Platform), zap.Error(err))
		s.Metrics.IncrementReports("evidencia", "error")
		s.Metrics.IncrementRequests(endpoint, method, "500")
		writeError(w, http.StatusInternalServerError, "report generation failed")
		return
	}

	table := report.PrepareEvidencia(rows, req.Evidencia)

	s.Metrics.IncrementReports("evidencia", "success")
	s.Metrics.RecordReportDuration("evidencia", time.Since(start))
	s.Metrics.RecordReportRows(len(rows))
	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	writeSuccess(w, table)
}
