package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/openmartech/adreport/internal/report"
)

// MetricsCatalogHandler handles GET /api/metrics?platform=...
func (s *Server) MetricsCatalogHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "metrics_catalog"

	platform := strings.ToLower(r.URL.Query().Get("platform"))
	if platform == "" {
		s.Metrics.IncrementRequests(endpoint, "GET", "400")
		writeError(w, http.StatusBadRequest, "platform parameter is required")
		return
	}

	s.Metrics.IncrementRequests(endpoint, "GET", "200")
	s.Metrics.RecordRequestLatency(endpoint, "GET", time.Since(start))
	writeSuccess(w, report.MetricCatalog(platform))
}
