package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes registers every endpoint on the router.
func (s *Server) Routes(r *mux.Router) {
	r.HandleFunc("/health", s.HealthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler())

	apiRoutes := r.PathPrefix("/api").Subrouter()
	apiRoutes.HandleFunc("/reports", s.ReportHandler).Methods("POST")
	apiRoutes.HandleFunc("/reports/analytics", s.AnalyticsHandler).Methods("POST")
	apiRoutes.HandleFunc("/reports/evidencia", s.EvidenciaHandler).Methods("POST")
	apiRoutes.HandleFunc("/reports/history", s.HistoryHandler).Methods("GET")

	apiRoutes.HandleFunc("/platforms", s.PlatformsHandler).Methods("GET")
	apiRoutes.HandleFunc("/teams", s.TeamsHandler).Methods("GET")
	apiRoutes.HandleFunc("/accounts", s.AccountsHandler).Methods("GET")
	apiRoutes.HandleFunc("/campaigns", s.CampaignsHandler).Methods("POST")
	apiRoutes.HandleFunc("/adsets", s.AdsetsHandler).Methods("POST")
	apiRoutes.HandleFunc("/metrics", s.MetricsCatalogHandler).Methods("GET")
}
