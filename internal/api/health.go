package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthStatus reports liveness plus per-dependency reachability.
type HealthStatus struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

// HealthHandler responds with a status check including dependency pings.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "health"
	const method = "GET"

	health := HealthStatus{Status: "ok", Dependencies: map[string]string{}}

	if s.Warehouse != nil && s.Warehouse.DB != nil {
		if err := s.Warehouse.DB.PingContext(r.Context()); err != nil {
			health.Dependencies["clickhouse"] = "down"
			health.Status = "degraded"
		} else {
			health.Dependencies["clickhouse"] = "up"
		}
	}
	if s.PG != nil && s.PG.DB != nil {
		if err := s.PG.DB.PingContext(r.Context()); err != nil {
			health.Dependencies["postgres"] = "down"
			health.Status = "degraded"
		} else {
			health.Dependencies["postgres"] = "up"
		}
	}
	if s.Cache != nil && s.Cache.Client != nil {
		if err := s.Cache.Client.Ping(r.Context()).Err(); err != nil {
			health.Dependencies["redis"] = "down"
			health.Status = "degraded"
		} else {
			health.Dependencies["redis"] = "up"
		}
	}

	status := http.StatusOK
	if health.Status != "ok" {
		status = http.StatusServiceUnavailable
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))

	if status == http.StatusOK {
		writeSuccess(w, health)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: health})
}
