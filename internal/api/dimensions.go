package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/openmartech/adreport/internal/db"
	"github.com/openmartech/adreport/internal/middleware"
)

// Platform is one supported ad platform in the static catalog.
type Platform struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
	Available bool   `json:"available"`
}

var platformCatalog = []Platform{
	{ID: "facebook", Name: "Facebook Ads", Icon: "facebook", Color: "#1877F2", Available: true},
	{ID: "google", Name: "Google Ads", Icon: "google", Color: "#4285F4", Available: true},
	{ID: "tiktok", Name: "TikTok Ads", Icon: "tiktok", Color: "#000000", Available: true},
}

// PlatformsHandler handles GET /api/platforms.
func (s *Server) PlatformsHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.Metrics.IncrementRequests("platforms", "GET", "200")
	s.Metrics.RecordRequestLatency("platforms", "GET", time.Since(start))
	writeSuccess(w, platformCatalog)
}

// TeamsHandler handles GET /api/teams.
func (s *Server) TeamsHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "teams"
	logger := middleware.LoggerFromRequest(r, s.Logger)

	payload, err := s.cachedDimension(r.Context(), "teams", db.DimensionKey("teams"), func() (any, error) {
		return s.Warehouse.ListTeams(r.Context())
	})
	if err != nil {
		logger.Error("list teams", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, "GET", "500")
		writeError(w, http.StatusInternalServerError, "dimension lookup failed")
		return
	}

	s.Metrics.IncrementRequests(endpoint, "GET", "200")
	s.Metrics.RecordRequestLatency(endpoint, "GET", time.Since(start))
	writeSuccess(w, payload)
}

// AccountsHandler handles GET /api/accounts?platform=...&team=...
func (s *Server) AccountsHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "accounts"
	logger := middleware.LoggerFromRequest(r, s.Logger)

	platform := r.URL.Query().Get("platform")
	team := r.URL.Query().Get("team")
	if platform == "" {
		s.Metrics.IncrementRequests(endpoint, "GET", "400")
		writeError(w, http.StatusBadRequest, "platform parameter is required")
		return
	}

	key := db.DimensionKey("accounts", strings.ToLower(platform), team)
	payload, err := s.cachedDimension(r.Context(), "accounts", key, func() (any, error) {
		return s.Warehouse.ListAccounts(r.Context(), platform, team)
	})
	if err != nil {
		logger.Error("list accounts", zap.String("platform", platform), zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, "GET", "500")
		writeError(w, http.StatusInternalServerError, "dimension lookup failed")
		return
	}

	s.Metrics.IncrementRequests(endpoint, "GET", "200")
	s.Metrics.RecordRequestLatency(endpoint, "GET", time.Since(start))
	writeSuccess(w, payload)
}

// CampaignsRequest is the payload for POST /api/campaigns.
type CampaignsRequest struct {
	Platform   string   `json:"platform"`
	AccountIDs []string `json:"accountIds"`
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	Team       string   `json:"team"`
}

// CampaignsHandler handles POST /api/campaigns.
func (s *Server) CampaignsHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "campaigns"
	logger := middleware.LoggerFromRequest(r, s.Logger)

	var req CampaignsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Metrics.IncrementRequests(endpoint, "POST", "400")
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Platform == "" || len(req.AccountIDs) == 0 {
		s.Metrics.IncrementRequests(endpoint, "POST", "400")
		writeError(w, http.StatusBadRequest, "platform and account IDs are required")
		return
	}

	key := db.DimensionKey("campaigns", strings.ToLower(req.Platform),
		strings.Join(req.AccountIDs, ","), req.StartDate, req.EndDate, req.Team)
	payload, err := s.cachedDimension(r.Context(), "campaigns", key, func() (any, error) {
		return s.Warehouse.ListCampaigns(r.Context(), req.Platform, req.AccountIDs, req.StartDate, req.EndDate, req.Team)
	})
	if err != nil {
		logger.Error("list campaigns", zap.String("platform", req.Platform), zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, "POST", "500")
		writeError(w, http.StatusInternalServerError, "dimension lookup failed")
		return
	}

	s.Metrics.IncrementRequests(endpoint, "POST", "200")
	s.Metrics.RecordRequestLatency(endpoint, "POST", time.Since(start))
	writeSuccess(w, payload)
}

// AdsetsRequest is the payload for POST /api/adsets.
type AdsetsRequest struct {
	Platform    string   `json:"platform"`
	CampaignIDs []string `json:"campaignIds"`
}

// AdsetsHandler handles POST /api/adsets.
func (s *Server) AdsetsHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "adsets"

	var req AdsetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Metrics.IncrementRequests(endpoint, "POST", "400")
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Platform == "" || len(req.CampaignIDs) == 0 {
		s.Metrics.IncrementRequests(endpoint, "POST", "400")
		writeError(w, http.StatusBadRequest, "platform and campaign IDs are required")
		return
	}

	adsets, err := s.Warehouse.ListAdsets(r.Context(), req.Platform, req.CampaignIDs)
	if err != nil {
		s.Metrics.IncrementRequests(endpoint, "POST", "500")
		writeError(w, http.StatusInternalServerError, "dimension lookup failed")
		return
	}

	s.Metrics.IncrementRequests(endpoint, "POST", "200")
	s.Metrics.RecordRequestLatency(endpoint, "POST", time.Since(start))
	writeSuccess(w, adsets)
}

// cachedDimension serves a dimension payload from the Redis cache, falling
// back to the fetch function and caching its marshaled result. Cache failures
// degrade to a direct fetch.
func (s *Server) cachedDimension(ctx context.Context, dimension, key string, fetch func() (any, error)) (json.RawMessage, error) {
	if s.Cache != nil {
		cached, found, err := s.Cache.GetDimension(ctx, key)
		if err != nil {
			s.Logger.Warn("dimension cache get", zap.String("key", key), zap.Error(err))
		} else if found {
			s.Metrics.IncrementDimensionCacheLookup(dimension, "hit")
			return cached, nil
		} else {
			s.Metrics.IncrementDimensionCacheLookup(dimension, "miss")
		}
	}

	result, err := fetch()
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.SetDimension(ctx, key, payload, s.Config.DimensionCacheTTL); err != nil {
			s.Logger.Warn("dimension cache set", zap.String("key", key), zap.Error(err))
		}
	}
	return payload, nil
}
