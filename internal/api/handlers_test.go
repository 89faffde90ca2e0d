package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openmartech/adreport/internal/config"
	"github.com/openmartech/adreport/internal/db"
	"github.com/openmartech/adreport/internal/observability"
	"github.com/openmartech/adreport/internal/warehouse"
)

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	srv := NewServer(
		zap.NewNop(),
		&warehouse.Warehouse{DB: mockDB, Metrics: &observability.MockMetricsRegistry{}},
		nil,
		nil,
		&observability.MockMetricsRegistry{},
		config.Config{MaxDateRangeDays: 365, MaxEvidenciaRows: 1000, DimensionCacheTTL: time.Minute},
	)
	return srv, mock
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, target string, body any) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	handler(rec, req)

	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestReportHandlerRejectsInvalidJSON(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/reports", bytes.NewBufferString("{nope"))
	rec := httptest.NewRecorder()
	srv.ReportHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportHandlerValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		name string
		cfg  ReportConfig
		want string
	}{
		{
			name: "missing platform",
			cfg:  ReportConfig{ReportType: "simple"},
			want: "platform, report type, and metrics are required",
		},
		{
			name: "missing metrics",
			cfg: ReportConfig{
				ReportQuery: warehouse.ReportQuery{Platform: "facebook"},
				ReportType:  "simple",
			},
			want: "platform, report type, and metrics are required",
		},
		{
			name: "invalid report type",
			cfg: ReportConfig{
				ReportQuery: warehouse.ReportQuery{Platform: "facebook", Metrics: []string{"cost"}},
				ReportType:  "pivot",
			},
			want: "invalid report type",
		},
		{
			name: "compare_periods without comparison dates",
			cfg: ReportConfig{
				ReportQuery: warehouse.ReportQuery{Platform: "facebook", Metrics: []string{"cost"}},
				ReportType:  "compare_periods",
			},
			want: "comparison period dates are required",
		},
		{
			name: "extract dates without campaigns",
			cfg: ReportConfig{
				ReportQuery:  warehouse.ReportQuery{Platform: "facebook"},
				ExtractDates: true,
			},
			want: "platform and campaign IDs are required for date extraction",
		},
		{
			name: "start after end",
			cfg: ReportConfig{
				ReportQuery: warehouse.ReportQuery{
					Platform:  "facebook",
					Metrics:   []string{"cost"},
					StartDate: "2024-02-01",
					EndDate:   "2024-01-01",
				},
				ReportType: "simple",
			},
			want: "start date must not be after end date",
		},
		{
			name: "end in the future",
			cfg: ReportConfig{
				ReportQuery: warehouse.ReportQuery{
					Platform:  "facebook",
					Metrics:   []string{"cost"},
					StartDate: time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
					EndDate:   time.Now().AddDate(0, 0, 2).Format("2006-01-02"),
				},
				ReportType: "simple",
			},
			want: "end date must not be in the future",
		},
		{
			name: "range too wide",
			cfg: ReportConfig{
				ReportQuery: warehouse.ReportQuery{
					Platform:  "facebook",
					Metrics:   []string{"cost"},
					StartDate: "2023-01-01",
					EndDate:   "2024-06-01",
				},
				ReportType: "simple",
			},
			want: "date range must not exceed 365 days",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := doJSON(t, srv.ReportHandler, "POST", "/api/reports", tc.cfg)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tc.want, env.Error)
		})
	}
}

func TestReportHandlerSimpleReport(t *testing.T) {
	srv, mock := newTestServer(t)

	rows := sqlmock.NewRows([]string{"date", "cost", "clicks", "impressions"}).
		AddRow(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 100.0, int64(10), int64(1000)).
		AddRow(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 50.0, int64(20), int64(500))

	mock.ExpectQuery("SELECT date, SUM\\(cost\\) AS cost, SUM\\(clicks\\) AS clicks, SUM\\(impressions\\) AS impressions FROM unified_data").
		WillReturnRows(rows)

	cfg := ReportConfig{
		ReportQuery: warehouse.ReportQuery{
			Platform:  "facebook",
			Metrics:   []string{"cost", "clicks", "impressions"},
			StartDate: "2024-01-01",
			EndDate:   "2024-01-02",
			GroupBy:   "date",
		},
		ReportType: "simple",
	}

	rec, env := doJSON(t, srv.ReportHandler, "POST", "/api/reports", cfg)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var out SimpleReport
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out.Rows, 2)
	assert.Equal(t, 150.0, out.Summary["cost"].Total)
	assert.Equal(t, 75.0, out.Summary["cost"].Average)
	assert.Equal(t, 100.0, out.Summary["cost"].Max)

	// derived metrics added per row
	assert.Equal(t, "1.00", out.Rows[0]["ctr"])
}

func TestReportHandlerComparePeriods(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery("SELECT \\? AS period, SUM\\(cost\\) AS cost FROM unified_data").
		WillReturnRows(sqlmock.NewRows([]string{"period", "cost"}).AddRow("current", 200.0))
	mock.ExpectQuery("SELECT \\? AS period, SUM\\(cost\\) AS cost FROM unified_data").
		WillReturnRows(sqlmock.NewRows([]string{"period", "cost"}).AddRow("previous", 100.0))

	cfg := ReportConfig{
		ReportQuery: warehouse.ReportQuery{
			Platform:  "facebook",
			Metrics:   []string{"cost"},
			StartDate: "2024-02-01",
			EndDate:   "2024-02-29",
		},
		ReportType:       "compare_periods",
		CompareStartDate: "2024-01-01",
		CompareEndDate:   "2024-01-31",
	}

	rec, env := doJSON(t, srv.ReportHandler, "POST", "/api/reports", cfg)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var out struct {
		Current  map[string]float64 `json:"current"`
		Previous map[string]float64 `json:"previous"`
		Changes  map[string]struct {
			Absolute   float64 `json:"absolute"`
			Percentage float64 `json:"percentage"`
		} `json:"changes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, 200.0, out.Current["cost"])
	assert.Equal(t, 100.0, out.Previous["cost"])
	require.Contains(t, out.Changes, "cost")
	assert.Equal(t, 100.0, out.Changes["cost"].Absolute)
	assert.Equal(t, 100.0, out.Changes["cost"].Percentage)
}

func TestEvidenciaHandlerCapsMaxRows(t *testing.T) {
	srv, mock := newTestServer(t)
	srv.Config.MaxEvidenciaRows = 2

	rows := sqlmock.NewRows([]string{"date", "campaign", "campaign_name", "account", "account_name", "cost"}).
		AddRow(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "c1", "Alpha", "a1", "Acme", 40.0).
		AddRow(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "c2", "Beta", "a1", "Acme", 90.0).
		AddRow(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "c3", "Gamma", "a1", "Acme", 10.0)

	mock.ExpectQuery("FROM unified_data").WillReturnRows(rows)

	req := EvidenciaRequest{
		ReportQuery: warehouse.ReportQuery{
			Platform:  "facebook",
			StartDate: "2024-01-01",
			EndDate:   "2024-01-01",
		},
	}

	rec, env := doJSON(t, srv.EvidenciaHandler, "POST", "/api/reports/evidencia", req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var table []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &table))
	require.Len(t, table, 2)
	assert.Equal(t, "Beta", table[0]["campaign_name"])
}

func TestAnalyticsHandlerNoData(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery("FROM unified_data").
		WillReturnRows(sqlmock.NewRows([]string{"date", "campaign", "campaign_name", "account", "account_name", "cost"}))

	req := AnalyticsRequest{
		ReportQuery: warehouse.ReportQuery{
			Platform:  "facebook",
			StartDate: "2024-01-01",
			EndDate:   "2024-01-31",
		},
	}

	rec, env := doJSON(t, srv.AnalyticsHandler, "POST", "/api/reports/analytics", req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "no data for the requested range", env.Error)
}

func TestAnalyticsHandlerRequiresPlatform(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, env := doJSON(t, srv.AnalyticsHandler, "POST", "/api/reports/analytics", AnalyticsRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "platform is required", env.Error)
}

func TestPlatformsHandler(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, env := doJSON(t, srv.PlatformsHandler, "GET", "/api/platforms", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var platforms []Platform
	require.NoError(t, json.Unmarshal(env.Data, &platforms))
	require.Len(t, platforms, 3)
	assert.Equal(t, "facebook", platforms[0].ID)
	assert.True(t, platforms[0].Available)
}

func TestMetricsCatalogHandler(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, _ := doJSON(t, srv.MetricsCatalogHandler, "GET", "/api/metrics", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := doJSON(t, srv.MetricsCatalogHandler, "GET", "/api/metrics?platform=Facebook", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var catalog struct {
		Platform       string   `json:"platform"`
		TotalMetrics   int      `json:"totalMetrics"`
		DefaultMetrics []string `json:"defaultMetrics"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &catalog))
	assert.Equal(t, "facebook", catalog.Platform)
	assert.Greater(t, catalog.TotalMetrics, 0)
	assert.NotEmpty(t, catalog.DefaultMetrics)
}

func TestCampaignsHandlerRequiresAccounts(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, env := doJSON(t, srv.CampaignsHandler, "POST", "/api/campaigns", CampaignsRequest{Platform: "google"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "platform and account IDs are required", env.Error)
}

func TestHistoryHandlerUnavailableWithoutPostgres(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, env := doJSON(t, srv.HistoryHandler, "GET", "/api/reports/history", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "history store unavailable", env.Error)
}

func TestTeamsHandlerServesFromCache(t *testing.T) {
	srv, mock := newTestServer(t)

	mr := miniredis.RunT(t)
	store, err := db.InitRedis(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(store.Close)
	srv.Cache = store

	rows := sqlmock.NewRows([]string{"team", "account_count", "campaign_count", "account_names"}).
		AddRow("growth", 2, 5, "Acme,Globex")
	mock.ExpectQuery("FROM unified_data").WillReturnRows(rows)

	// first request hits the warehouse and populates the cache
	rec, env := doJSON(t, srv.TeamsHandler, "GET", "/api/teams", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	// second request is served from cache; no further query is expected
	rec, env = doJSON(t, srv.TeamsHandler, "GET", "/api/teams", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var teams []warehouse.Team
	require.NoError(t, json.Unmarshal(env.Data, &teams))
	require.Len(t, teams, 1)
	assert.Equal(t, "growth", teams[0].ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthHandlerDegraded(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	mock.ExpectPing().WillReturnError(assert.AnError)

	srv := NewServer(
		zap.NewNop(),
		&warehouse.Warehouse{DB: mockDB, Metrics: &observability.MockMetricsRegistry{}},
		nil,
		nil,
		&observability.MockMetricsRegistry{},
		config.Config{},
	)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	srv.HealthHandler(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var env struct {
		Success bool         `json:"success"`
		Data    HealthStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "degraded", env.Data.Status)
	assert.Equal(t, "down", env.Data.Dependencies["clickhouse"])
}

func TestHealthHandlerOK(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	srv.HealthHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Success bool         `json:"success"`
		Data    HealthStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "ok", env.Data.Status)
}
