package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/openmartech/adreport/internal/db"
	"github.com/openmartech/adreport/internal/middleware"
	"github.com/openmartech/adreport/internal/report"
	"github.com/openmartech/adreport/internal/warehouse"
)

// ReportConfig is the wizard payload for POST /api/reports.
type ReportConfig struct {
	warehouse.ReportQuery
	ReportType       string `json:"reportType"`
	CompareStartDate string `json:"compareStartDate"`
	CompareEndDate   string `json:"compareEndDate"`
	ExtractDates     bool   `json:"extractDates"`
}

// SimpleReport is the response for reportType "simple": the grouped rows with
// derived metrics plus per-metric stats.
type SimpleReport struct {
	Rows    []report.Row                `json:"rows"`
	Summary map[string]report.FieldStat `json:"summary"`
}

// ComparisonItem is one campaign in a campaign comparison.
type ComparisonItem struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Metrics map[string]float64 `json:"metrics"`
}

// CampaignComparison is the response for reportType "compare_campaigns".
type CampaignComparison struct {
	Items  []ComparisonItem   `json:"items"`
	Totals map[string]float64 `json:"totals"`
}

// ReportHandler handles POST /api/reports.
func (s *Server) ReportHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "reports"
	const method = "POST"
	logger := middleware.LoggerFromRequest(r, s.Logger)

	var cfg ReportConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if msg := s.validateConfig(cfg); msg != "" {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	reportType := cfg.ReportType
	if cfg.ExtractDates {
		reportType = "extract_dates"
	}

	data, rowCount, err := s.generate(r, cfg, reportType)
	if err != nil {
		logger.Error("report generation failed",
			zap.String("report_type", reportType),
			zap.String("platform", cfg.Platform),
			zap.Error(err))
		s.Metrics.IncrementReports(reportType, "error")
		s.Metrics.IncrementRequests(endpoint, method, "500")
		writeError(w, http.StatusInternalServerError, "report generation failed")
		return
	}

	s.recordHistory(r, cfg, reportType, rowCount, time.Since(start))

	logger.Info("report generated",
		zap.String("report_type", reportType),
		zap.String("platform", cfg.Platform),
		zap.Int("rows", rowCount),
		zap.Duration("duration", time.Since(start)))

	s.Metrics.IncrementReports(reportType, "success")
	s.Metrics.RecordReportDuration(reportType, time.Since(start))
	s.Metrics.RecordReportRows(rowCount)
	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	writeSuccess(w, data)
}

// generate dispatches on report type and returns the response payload plus the
// number of warehouse rows involved.
func (s *Server) generate(r *http.Request, cfg ReportConfig, reportType string) (any, int, error) {
	ctx := r.Context()
	switch reportType {
	case "extract_dates":
		rows, err := s.Warehouse.ExtractCampaignDates(ctx, cfg.ReportQuery)
		if err != nil {
			return nil, 0, err
		}
		return rows, len(rows), nil

	case "simple":
		rows, err := s.Warehouse.FetchReportRows(ctx, cfg.ReportQuery)
		if err != nil {
			return nil, 0, err
		}
		derived := report.CalculateDerived(rows)
		return SimpleReport{
			Rows:    derived,
			Summary: report.FieldStats(derived, cfg.Metrics),
		}, len(rows), nil

	case "compare_campaigns":
		q := cfg.ReportQuery
		q.GroupBy = "campaign"
		rows, err := s.Warehouse.FetchReportRows(ctx, q)
		if err != nil {
			return nil, 0, err
		}
		return buildCampaignComparison(report.CalculateDerived(rows), cfg.Metrics), len(rows), nil

	case "compare_periods":
		current, err := s.Warehouse.FetchPeriodTotals(ctx, cfg.ReportQuery, "current", cfg.StartDate, cfg.EndDate)
		if err != nil {
			return nil, 0, err
		}
		previous, err := s.Warehouse.FetchPeriodTotals(ctx, cfg.ReportQuery, "previous", cfg.CompareStartDate, cfg.CompareEndDate)
		if err != nil {
			return nil, 0, err
		}
		current = report.DeriveRow(current)
		previous = report.DeriveRow(previous)
		return report.ComparePeriods(current, previous, cfg.Metrics), 2, nil

	default:
		return nil, 0, fmt.Errorf("unhandled report type %q", reportType)
	}
}

// buildCampaignComparison shapes grouped campaign rows into comparison items
// with per-metric totals across all campaigns.
func buildCampaignComparison(rows []report.Row, metrics []string) CampaignComparison {
	cmp := CampaignComparison{
		Items:  make([]ComparisonItem, 0, len(rows)),
		Totals: make(map[string]float64, len(metrics)),
	}
	for _, row := range rows {
		item := ComparisonItem{
			ID:      row.Str("campaign"),
			Name:    row.Str("campaign_name"),
			Metrics: make(map[string]float64, len(metrics)),
		}
		for _, m := range metrics {
			v := report.Number(row[m])
			item.Metrics[m] = v
			cmp.Totals[m] += v
		}
		cmp.Items = append(cmp.Items, item)
	}
	return cmp
}

// validateConfig returns a validation message, or "" when the config is valid.
func (s *Server) validateConfig(cfg ReportConfig) string {
	if cfg.ExtractDates {
		if cfg.Platform == "" || len(cfg.CampaignIDs) == 0 {
			return "platform and campaign IDs are required for date extraction"
		}
		return ""
	}

	if cfg.Platform == "" || cfg.ReportType == "" || len(cfg.Metrics) == 0 {
		return "platform, report type, and metrics are required"
	}

	switch cfg.ReportType {
	case "simple", "compare_campaigns":
	case "compare_periods":
		if cfg.CompareStartDate == "" || cfg.CompareEndDate == "" {
			return "comparison period dates are required"
		}
		if msg := s.validateDateRange(cfg.CompareStartDate, cfg.CompareEndDate); msg != "" {
			return msg
		}
	default:
		return "invalid report type"
	}

	if cfg.StartDate != "" && cfg.EndDate != "" {
		if msg := s.validateDateRange(cfg.StartDate, cfg.EndDate); msg != "" {
			return msg
		}
	}
	return ""
}

// validateDateRange enforces the report date-range rules: chronological order,
// no future data, bounded span.
func (s *Server) validateDateRange(startDate, endDate string) string {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return "invalid start date"
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return "invalid end date"
	}
	if start.After(end) {
		return "start date must not be after end date"
	}
	today := time.Now().Truncate(24 * time.Hour)
	if end.After(today) {
		return "end date must not be in the future"
	}
	maxDays := s.Config.MaxDateRangeDays
	if maxDays <= 0 {
		maxDays = 365
	}
	if int(end.Sub(start).Hours()/24) > maxDays {
		return fmt.Sprintf("date range must not exceed %d days", maxDays)
	}
	return ""
}

// recordHistory persists the generated report metadata. Failures are logged
// and counted but never fail the request.
func (s *Server) recordHistory(r *http.Request, cfg ReportConfig, reportType string, rowCount int, duration time.Duration) {
	if s.PG == nil {
		return
	}
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		s.Logger.Error("marshal report config", zap.Error(err))
		return
	}
	rec := &db.ReportRecord{
		ReportType: reportType,
		Platform:   cfg.Platform,
		Team:       cfg.Team,
		Metrics:    cfg.Metrics,
		Config:     configJSON,
		RowCount:   rowCount,
		DurationMS: duration.Milliseconds(),
	}
	if err := s.PG.InsertReportRecord(r.Context(), rec); err != nil {
		s.Logger.Error("persist report history", zap.Error(err))
		s.Metrics.IncrementHistoryPersistErrors()
	}
}
