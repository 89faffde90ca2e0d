package warehouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/openmartech/adreport/internal/report"
)

// ReportQuery describes one report fetch against unified_data.
type ReportQuery struct {
	Platform    string   `json:"platform"`
	Team        string   `json:"team"`
	AccountIDs  []string `json:"accountIds"`
	CampaignIDs []string `json:"campaignIds"`
	AdsetIDs    []string `json:"adsetIds"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	GroupBy     string   `json:"groupBy"`
	Metrics     []string `json:"metrics"`
}

// groupByClause maps a grouping dimension onto its SELECT/GROUP BY/ORDER BY
// columns. Adset grouping is absent because unified_data has no adset rows.
type groupByClause struct {
	selectCols string
	groupCols  string
	orderCols  string
}

var groupByClauses = map[string]groupByClause{
	"date":     {"date", "date", "date"},
	"campaign": {"campaign, campaign_name", "campaign, campaign_name", "campaign_name"},
	"account":  {"account, account_name", "account, account_name", "account_name"},
}

// buildFilters assembles the WHERE conditions shared by every report query.
// Platform matching is case-insensitive.
func buildFilters(q ReportQuery) ([]string, []any) {
	conds := []string{"lower(platform) = lower(?)"}
	args := []any{q.Platform}

	if q.Team != "" {
		conds = append(conds, "team = ?")
		args = append(args, q.Team)
	}
	if len(q.AccountIDs) > 0 {
		conds = append(conds, "account IN (?)")
		args = append(args, q.AccountIDs)
	}
	if len(q.CampaignIDs) > 0 {
		conds = append(conds, "campaign IN (?)")
		args = append(args, q.CampaignIDs)
	}
	if len(q.AdsetIDs) > 0 {
		conds = append(conds, "adset_id IN (?)")
		args = append(args, q.AdsetIDs)
	}
	return conds, args
}

// metricSelects renders the aggregate expressions for the requested metrics.
// Calculated metrics are excluded, they are derived downstream from the
// aggregated base columns. Share-of-voice percentages average instead of sum.
// Unknown metric names are dropped so they never reach the SQL text.
func metricSelects(metrics []string) []string {
	var selects []string
	for _, m := range metrics {
		switch {
		case report.IsCalculated(m):
			continue
		case !selectableMetric(m):
			zap.L().Warn("ignoring unknown metric", zap.String("metric", m))
			continue
		case report.IsAveraged(m):
			selects = append(selects, fmt.Sprintf("AVG(%s) AS %s", m, m))
		default:
			selects = append(selects, fmt.Sprintf("SUM(%s) AS %s", m, m))
		}
	}
	return selects
}

func selectableMetric(m string) bool {
	for _, list := range [][]string{report.AdditiveMetrics, report.CompletionRateMetrics, report.AveragedMetrics} {
		for _, known := range list {
			if known == m {
				return true
			}
		}
	}
	return false
}

// FetchReportRows runs the grouped report query and returns one row per
// grouping value with the requested metrics aggregated.
func (w *Warehouse) FetchReportRows(ctx context.Context, q ReportQuery) ([]report.Row, error) {
	clause, ok := groupByClauses[q.GroupBy]
	if !ok {
		clause = groupByClauses["date"]
	}

	selects := metricSelects(q.Metrics)
	if len(selects) == 0 {
		return nil, fmt.Errorf("no aggregatable metrics in %v", q.Metrics)
	}

	conds, args := buildFilters(q)
	if q.StartDate != "" && q.EndDate != "" {
		conds = append(conds, "date BETWEEN ? AND ?")
		args = append(args, q.StartDate, q.EndDate)
	}

	query := fmt.Sprintf(
		"SELECT %s, %s FROM unified_data WHERE %s GROUP BY %s ORDER BY %s",
		clause.selectCols, strings.Join(selects, ", "),
		strings.Join(conds, " AND "), clause.groupCols, clause.orderCols,
	)
	return w.queryRows(ctx, "report", query, args...)
}

// FetchRawRows returns per-day per-campaign rows, the input shape for the
// analytics and evidencia pipelines.
func (w *Warehouse) FetchRawRows(ctx context.Context, q ReportQuery) ([]report.Row, error) {
	conds, args := buildFilters(q)
	if q.StartDate != "" && q.EndDate != "" {
		conds = append(conds, "date BETWEEN ? AND ?")
		args = append(args, q.StartDate, q.EndDate)
	}

	selects := metricSelects(q.Metrics)
	if len(selects) == 0 {
		selects = metricSelects(report.AdditiveMetrics)
	}

	query := fmt.Sprintf(
		"SELECT date, campaign, campaign_name, account, account_name, %s FROM unified_data WHERE %s GROUP BY date, campaign, campaign_name, account, account_name ORDER BY date, campaign_name",
		strings.Join(selects, ", "), strings.Join(conds, " AND "),
	)
	return w.queryRows(ctx, "raw", query, args...)
}

// FetchPeriodTotals returns a single totals row for one labeled period,
// used by period comparison.
func (w *Warehouse) FetchPeriodTotals(ctx context.Context, q ReportQuery, label, start, end string) (report.Row, error) {
	selects := metricSelects(q.Metrics)
	if len(selects) == 0 {
		return nil, fmt.Errorf("no aggregatable metrics in %v", q.Metrics)
	}

	conds, args := buildFilters(q)
	conds = append(conds, "date BETWEEN ? AND ?")
	args = append(args, start, end)

	query := fmt.Sprintf(
		"SELECT ? AS period, %s FROM unified_data WHERE %s",
		strings.Join(selects, ", "), strings.Join(conds, " AND "),
	)
	rows, err := w.queryRows(ctx, "period_totals", query, append([]any{label}, args...)...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return report.Row{"period": label}, nil
	}
	return rows[0], nil
}

// ExtractCampaignDates returns the distinct (date, campaign) pairs with actual
// spend for the given campaigns. Without an explicit range it looks back 180
// days to cover delayed ingest.
func (w *Warehouse) ExtractCampaignDates(ctx context.Context, q ReportQuery) ([]report.Row, error) {
	conds, args := buildFilters(q)
	if q.StartDate != "" && q.EndDate != "" {
		conds = append(conds, "date BETWEEN ? AND ?")
		args = append(args, q.StartDate, q.EndDate)
	} else {
		lookback := time.Now().AddDate(0, 0, -180).Format("2006-01-02")
		conds = append(conds, "date >= ?")
		args = append(args, lookback)
	}
	conds = append(conds, "cost > 0")

	query := fmt.Sprintf(
		"SELECT DISTINCT date, campaign FROM unified_data WHERE %s ORDER BY date DESC, campaign",
		strings.Join(conds, " AND "),
	)
	return w.queryRows(ctx, "extract_dates", query, args...)
}
