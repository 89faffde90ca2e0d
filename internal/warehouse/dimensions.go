package warehouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Team is one reporting team with its recent activity counts.
type Team struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	AccountCount  int      `json:"accountCount"`
	CampaignCount int      `json:"campaignCount"`
	AccountNames  []string `json:"accountNames"`
}

// Account is one ad account with recent activity and spend.
type Account struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	LastActive      string  `json:"lastActive"`
	ActiveCampaigns int     `json:"activeCampaigns"`
	TotalSpend      float64 `json:"totalSpend"`
	Status          string  `json:"status"`
}

// Campaign is one campaign with its data coverage and totals.
type Campaign struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	AccountID   string  `json:"accountId"`
	AccountName string  `json:"accountName"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	TotalCost   float64 `json:"totalCost"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	CTR         string  `json:"ctr"`
	ActiveDays  int     `json:"activeDays"`
	Status      string  `json:"status"`
}

// Adset is kept for API shape compatibility. unified_data carries no
// adset-level rows, so adset listings are always empty.
type Adset struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Cost        float64 `json:"cost"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
}

// ListTeams returns the teams active in the last 90 days with account and
// campaign counts, busiest first.
func (w *Warehouse) ListTeams(ctx context.Context) ([]Team, error) {
	if w == nil || w.DB == nil {
		return nil, ErrUnavailable
	}

	query := `SELECT
        team,
        uniqExact(account) AS account_count,
        uniqExact(campaign) AS campaign_count,
        arrayStringConcat(arraySlice(groupUniqArray(account_name), 1, 10), ',') AS account_names
    FROM unified_data
    WHERE date >= today() - 90 AND team != ''
    GROUP BY team
    ORDER BY account_count DESC`

	start := time.Now()
	rows, err := w.DB.QueryContext(ctx, query)
	if err != nil {
		w.Metrics.IncrementWarehouseQueryErrors("teams")
		return nil, fmt.Errorf("query teams: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var teams []Team
	for rows.Next() {
		var t Team
		var names string
		if err := rows.Scan(&t.ID, &t.AccountCount, &t.CampaignCount, &names); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		t.Name = t.ID
		if names != "" {
			t.AccountNames = strings.Split(names, ",")
		} else {
			t.AccountNames = []string{}
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	w.Metrics.RecordWarehouseQuery("teams", time.Since(start))
	return teams, nil
}

// ListAccounts returns the accounts active on a platform in the last 90 days,
// highest spend first. The team filter is optional.
func (w *Warehouse) ListAccounts(ctx context.Context, platform, team string) ([]Account, error) {
	if w == nil || w.DB == nil {
		return nil, ErrUnavailable
	}

	conds := []string{"lower(platform) = lower(?)", "date >= today() - 90"}
	args := []any{platform}
	if team != "" {
		conds = append(conds, "team = ?")
		args = append(args, team)
	}

	query := fmt.Sprintf(`SELECT
        account,
        MAX(account_name) AS account_name,
        MAX(date) AS last_active_date,
        uniqExact(campaign) AS active_campaigns,
        SUM(cost) AS total_spend
    FROM unified_data
    WHERE %s
    GROUP BY account
    ORDER BY total_spend DESC`, strings.Join(conds, " AND "))

	start := time.Now()
	rows, err := w.DB.QueryContext(ctx, query, args...)
	if err != nil {
		w.Metrics.IncrementWarehouseQueryErrors("accounts")
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var accounts []Account
	for rows.Next() {
		var a Account
		var lastActive time.Time
		if err := rows.Scan(&a.ID, &a.Name, &lastActive, &a.ActiveCampaigns, &a.TotalSpend); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.LastActive = lastActive.Format("2006-01-02")
		a.Status = accountStatus(lastActive)
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	w.Metrics.RecordWarehouseQuery("accounts", time.Since(start))
	return accounts, nil
}

// ListCampaigns returns campaigns for the given accounts with their data
// coverage and totals. Without an explicit range it covers the last 90 days.
func (w *Warehouse) ListCampaigns(ctx context.Context, platform string, accountIDs []string, startDate, endDate, team string) ([]Campaign, error) {
	if w == nil || w.DB == nil {
		return nil, ErrUnavailable
	}

	conds := []string{"lower(platform) = lower(?)", "account IN (?)"}
	args := []any{platform, accountIDs}
	if startDate != "" && endDate != "" {
		conds = append(conds, "date BETWEEN ? AND ?")
		args = append(args, startDate, endDate)
	} else {
		conds = append(conds, "date >= today() - 90")
	}
	if team != "" {
		conds = append(conds, "team = ?")
		args = append(args, team)
	}

	query := fmt.Sprintf(`SELECT
        campaign,
        MAX(account) AS account,
        MAX(account_name) AS account_name,
        MIN(date) AS start_date,
        MAX(date) AS end_date,
        SUM(cost) AS total_cost,
        SUM(impressions) AS impressions,
        SUM(clicks) AS clicks,
        uniqExact(date) AS active_days
    FROM unified_data
    WHERE %s
    GROUP BY campaign
    ORDER BY total_cost DESC`, strings.Join(conds, " AND "))

	start := time.Now()
	rows, err := w.DB.QueryContext(ctx, query, args...)
	if err != nil {
		w.Metrics.IncrementWarehouseQueryErrors("campaigns")
		return nil, fmt.Errorf("query campaigns: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var campaigns []Campaign
	for rows.Next() {
		var c Campaign
		var first, last time.Time
		if err := rows.Scan(&c.ID, &c.AccountID, &c.AccountName, &first, &last, &c.TotalCost, &c.Impressions, &c.Clicks, &c.ActiveDays); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		// campaign IDs double as display names in unified_data
		c.Name = c.ID
		c.StartDate = first.Format("2006-01-02")
		c.EndDate = last.Format("2006-01-02")
		if c.Impressions > 0 {
			c.CTR = fmt.Sprintf("%.2f", float64(c.Clicks)/float64(c.Impressions)*100)
		} else {
			c.CTR = "0"
		}
		c.Status = campaignStatus(last)
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	w.Metrics.RecordWarehouseQuery("campaigns", time.Since(start))
	return campaigns, nil
}

// ListAdsets always returns an empty list: unified_data has no adset rows.
// The method exists so callers get a stable contract instead of a query error.
func (w *Warehouse) ListAdsets(ctx context.Context, platform string, campaignIDs []string) ([]Adset, error) {
	if w == nil || w.DB == nil {
		return nil, ErrUnavailable
	}
	zap.L().Debug("adset listing requested, unified_data has no adset rows",
		zap.String("platform", platform), zap.Int("campaigns", len(campaignIDs)))
	return []Adset{}, nil
}

// accountStatus buckets an account by days since its last data.
func accountStatus(lastActive time.Time) string {
	days := int(time.Since(lastActive).Hours() / 24)
	switch {
	case days <= 7:
		return "active"
	case days <= 30:
		return "inactive"
	default:
		return "dormant"
	}
}

// campaignStatus buckets a campaign by days since its last data. Thresholds
// are generous because platform exports can lag by a week.
func campaignStatus(lastData time.Time) string {
	days := int(time.Since(lastData).Hours() / 24)
	switch {
	case days <= 14:
		return "active"
	case days <= 60:
		return "paused"
	default:
		return "completed"
	}
}
