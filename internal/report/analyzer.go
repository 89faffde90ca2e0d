package report

import "sort"

// Summary aggregates an entire row set. Totals are plain sums; the average
// ratios are computed from the totals so they are weighted by volume rather
// than being a mean of per-row ratios.
type Summary struct {
	TotalCost        string `json:"totalCost"`
	TotalClicks      int64  `json:"totalClicks"`
	TotalImpressions int64  `json:"totalImpressions"`
	TotalConversions int64  `json:"totalConversions"`
	TotalRevenue     string `json:"totalRevenue"`
	AverageCTR       string `json:"averageCTR"`
	AverageCPC       string `json:"averageCPC"`
	AverageCPM       string `json:"averageCPM"`
	ROAS             string `json:"roas"`
}

// Summarize computes the overall totals of a row set. An empty input produces
// an all-zero summary, never an error.
func Summarize(rows []Row) Summary {
	var cost, revenue float64
	var clicks, impressions, conversions int64

	for _, row := range rows {
		cost += Number(row["cost"])
		clicks += Count(row["clicks"])
		impressions += Count(row["impressions"])
		conversions += conversionCount(row)
		revenue += Number(row["revenue"])
	}

	return Summary{
		TotalCost:        Fixed(cost),
		TotalClicks:      clicks,
		TotalImpressions: impressions,
		TotalConversions: conversions,
		TotalRevenue:     Fixed(revenue),
		AverageCTR:       fixedRatio(float64(clicks), float64(impressions), 100),
		AverageCPC:       fixedRatio(cost, float64(clicks), 1),
		AverageCPM:       fixedRatio(cost, float64(impressions), 1000),
		ROAS:             fixedRatio(revenue, cost, 1),
	}
}

// conversionCount prefers purchase counts and falls back to conversions, the
// two columns platforms use for the same concept.
func conversionCount(row Row) int64 {
	if p := Count(row["purchases"]); p != 0 {
		return p
	}
	return Count(row["conversions"])
}

// fixedRatio renders num/den*scale with two decimals, "0.00" on a zero
// denominator.
func fixedRatio(num, den, scale float64) string {
	if den <= 0 {
		return Fixed(0)
	}
	return Fixed(num / den * scale)
}

// TrendPoint is one day of the trend series.
type TrendPoint struct {
	Date        string  `json:"date"`
	Cost        float64 `json:"cost"`
	Clicks      int64   `json:"clicks"`
	Impressions int64   `json:"impressions"`
	Conversions int64   `json:"conversions"`
	CTR         string  `json:"ctr"`
}

// Trends is the per-date series ordered ascending plus the extreme days by
// cost. Ties keep the earliest date.
type Trends struct {
	Daily    []TrendPoint `json:"daily"`
	BestDay  TrendPoint   `json:"bestDay"`
	WorstDay TrendPoint   `json:"worstDay"`
}

// AnalyzeTrends groups the row set by date and sums metrics per day.
func AnalyzeTrends(rows []Row) Trends {
	type bucket struct {
		cost                           float64
		clicks, impressions, convs int64
	}
	byDate := make(map[string]*bucket)

	for _, row := range rows {
		date := DateString(row["date"])
		b, ok := byDate[date]
		if !ok {
			b = &bucket{}
			byDate[date] = b
		}
		b.cost += Number(row["cost"])
		b.clicks += Count(row["clicks"])
		b.impressions += Count(row["impressions"])
		b.convs += conversionCount(row)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	daily := make([]TrendPoint, 0, len(dates))
	for _, d := range dates {
		b := byDate[d]
		daily = append(daily, TrendPoint{
			Date:        d,
			Cost:        b.cost,
			Clicks:      b.clicks,
			Impressions: b.impressions,
			Conversions: b.convs,
			CTR:         fixedRatio(float64(b.clicks), float64(b.impressions), 100),
		})
	}

	trends := Trends{Daily: daily}
	if len(daily) == 0 {
		return trends
	}
	trends.BestDay, trends.WorstDay = daily[0], daily[0]
	for _, day := range daily[1:] {
		if day.Cost > trends.BestDay.Cost {
			trends.BestDay = day
		}
		if day.Cost < trends.WorstDay.Cost {
			trends.WorstDay = day
		}
	}
	return trends
}

// CampaignPerformance is one campaign's summed metrics with derived ratios.
type CampaignPerformance struct {
	Campaign    string  `json:"campaign"`
	Cost        float64 `json:"cost"`
	Clicks      int64   `json:"clicks"`
	Impressions int64   `json:"impressions"`
	Conversions int64   `json:"conversions"`
	Revenue     float64 `json:"revenue"`
	CTR         string  `json:"ctr"`
	CPC         string  `json:"cpc"`
	ROAS        string  `json:"roas"`
}

// Performance ranks campaigns by ROAS. An empty row set yields an empty table
// and zero-valued performers, never an error.
type Performance struct {
	ByCampaign      []CampaignPerformance `json:"byCampaign"`
	TopPerformer    CampaignPerformance   `json:"topPerformer"`
	BottomPerformer CampaignPerformance   `json:"bottomPerformer"`
}

// AnalyzePerformance groups the row set by campaign display name and derives
// per-campaign ratios from the summed metrics. Ties on ROAS keep the campaign
// seen first.
func AnalyzePerformance(rows []Row) Performance {
	type bucket struct {
		cost, revenue               float64
		clicks, impressions, convs int64
	}
	byCampaign := make(map[string]*bucket)
	order := make([]string, 0)

	for _, row := range rows {
		name := row.Str("campaign_name")
		if name == "" {
			name = row.Str("campaign")
		}
		b, ok := byCampaign[name]
		if !ok {
			b = &bucket{}
			byCampaign[name] = b
			order = append(order, name)
		}
		b.cost += Number(row["cost"])
		b.clicks += Count(row["clicks"])
		b.impressions += Count(row["impressions"])
		b.convs += conversionCount(row)
		b.revenue += Number(row["revenue"])
	}

	perf := Performance{ByCampaign: make([]CampaignPerformance, 0, len(order))}
	for _, name := range order {
		b := byCampaign[name]
		perf.ByCampaign = append(perf.ByCampaign, CampaignPerformance{
			Campaign:    name,
			Cost:        b.cost,
			Clicks:      b.clicks,
			Impressions: b.impressions,
			Conversions: b.convs,
			Revenue:     b.revenue,
			CTR:         fixedRatio(float64(b.clicks), float64(b.impressions), 100),
			CPC:         fixedRatio(b.cost, float64(b.clicks), 1),
			ROAS:        fixedRatio(b.revenue, b.cost, 1),
		})
	}
	if len(perf.ByCampaign) == 0 {
		return perf
	}

	perf.TopPerformer, perf.BottomPerformer = perf.ByCampaign[0], perf.ByCampaign[0]
	for _, c := range perf.ByCampaign[1:] {
		if Number(c.ROAS) > Number(perf.TopPerformer.ROAS) {
			perf.TopPerformer = c
		}
		if Number(c.ROAS) < Number(perf.BottomPerformer.ROAS) {
			perf.BottomPerformer = c
		}
	}
	return perf
}

// MetricChange is the delta of one metric between two periods. Percentage is 0
// when the previous value is 0; the zero guard deliberately conflates "no
// prior data" with "no change".
type MetricChange struct {
	Absolute   float64 `json:"absolute"`
	Percentage float64 `json:"percentage"`
}

// PeriodComparison holds the totals of two labeled periods and the per-metric
// changes between them.
type PeriodComparison struct {
	Current  map[string]float64      `json:"current"`
	Previous map[string]float64      `json:"previous"`
	Changes  map[string]MetricChange `json:"changes"`
}

// ComparePeriods diffs two pre-summed totals rows, one per period, across the
// requested metrics.
func ComparePeriods(current, previous Row, metrics []string) PeriodComparison {
	cmp := PeriodComparison{
		Current:  make(map[string]float64, len(metrics)),
		Previous: make(map[string]float64, len(metrics)),
		Changes:  make(map[string]MetricChange, len(metrics)),
	}
	for _, m := range metrics {
		cur := Number(current[m])
		prev := Number(previous[m])
		change := MetricChange{Absolute: cur - prev}
		if prev > 0 {
			change.Percentage = Round2((cur - prev) / prev * 100)
		}
		cmp.Current[m] = cur
		cmp.Previous[m] = prev
		cmp.Changes[m] = change
	}
	return cmp
}
