package report

import "sort"

// CardTrend indicates the direction of a metric between the first and second
// half of the period. Movements within ±5% count as neutral.
type CardTrend struct {
	Direction  string  `json:"direction"`
	Percentage float64 `json:"percentage"`
}

// CardValue is one formatted KPI card.
type CardValue struct {
	Value  string    `json:"value"`
	Trend  CardTrend `json:"trend"`
	Format string    `json:"format"`
}

// cardFormats maps card metrics to their display format; anything not listed
// renders as a plain number.
var cardFormats = map[string]string{
	"cost":      "currency",
	"revenue":   "currency",
	"frequency": "decimal",
}

// CardMetrics computes the formatted KPI cards for the selected metrics.
// Frequency is averaged across rows; the other metrics are summed.
func CardMetrics(rows []Row, selected []string) map[string]CardValue {
	if len(selected) == 0 {
		return map[string]CardValue{}
	}

	totals := make(map[string]float64)
	for _, row := range rows {
		totals["cost"] += Number(row["cost"])
		totals["clicks"] += float64(Count(row["clicks"]))
		totals["impressions"] += float64(Count(row["impressions"]))
		totals["conversions"] += float64(conversionCount(row))
		totals["revenue"] += Number(row["revenue"])
		totals["reach"] += float64(Count(row["reach"]))
		totals["frequency"] += Number(row["frequency"])
	}

	cards := make(map[string]CardValue, len(selected))
	for _, id := range selected {
		format, ok := cardFormats[id]
		if !ok {
			format = "number"
		}
		value := totals[id]
		switch id {
		case "purchases", "conversions":
			value = totals["conversions"]
		case "frequency":
			if len(rows) > 0 {
				value = totals["frequency"] / float64(len(rows))
			}
		}
		cards[id] = CardValue{
			Value:  FormatValue(value, format),
			Trend:  metricTrend(rows, id),
			Format: format,
		}
	}
	return cards
}

// metricTrend splits the date-sorted rows in half and compares the per-row
// mean of each half.
func metricTrend(rows []Row, metric string) CardTrend {
	if len(rows) < 2 {
		return CardTrend{Direction: "neutral"}
	}

	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return DateString(sorted[i]["date"]) < DateString(sorted[j]["date"])
	})

	half := len(sorted) / 2
	first := meanOf(sorted[:half], metric)
	second := meanOf(sorted[half:], metric)
	if first == 0 {
		return CardTrend{Direction: "neutral"}
	}

	pct := (second - first) / first * 100
	direction := "neutral"
	switch {
	case pct > 5:
		direction = "up"
	case pct < -5:
		direction = "down"
	}
	if pct < 0 {
		pct = -pct
	}
	return CardTrend{Direction: direction, Percentage: Round2(pct)}
}

func meanOf(rows []Row, metric string) float64 {
	if len(rows) == 0 {
		return 0
	}
	var sum float64
	for _, row := range rows {
		sum += Number(row[metric])
	}
	return sum / float64(len(rows))
}

// ChartPoint is one (date, value) sample of a chart series.
type ChartPoint struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// ChartSeries is one metric's time series.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color"`
}

// Chart is the visualization payload for the selected metrics.
type Chart struct {
	Type       string        `json:"type"`
	Series     []ChartSeries `json:"series"`
	Categories []string      `json:"categories"`
	Metrics    []string      `json:"metrics"`
}

var seriesColors = []string{
	"#4F46E5", "#06B6D4", "#F59E0B", "#EF4444", "#10B981", "#8B5CF6",
}

// ChartData builds the per-date series for the selected chart metrics.
func ChartData(rows []Row, metrics []string, chartType string) *Chart {
	if len(metrics) == 0 {
		return nil
	}

	byDate := make(map[string]map[string]float64)
	for _, row := range rows {
		date := DateString(row["date"])
		day, ok := byDate[date]
		if !ok {
			day = make(map[string]float64)
			byDate[date] = day
		}
		day["cost"] += Number(row["cost"])
		day["clicks"] += float64(Count(row["clicks"]))
		day["impressions"] += float64(Count(row["impressions"]))
		day["conversions"] += float64(conversionCount(row))
		day["revenue"] += Number(row["revenue"])
		day["reach"] += float64(Count(row["reach"]))
		day["frequency"] += Number(row["frequency"])
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	chart := &Chart{Type: chartType, Categories: dates, Metrics: metrics}
	for i, metric := range metrics {
		series := ChartSeries{
			Name:  MetricDisplayName(metric),
			Color: seriesColors[i%len(seriesColors)],
			Data:  make([]ChartPoint, 0, len(dates)),
		}
		for _, d := range dates {
			series.Data = append(series.Data, ChartPoint{X: d, Y: byDate[d][metric]})
		}
		chart.Series = append(chart.Series, series)
	}
	return chart
}
