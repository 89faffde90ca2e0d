// Package report implements the data-shaping pipeline that turns raw
// warehouse rows into derived metrics, period and campaign aggregations,
// summary/trend/performance analytics, and the evidencia table used by exports.
package report

// Row is one record of warehouse output or an aggregation result. Rows are
// deliberately schemaless: the set of metric columns varies per platform, and
// several pipeline steps depend on the difference between a field that is
// absent and a field that is zero.
type Row map[string]any

// Clone returns a shallow copy of the row. Pipeline steps copy rows instead of
// mutating them because the same raw row set may feed several independent
// computations from a single fetch.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Has reports whether the field is present on the row, regardless of value.
func (r Row) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Str returns the field as a string, or "" when absent or not a string.
func (r Row) Str(field string) string {
	if s, ok := r[field].(string); ok {
		return s
	}
	return ""
}

// UnknownValue substitutes for missing grouping fields so that rows lacking a
// dimension still aggregate together instead of being dropped.
const UnknownValue = "Unknown"

// IdentityFields are the non-metric dimension columns of the warehouse schema.
var IdentityFields = []string{
	"date", "platform", "account", "account_name",
	"campaign", "campaign_name", "team",
	"adset_id", "adset_name", "ad_id", "ad_name",
	"status", "objective",
}

// AdditiveMetrics are summed when rows are folded into an aggregate.
var AdditiveMetrics = []string{
	"cost", "impressions", "clicks", "reach", "conversions",
	"purchases", "revenue", "link_clicks", "video_views",
	"p_video_play", "p_likes", "p_comments", "p_shares",
	"all_conversions", "conversion_value",
}

// CompletionRateMetrics are per-day percentages. Aggregation sums them and then
// divides by the number of folded-in days to get an arithmetic mean.
var CompletionRateMetrics = []string{
	"p_video_play_100", "p_video_play_75", "p_video_play_50", "p_video_play_25",
}

// CalculatedMetrics are never stored in the warehouse; they are derived from
// base metrics after fetching or after aggregation.
var CalculatedMetrics = []string{
	"ctr", "cpm", "cpc", "roas", "conversion_rate", "cost_per_conversion",
}

// AveragedMetrics are share-of-voice percentages that the warehouse query
// averages instead of summing.
var AveragedMetrics = []string{
	"impression_share", "is_lost_by_rank", "is_lost_by_budget",
	"is_top", "is_absolute_top",
}

// IsCalculated reports whether the metric is derived rather than stored.
func IsCalculated(metric string) bool {
	return contains(CalculatedMetrics, metric)
}

// IsAveraged reports whether the warehouse should AVG the metric instead of SUM.
func IsAveraged(metric string) bool {
	return contains(AveragedMetrics, metric)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
