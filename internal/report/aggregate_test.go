package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailyRows() []Row {
	return []Row{
		{"date": "2024-01-01", "campaign": "A", "campaign_name": "A", "cost": 100.0, "impressions": 1000.0, "clicks": 20.0},
		{"date": "2024-01-02", "campaign": "A", "campaign_name": "A", "cost": 50.0, "impressions": 500.0, "clicks": 5.0},
	}
}

func TestAggregateFoldsCampaignDays(t *testing.T) {
	out := Aggregate(dailyRows(), "campaign")
	require.Len(t, out, 1)

	row := out[0]
	assert.Equal(t, "A", row["campaign"])
	assert.Equal(t, 150.0, row["cost"])
	assert.Equal(t, 1500.0, row["impressions"])
	assert.Equal(t, 25.0, row["clicks"])
	assert.Equal(t, int64(2), row["days_count"])
	assert.Equal(t, "2024-01-01", row["date_start"])
	assert.Equal(t, "2024-01-02", row["date_stop"])
	assert.Equal(t, "1 ene 2024 - 2 ene 2024", row["date_range"])

	// ratios are recomputed from the aggregated totals
	assert.InDelta(t, 25.0/1500.0, row["ctr"], 1e-9)
	assert.Equal(t, 6.0, row["cpc"])
	assert.Equal(t, 100.0, row["cpm"])
}

func TestAggregateZeroDenominatorsYieldZero(t *testing.T) {
	out := Aggregate([]Row{{"date": "2024-01-01", "campaign_name": "B", "cost": 10.0}}, "campaign_name")
	require.Len(t, out, 1)

	// unlike row-level derivation, the aggregation path materializes zeros
	assert.Equal(t, 0.0, out[0]["ctr"])
	assert.Equal(t, 0.0, out[0]["cpc"])
	assert.Equal(t, 0.0, out[0]["cpm"])
	assert.Equal(t, 0.0, out[0]["roas"])
}

func TestAggregateConservesAdditiveTotals(t *testing.T) {
	rows := []Row{
		{"date": "2024-01-01", "campaign": "A", "cost": 10.0, "clicks": 1.0, "revenue": 5.0},
		{"date": "2024-01-01", "campaign": "B", "cost": 20.0, "clicks": 2.0, "revenue": 0.0},
		{"date": "2024-01-02", "campaign": "A", "cost": 30.0, "clicks": 3.0, "revenue": 15.0},
		{"date": "2024-01-02", "campaign": "", "cost": 40.0, "clicks": 4.0, "revenue": 2.5},
	}

	out := Aggregate(rows, "campaign")

	for _, metric := range []string{"cost", "clicks", "revenue"} {
		var before, after float64
		for _, r := range rows {
			before += Number(r[metric])
		}
		for _, r := range out {
			after += Number(r[metric])
		}
		assert.Equal(t, before, after, "totals of %s must be conserved", metric)
	}
}

func TestAggregateSubstitutesUnknownKey(t *testing.T) {
	out := Aggregate([]Row{{"date": "2024-01-01", "cost": 1.0}}, "campaign")
	require.Len(t, out, 1)
	assert.Equal(t, UnknownValue, out[0]["campaign"])
}

func TestAggregateIsIdempotentOnUniqueKeys(t *testing.T) {
	once := Aggregate(dailyRows(), "campaign")
	twice := Aggregate(once, "campaign")
	require.Len(t, twice, 1)

	for _, field := range []string{"cost", "impressions", "clicks", "days_count", "ctr", "cpc", "cpm", "date_start", "date_stop", "date_range"} {
		assert.Equal(t, once[0][field], twice[0][field], "field %s changed on re-aggregation", field)
	}
}

func TestAggregateAveragesCompletionBuckets(t *testing.T) {
	rows := []Row{
		{"date": "2024-01-01", "campaign": "A", "p_video_play_100": 40.0},
		{"date": "2024-01-02", "campaign": "A", "p_video_play_100": 60.0},
	}
	out := Aggregate(rows, "campaign")
	require.Len(t, out, 1)
	assert.Equal(t, 50.0, out[0]["p_video_play_100"])
}

func TestAggregateKeepsLatestStatusAndMaxBudget(t *testing.T) {
	rows := []Row{
		{"date": "2024-01-01", "campaign": "A", "status": "ACTIVE", "budget": 100.0},
		{"date": "2024-01-02", "campaign": "A", "status": "", "budget": 250.0},
		{"date": "2024-01-03", "campaign": "A", "status": "PAUSED", "budget": 80.0},
	}
	out := Aggregate(rows, "campaign")
	require.Len(t, out, 1)
	assert.Equal(t, "PAUSED", out[0]["status"])
	assert.Equal(t, 250.0, out[0]["budget"])
}

func TestAggregatePreservesFirstSeenOrder(t *testing.T) {
	rows := []Row{
		{"date": "2024-01-01", "campaign": "Z", "cost": 1.0},
		{"date": "2024-01-01", "campaign": "A", "cost": 1.0},
		{"date": "2024-01-02", "campaign": "Z", "cost": 1.0},
	}
	out := Aggregate(rows, "campaign")
	require.Len(t, out, 2)
	assert.Equal(t, "Z", out[0]["campaign"])
	assert.Equal(t, "A", out[1]["campaign"])
}

func TestAggregateEmptyInput(t *testing.T) {
	assert.Empty(t, Aggregate(nil, "campaign"))
	assert.Empty(t, Aggregate([]Row{}, "campaign"))
}
