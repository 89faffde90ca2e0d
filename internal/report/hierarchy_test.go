package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateHierarchicalTagsLevels(t *testing.T) {
	rows := []Row{
		{"date": "2024-01-01", "account_name": "Acme", "campaign_name": "Brand", "cost": 10.0},
		{"date": "2024-01-02", "account_name": "Acme", "campaign_name": "Brand", "cost": 20.0},
		{"date": "2024-01-01", "account_name": "Acme", "campaign_name": "Promo", "cost": 5.0},
		{"date": "2024-01-01", "account_name": "Globex", "campaign_name": "Brand", "cost": 7.0},
	}

	out := AggregateHierarchical(rows, []string{"account_name", "campaign_name"})
	require.Len(t, out, 3)

	assert.Equal(t, "Acme", out[0]["level_0_account_name"])
	assert.Equal(t, "Brand", out[0]["level_1_campaign_name"])
	assert.Equal(t, 30.0, out[0]["cost"])
	assert.Equal(t, int64(2), out[0]["days_count"])

	// same campaign name under another account stays a separate group
	assert.Equal(t, "Globex", out[2]["level_0_account_name"])
	assert.Equal(t, "Brand", out[2]["level_1_campaign_name"])
	assert.Equal(t, 7.0, out[2]["cost"])
}

func TestAggregateHierarchicalUnknownLevels(t *testing.T) {
	rows := []Row{{"date": "2024-01-01", "campaign_name": "Brand", "cost": 1.0}}
	out := AggregateHierarchical(rows, []string{"account_name", "campaign_name"})
	require.Len(t, out, 1)
	assert.Equal(t, UnknownValue, out[0]["level_0_account_name"])
}

func TestAggregateHierarchicalEmptyInputs(t *testing.T) {
	assert.Empty(t, AggregateHierarchical(nil, []string{"campaign_name"}))
	assert.Empty(t, AggregateHierarchical([]Row{{"cost": 1.0}}, nil))
}
