package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evidenciaRows() []Row {
	return []Row{
		{"date": "2024-01-01", "campaign_name": "Alpha", "cost": 30.0, "clicks": 3.0, "impressions": 300.0},
		{"date": "2024-01-02", "campaign_name": "Alpha", "cost": 20.0, "clicks": 2.0, "impressions": 200.0},
		{"date": "2024-01-01", "campaign_name": "Beta", "cost": 90.0, "clicks": 9.0, "impressions": 900.0},
		{"date": "2024-01-01", "campaign_name": "Gamma", "cost": 10.0, "clicks": 1.0, "impressions": 100.0},
	}
}

func TestPrepareEvidenciaDefaultsSortByCostDescending(t *testing.T) {
	rows := PrepareEvidencia(evidenciaRows(), EvidenciaConfig{})

	require.Len(t, rows, 3)
	assert.Equal(t, "Beta", rows[0].Str("campaign_name"))
	assert.Equal(t, "Alpha", rows[1].Str("campaign_name"))
	assert.Equal(t, "Gamma", rows[2].Str("campaign_name"))
	assert.Equal(t, 50.0, Number(rows[1]["cost"]))
}

func TestPrepareEvidenciaTruncatesToMaxRows(t *testing.T) {
	for _, maxRows := range []int{1, 2, 3, 10} {
		rows := PrepareEvidencia(evidenciaRows(), EvidenciaConfig{MaxRows: maxRows})
		want := maxRows
		if want > 3 {
			want = 3
		}
		assert.Len(t, rows, want, "maxRows=%d", maxRows)
	}
}

func TestPrepareEvidenciaSortAscending(t *testing.T) {
	rows := PrepareEvidencia(evidenciaRows(), EvidenciaConfig{SortBy: "clicks", SortOrder: "asc"})

	require.Len(t, rows, 3)
	assert.Equal(t, "Gamma", rows[0].Str("campaign_name"))
	assert.Equal(t, "Beta", rows[2].Str("campaign_name"))
}

func TestPrepareEvidenciaProjectsSelectedFields(t *testing.T) {
	rows := PrepareEvidencia(evidenciaRows(), EvidenciaConfig{
		MaxRows:        1,
		SelectedFields: []string{"campaign_name", "cost", "adset_name"},
	})

	require.Len(t, rows, 1)
	require.Len(t, rows[0], 3)
	assert.Equal(t, "Beta", rows[0].Str("campaign_name"))
	assert.Nil(t, rows[0]["adset_name"])
}

func TestSortRowsStableOnMissingValues(t *testing.T) {
	rows := []Row{
		{"name": "a"},
		{"name": "b", "cost": 5.0},
		{"name": "c"},
	}
	sorted := SortRows(rows, "cost", "desc")

	require.Len(t, sorted, 3)
	assert.Equal(t, "b", sorted[0].Str("name"))
	// missing values sort as zero and keep their relative order
	assert.Equal(t, "a", sorted[1].Str("name"))
	assert.Equal(t, "c", sorted[2].Str("name"))
	// input untouched
	assert.Equal(t, "a", rows[0].Str("name"))
}

func TestProjectFieldsSynthesizesDateRange(t *testing.T) {
	rows := []Row{
		{"campaign_name": "Alpha", "date_start": "2024-01-01", "date_stop": "2024-01-05"},
		{"campaign_name": "Beta"},
	}
	projected := ProjectFields(rows, []string{"campaign_name", "date_range"})

	assert.Equal(t, "1 ene 2024 - 5 ene 2024", projected[0]["date_range"])
	assert.Nil(t, projected[1]["date_range"])
}
