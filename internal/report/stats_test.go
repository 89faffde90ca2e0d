package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldStats(t *testing.T) {
	rows := []Row{
		{"cost": 10.0, "clicks": 5.0},
		{"cost": 30.0},
		{"cost": 20.0, "clicks": 1.0},
	}

	stats := FieldStats(rows, []string{"cost", "clicks"})

	assert.Equal(t, FieldStat{Total: 60, Average: 20, Min: 10, Max: 30}, stats["cost"])
	// missing values count as zero
	assert.Equal(t, FieldStat{Total: 6, Average: 2, Min: 0, Max: 5}, stats["clicks"])
}

func TestFieldStatsEmptyRows(t *testing.T) {
	stats := FieldStats(nil, []string{"cost"})
	assert.Equal(t, FieldStat{}, stats["cost"])
}
