package report

// FieldStat summarizes one metric column across a row set.
type FieldStat struct {
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// FieldStats computes per-metric totals over the rows. Missing values count
// as zero. An empty row set yields all-zero stats for every metric.
func FieldStats(rows []Row, metrics []string) map[string]FieldStat {
	stats := make(map[string]FieldStat, len(metrics))
	for _, m := range metrics {
		var stat FieldStat
		for i, row := range rows {
			v := Number(row[m])
			stat.Total += v
			if i == 0 || v < stat.Min {
				stat.Min = v
			}
			if i == 0 || v > stat.Max {
				stat.Max = v
			}
		}
		if len(rows) > 0 {
			stat.Average = stat.Total / float64(len(rows))
		}
		stats[m] = stat
	}
	return stats
}
