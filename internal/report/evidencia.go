package report

import "sort"

// EvidenciaConfig controls the evidencia table pipeline. Zero values fall back
// to grouping by campaign name and sorting by cost descending with no row
// limit.
type EvidenciaConfig struct {
	GroupBy        string   `json:"groupBy"`
	SelectedFields []string `json:"selectedFields"`
	SortBy         string   `json:"sortBy"`
	SortOrder      string   `json:"sortOrder"`
	MaxRows        int      `json:"maxRows"`
}

// PrepareEvidencia produces the canonical campaign-summary table used across
// exports: aggregate by the grouping field, sort, truncate, then project to
// the selected fields. The steps are strictly ordered; projection narrows rows
// without re-deriving anything.
func PrepareEvidencia(rawRows []Row, cfg EvidenciaConfig) []Row {
	groupBy := cfg.GroupBy
	if groupBy == "" {
		groupBy = "campaign_name"
	}
	sortBy := cfg.SortBy
	if sortBy == "" {
		sortBy = "cost"
	}
	sortOrder := cfg.SortOrder
	if sortOrder == "" {
		sortOrder = "desc"
	}

	rows := Aggregate(rawRows, groupBy)
	rows = SortRows(rows, sortBy, sortOrder)

	if cfg.MaxRows > 0 && len(rows) > cfg.MaxRows {
		rows = rows[:cfg.MaxRows]
	}
	if len(cfg.SelectedFields) > 0 {
		rows = ProjectFields(rows, cfg.SelectedFields)
	}
	return rows
}

// SortRows returns a copy of rows stably sorted by the numeric value of the
// given field. Missing or unparseable values sort as 0. Order is "asc" or
// "desc".
func SortRows(rows []Row, sortBy, order string) []Row {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		a := Number(sorted[i][sortBy])
		b := Number(sorted[j][sortBy])
		if order == "asc" {
			return a < b
		}
		return a > b
	})
	return sorted
}

// ProjectFields narrows each row to exactly the requested fields. Requested
// fields absent from the row resolve to nil, except date_range which is
// computed on demand from the row's date bounds.
func ProjectFields(rows []Row, fields []string) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		projected := make(Row, len(fields))
		for _, f := range fields {
			if v, ok := row[f]; ok {
				projected[f] = v
				continue
			}
			if f == "date_range" {
				if start, stop := row.Str("date_start"), row.Str("date_stop"); start != "" && stop != "" {
					projected[f] = FormatDate(start) + " - " + FormatDate(stop)
					continue
				}
			}
			projected[f] = nil
		}
		out[i] = projected
	}
	return out
}
