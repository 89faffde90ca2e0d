package report

import (
	"fmt"
	"strings"
)

// hierarchySeparator joins composite key components. The unit separator
// control byte cannot occur in warehouse dimension values, so composite keys
// never collide with real field contents.
const hierarchySeparator = "\x1f"

// AggregateHierarchical partitions rows by the composite value of the given
// grouping fields, aggregates each partition keyed on the last field, and tags
// every output row with one `level_<i>_<field>` entry per hierarchy level so
// consumers can roll up by any prefix of the hierarchy. Missing field values
// take the Unknown placeholder per level.
func AggregateHierarchical(rows []Row, groupByFields []string) []Row {
	if len(rows) == 0 || len(groupByFields) == 0 {
		return []Row{}
	}

	buckets := make(map[string][]Row)
	order := make([]string, 0)

	for _, row := range rows {
		parts := make([]string, len(groupByFields))
		for i, f := range groupByFields {
			parts[i] = row.Str(f)
			if parts[i] == "" {
				parts[i] = UnknownValue
			}
		}
		key := strings.Join(parts, hierarchySeparator)
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], row)
	}

	displayField := groupByFields[len(groupByFields)-1]
	result := make([]Row, 0, len(order))

	for _, key := range order {
		aggregated := Aggregate(buckets[key], displayField)
		parts := strings.Split(key, hierarchySeparator)
		for _, row := range aggregated {
			for i, f := range groupByFields {
				row[fmt.Sprintf("level_%d_%s", i, f)] = parts[i]
			}
			result = append(result, row)
		}
	}
	return result
}
