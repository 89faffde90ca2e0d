package report

// Aggregate folds the per-day input rows into one row per distinct value of
// groupBy, summing additive metrics, averaging completion-rate buckets over
// the days folded in, and tracking the covered date range. Derived ratios are
// recomputed from the aggregated totals; on this path a zero denominator
// yields a numeric 0 rather than an absent field, which is what the
// presentation layer expects of aggregated rows. Output preserves the
// insertion order of first-seen group keys.
func Aggregate(rows []Row, groupBy string) []Row {
	if len(rows) == 0 {
		return []Row{}
	}
	if groupBy == "" {
		groupBy = "campaign_name"
	}

	grouped := make(map[string]Row)
	order := make([]string, 0)

	for _, row := range rows {
		key := row.Str(groupBy)
		if key == "" {
			key = UnknownValue
		}

		acc, ok := grouped[key]
		if !ok {
			acc = newAccumulator(row, groupBy, key)
			grouped[key] = acc
			order = append(order, key)
		}

		for _, m := range AdditiveMetrics {
			if v, present := NumberOK(row[m]); present {
				acc[m] = Number(acc[m]) + v
			}
		}
		// Completion-rate buckets accumulate day-weighted so that folding an
		// already-aggregated row preserves its mean. Raw daily rows weigh 1.
		for _, m := range CompletionRateMetrics {
			if v, present := NumberOK(row[m]); present {
				acc[m] = Number(acc[m]) + v*float64(rowDays(row))
			}
		}

		// Identity fields reflect whichever row most recently carried a value.
		for _, f := range IdentityFields {
			if f == "date" || f == "status" {
				continue
			}
			if v := row.Str(f); v != "" {
				acc[f] = v
			}
		}

		if date := DateString(row["date"]); date != "" {
			extendDateRange(acc, date)
		} else if ds := DateString(row["date_start"]); ds != "" {
			extendDateRange(acc, ds)
			if de := DateString(row["date_stop"]); de != "" {
				extendDateRange(acc, de)
			}
		}

		acc["days_count"] = Count(acc["days_count"]) + rowDays(row)

		if st := row.Str("status"); st != "" {
			acc["status"] = st
		}
		if b, present := NumberOK(row["budget"]); present {
			if b > Number(acc["budget"]) {
				acc["budget"] = b
			}
		}
	}

	out := make([]Row, 0, len(order))
	for _, key := range order {
		out = append(out, finalizeGroup(grouped[key]))
	}
	return out
}

// newAccumulator seeds a group row with the grouping key, the identity fields
// of the first member, and zeroed metrics.
func newAccumulator(row Row, groupBy, key string) Row {
	acc := Row{groupBy: key}
	for _, f := range IdentityFields {
		if f == "date" {
			continue
		}
		acc[f] = row.Str(f)
	}
	for _, m := range AdditiveMetrics {
		acc[m] = float64(0)
	}
	for _, m := range CompletionRateMetrics {
		acc[m] = float64(0)
	}
	acc["days_count"] = int64(0)
	return acc
}

// rowDays reports how many daily rows a row represents: 1 for raw warehouse
// rows, its days_count when the row is itself an aggregation result. This
// keeps re-aggregation of already-unique groups a no-op.
func rowDays(row Row) int64 {
	if d := Count(row["days_count"]); d > 0 {
		return d
	}
	return 1
}

func extendDateRange(acc Row, date string) {
	if start := acc.Str("date_start"); start == "" || date < start {
		acc["date_start"] = date
	}
	if stop := acc.Str("date_stop"); stop == "" || date > stop {
		acc["date_stop"] = date
	}
}

// finalizeGroup recomputes ratios from the aggregated totals and produces the
// display date range. Zero denominators produce numeric zeros on this path.
func finalizeGroup(acc Row) Row {
	cost := Number(acc["cost"])
	impressions := Number(acc["impressions"])
	clicks := Number(acc["clicks"])
	reach := Number(acc["reach"])
	conversions := Number(acc["conversions"])
	revenue := Number(acc["revenue"])
	days := Count(acc["days_count"])

	acc["ctr"] = safeDivide(clicks, impressions)
	acc["cpc"] = safeDivide(cost, clicks)
	acc["cpm"] = safeDivide(cost, impressions) * 1000
	acc["roas"] = safeDivide(revenue, cost)
	acc["frequency"] = safeDivide(impressions, reach)
	acc["conversion_rate"] = safeDivide(conversions, clicks)

	if days > 0 {
		for _, m := range CompletionRateMetrics {
			acc[m] = Number(acc[m]) / float64(days)
		}
	}

	// TikTok surfaces its own ROAS column; present only when revenue exists.
	if cost > 0 && revenue != 0 {
		acc["p_complete_payment_roas"] = revenue / cost
	}

	if start, stop := acc.Str("date_start"), acc.Str("date_stop"); start != "" && stop != "" {
		acc["date_range"] = FormatDate(start) + " - " + FormatDate(stop)
	}
	return acc
}

func safeDivide(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}
