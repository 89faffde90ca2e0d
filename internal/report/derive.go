package report

// ratio describes one derived metric: numerator / denominator * scale. The
// derived field is set only when both operands are present on the row and the
// denominator is strictly positive; otherwise it is left absent, not zeroed.
type ratio struct {
	field string
	num   string
	den   string
	scale float64
}

var derivedRatios = []ratio{
	{field: "ctr", num: "clicks", den: "impressions", scale: 100},
	{field: "cpm", num: "cost", den: "impressions", scale: 1000},
	{field: "cpc", num: "cost", den: "clicks", scale: 1},
	{field: "roas", num: "revenue", den: "cost", scale: 1},
	{field: "conversion_rate", num: "conversions", den: "clicks", scale: 100},
	{field: "cost_per_conversion", num: "cost", den: "conversions", scale: 1},
}

// CalculateDerived returns copies of the input rows with the standard ratio
// metrics (CTR, CPM, CPC, ROAS, conversion rate, cost per conversion) added
// wherever their preconditions hold. Values are rendered as two-decimal
// strings to match downstream formatting; numeric consumers re-parse them.
// Input rows are never mutated.
func CalculateDerived(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		out[i] = DeriveRow(row)
	}
	return out
}

// DeriveRow computes the derived metrics for a single row. A base metric that
// is missing entirely counts as a failed precondition, not as zero.
func DeriveRow(row Row) Row {
	calc := row.Clone()
	for _, r := range derivedRatios {
		num, numOK := NumberOK(row[r.num])
		den, denOK := NumberOK(row[r.den])
		if !numOK || !denOK || den <= 0 {
			continue
		}
		calc[r.field] = Fixed(num / den * r.scale)
	}
	return calc
}
