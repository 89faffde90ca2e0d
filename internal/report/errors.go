package report

import "errors"

// ErrNoData is returned when report generation is asked to work over an empty
// or missing row set. Per-field anomalies are absorbed by the coercion rules;
// only a malformed top-level input aborts a report.
var ErrNoData = errors.New("no rows available for report generation")
