package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Number coerces a warehouse value to a float64. Strings are parsed, numeric
// types are widened, and anything unparseable (nil, NaN, structs, "") becomes 0
// so a single malformed value never poisons a whole aggregation.
func Number(v any) float64 {
	f, _ := NumberOK(v)
	return f
}

// NumberOK coerces v to a float64 and reports whether the value was actually
// numeric. Derivation preconditions use the second return to distinguish a
// missing metric from a zero one.
func NumberOK(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Count coerces v to an integer count, truncating fractions.
func Count(v any) int64 {
	return int64(Number(v))
}

// DateString normalizes the warehouse's date representations to "YYYY-MM-DD".
// BigQuery-style clients wrap dates as {value: "YYYY-MM-DD"}; drivers may also
// hand back time.Time. Unparseable values yield "".
func DateString(v any) string {
	switch d := v.(type) {
	case string:
		return d
	case time.Time:
		return d.Format("2006-01-02")
	case map[string]any:
		if inner, ok := d["value"]; ok {
			return DateString(inner)
		}
		return ""
	case map[string]string:
		return d["value"]
	default:
		return ""
	}
}

// Round2 rounds to two decimal places, matching the fixed-point strings the
// presentation layer expects.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Fixed renders a value with exactly two decimal places.
func Fixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// spanish month abbreviations for display date ranges
var monthAbbr = [12]string{
	"ene", "feb", "mar", "abr", "may", "jun",
	"jul", "ago", "sep", "oct", "nov", "dic",
}

// FormatDate renders a canonical date for display, e.g. "2024-01-05" becomes
// "5 ene 2024". Values that do not parse are returned unchanged.
func FormatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d %s %d", t.Day(), monthAbbr[t.Month()-1], t.Year())
}

// FormatValue renders a metric value for display according to its catalog
// format. Nil values render as "-".
func FormatValue(v any, format string) string {
	if v == nil {
		return "-"
	}
	n := Number(v)
	switch format {
	case "currency":
		return "$" + groupDigits(Fixed(n))
	case "percentage":
		return Fixed(n) + "%"
	case "decimal":
		return Fixed(n)
	case "number":
		return groupDigits(strconv.FormatFloat(math.Round(n), 'f', 0, 64))
	default:
		return fmt.Sprintf("%v", v)
	}
}

// groupDigits inserts thousands separators into the integer part of a
// formatted number.
func groupDigits(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) > 3 {
		var b strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}
	out := intPart + frac
	if neg {
		out = "-" + out
	}
	return out
}
