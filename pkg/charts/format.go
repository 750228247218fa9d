package charts

import (
	"fmt"
	"math"
	"strings"
)

// FormatValue renders an axis or data label according to the value type the
// model selected: a currency symbol prefix with compact K/M/B suffixes, a
// percent suffix, or a plain compact count.
func FormatValue(value float64, valueType string) string {
	switch vt := strings.TrimSpace(valueType); vt {
	case "%":
		return fmt.Sprintf("%.1f%%", value)
	case "":
		return compactNumber(value, "")
	default:
		return compactNumber(value, vt)
	}
}

func compactNumber(value float64, prefix string) string {
	abs := math.Abs(value)
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%s%.1fB", prefix, value/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%s%.1fM", prefix, value/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%s%.1fK", prefix, value/1_000)
	case prefix == "":
		if value == math.Trunc(value) {
			return fmt.Sprintf("%d", int64(value))
		}
		return fmt.Sprintf("%.1f", value)
	default:
		return fmt.Sprintf("%s%.1f", prefix, value)
	}
}

func valueFormatter(valueType string) func(v any) string {
	return func(v any) string {
		f, ok := v.(float64)
		if !ok {
			return fmt.Sprint(v)
		}
		return FormatValue(f, valueType)
	}
}
