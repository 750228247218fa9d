package charts

import (
	"fmt"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
)

// Pie renders a pie chart from label to value pairs and returns it as a
// base64-encoded PNG. Slices are drawn in descending value order when
// emphasizeLargest is set, so the dominant slice leads the chart.
func Pie(data map[string]float64, title string, emphasizeLargest bool, palette PaletteType) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("data must not be empty")
	}

	total := 0.0
	labels := make([]string, 0, len(data))
	for label, v := range data {
		if v < 0 {
			return "", fmt.Errorf("value for %q must be non-negative, got %v", label, v)
		}
		total += v
		labels = append(labels, label)
	}
	if total == 0 {
		return "", fmt.Errorf("pie chart values sum to zero")
	}

	if emphasizeLargest {
		sort.Slice(labels, func(i, j int) bool { return data[labels[i]] > data[labels[j]] })
	} else {
		sort.Strings(labels)
	}

	colors := paletteColors(palette, len(labels))
	values := make([]chart.Value, len(labels))
	for i, label := range labels {
		v := data[label]
		values[i] = chart.Value{
			Value: v,
			Label: fmt.Sprintf("%s (%.1f%%)", label, v/total*100),
			Style: chart.Style{FillColor: colors[i], StrokeColor: colors[i].WithAlpha(220)},
		}
	}

	graph := chart.PieChart{
		Title:  title,
		Width:  chartHeight,
		Height: chartHeight,
		Values: values,
	}
	return encodePNG(graph)
}
