package charts

import (
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
)

// Bar renders a bar chart from parallel category and value slices and returns
// it as a base64-encoded PNG.
func Bar(categories []string, values []float64, title, xLabel, yLabel string, palette PaletteType, valueType string) (string, error) {
	if len(categories) == 0 {
		return "", fmt.Errorf("categories must not be empty")
	}
	if len(categories) != len(values) {
		return "", fmt.Errorf("categories and values must have the same length, got %d and %d", len(categories), len(values))
	}
	for i, v := range values {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return "", fmt.Errorf("value at index %d must be non-negative and finite, got %v", i, v)
		}
	}

	colors := paletteColors(palette, len(values))
	bars := make([]chart.Value, len(values))
	for i := range values {
		bars[i] = chart.Value{
			Value: values[i],
			Label: categories[i],
			Style: chart.Style{FillColor: colors[i], StrokeColor: colors[i]},
		}
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: barWidth(len(bars)),
		XAxis:    chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Name:           yLabel,
			ValueFormatter: valueFormatter(valueType),
		},
		Bars: bars,
	}
	return encodePNG(graph)
}

func barWidth(n int) int {
	w := (chartWidth - 100) / (n * 2)
	if w < 10 {
		return 10
	}
	if w > 80 {
		return 80
	}
	return w
}
