package charts

import (
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
)

// Area renders a single filled area chart and returns it as a base64-encoded
// PNG.
func Area(points []Point, title, xLabel, yLabel string, palette PaletteType, valueType string) (string, error) {
	if len(points) < 2 {
		return "", fmt.Errorf("area charts need at least 2 points, got %d", len(points))
	}
	color := paletteColors(palette, 1)[0]
	graph := baseXYChart(title, xLabel, yLabel, valueType, labelsOf(points))
	graph.Series = []chart.Series{lineSeries("", points, color, true)}
	return encodePNG(graph)
}

// StackedArea renders cumulative filled areas, one per series, on a shared
// label axis. Series are accumulated in input order and drawn top-down so
// every band stays visible; labels missing from a series contribute zero.
func StackedArea(series []Series, title, xLabel, yLabel string, palette PaletteType, valueType string) (string, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("at least one series is required")
	}
	grid := unionLabels(series)
	if len(grid) < 2 {
		return "", fmt.Errorf("area charts need at least 2 distinct x values, got %d", len(grid))
	}

	// cumulative[i][j] is the stacked height of series 0..i at label j
	cumulative := make([][]float64, len(series))
	running := make([]float64, len(grid))
	index := labelIndex(grid)
	for i, s := range series {
		if s.Name == "" {
			return "", fmt.Errorf("series at index %d has no name", i)
		}
		for _, p := range s.Points {
			running[index[p.Label]] += p.Y
		}
		cumulative[i] = append([]float64(nil), running...)
	}

	xs := make([]float64, len(grid))
	for i := range grid {
		xs[i] = float64(i)
	}

	colors := paletteColors(palette, len(series))
	graph := baseXYChart(title, xLabel, yLabel, valueType, grid)
	for i := len(series) - 1; i >= 0; i-- {
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name:    series[i].Name,
			XValues: xs,
			YValues: cumulative[i],
			Style: chart.Style{
				StrokeColor: colors[i],
				StrokeWidth: 1.5,
				FillColor:   colors[i].WithAlpha(180),
			},
		})
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return encodePNG(graph)
}
