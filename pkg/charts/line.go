package charts

import (
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Point is one x/y pair. The label carries categorical or pre-formatted time
// axis values ("Jan'24", "Q1,23"); points are plotted at their slice position.
type Point struct {
	Label string
	Y     float64
}

// Series is a named sequence of points for multi-series charts.
type Series struct {
	Name   string
	Points []Point
}

// SingleLine renders one line across the given points and returns it as a
// base64-encoded PNG.
func SingleLine(points []Point, title, xLabel, yLabel string, palette PaletteType, valueType string) (string, error) {
	if len(points) < 2 {
		return "", fmt.Errorf("line charts need at least 2 points, got %d", len(points))
	}
	color := paletteColors(palette, 1)[0]
	graph := baseXYChart(title, xLabel, yLabel, valueType, labelsOf(points))
	graph.Series = []chart.Series{lineSeries("", points, color, false)}
	return encodePNG(graph)
}

// MultiLine renders one line per series on a shared label axis and returns it
// as a base64-encoded PNG. The label axis is the ordered union of every
// series' labels; a series simply skips labels it has no point for.
func MultiLine(series []Series, title, xLabel, yLabel string, palette PaletteType, valueType string) (string, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("at least one series is required")
	}
	grid := unionLabels(series)
	if len(grid) < 2 {
		return "", fmt.Errorf("line charts need at least 2 distinct x values, got %d", len(grid))
	}

	colors := paletteColors(palette, len(series))
	graph := baseXYChart(title, xLabel, yLabel, valueType, grid)
	index := labelIndex(grid)
	for i, s := range series {
		if s.Name == "" {
			return "", fmt.Errorf("series at index %d has no name", i)
		}
		xs := make([]float64, 0, len(s.Points))
		ys := make([]float64, 0, len(s.Points))
		for _, p := range s.Points {
			xs = append(xs, float64(index[p.Label]))
			ys = append(ys, p.Y)
		}
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: colors[i], StrokeWidth: 2},
		})
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return encodePNG(graph)
}

func baseXYChart(title, xLabel, yLabel, valueType string, labels []string) chart.Chart {
	ticks := make([]chart.Tick, len(labels))
	for i, label := range labels {
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}
	return chart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			Name:  xLabel,
			Ticks: ticks,
			Style: chart.Style{TextRotationDegrees: 45},
		},
		YAxis: chart.YAxis{
			Name:           yLabel,
			ValueFormatter: valueFormatter(valueType),
		},
	}
}

func lineSeries(name string, points []Point, color drawing.Color, fill bool) chart.ContinuousSeries {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(i)
		ys[i] = p.Y
	}
	style := chart.Style{StrokeColor: color, StrokeWidth: 2}
	if fill {
		style.FillColor = color.WithAlpha(110)
	}
	return chart.ContinuousSeries{Name: name, XValues: xs, YValues: ys, Style: style}
}

func labelsOf(points []Point) []string {
	labels := make([]string, len(points))
	for i, p := range points {
		labels[i] = p.Label
	}
	return labels
}

// unionLabels builds the shared x axis in first-seen order across series.
func unionLabels(series []Series) []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range series {
		for _, p := range s.Points {
			if !seen[p.Label] {
				seen[p.Label] = true
				out = append(out, p.Label)
			}
		}
	}
	return out
}

func labelIndex(labels []string) map[string]int {
	index := make(map[string]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}
	return index
}
