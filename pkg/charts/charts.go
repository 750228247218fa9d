// Package charts renders analyst visualizations as base64-encoded PNG images
// sized for chat delivery.
package charts

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// PaletteType selects the color family for a chart.
type PaletteType string

const (
	PaletteCategorical PaletteType = "CATEGORICAL"
	PaletteSequential  PaletteType = "SEQUENTIAL"
	PaletteDiverging   PaletteType = "DIVERGING"
)

const (
	chartWidth  = 1024
	chartHeight = 640
)

var (
	categoricalColors = hexColors("66c2a5", "fc8d62", "8da0cb", "e78ac3", "a6d854", "ffd92f", "e5c494", "b3b3b3")
	sequentialColors  = hexColors("c6dbef", "9ecae1", "6baed6", "4292c6", "2171b5", "08519c", "08306b")
	divergingColors   = hexColors("3b4cc0", "6788ee", "9abbff", "c9d7f0", "edd1c2", "f7a889", "e26952", "b40426")
)

func hexColors(hexes ...string) []drawing.Color {
	colors := make([]drawing.Color, len(hexes))
	for i, h := range hexes {
		colors[i] = drawing.ColorFromHex(h)
	}
	return colors
}

// paletteColors returns n colors from the requested palette, cycling when the
// palette is shorter than n. Unknown palette types fall back to categorical.
func paletteColors(palette PaletteType, n int) []drawing.Color {
	var base []drawing.Color
	switch PaletteType(strings.ToUpper(string(palette))) {
	case PaletteSequential:
		base = sequentialColors
	case PaletteDiverging:
		base = divergingColors
	default:
		base = categoricalColors
	}
	colors := make([]drawing.Color, n)
	for i := 0; i < n; i++ {
		colors[i] = base[i%len(base)]
	}
	return colors
}

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// encodePNG renders the chart and base64-encodes the PNG bytes.
func encodePNG(c renderable) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return "", fmt.Errorf("failed to render chart: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
