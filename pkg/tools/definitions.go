package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/analyza-ai/analyza/pkg/charts"
	"github.com/analyza-ai/analyza/pkg/models"
)

// SQLRunner is the warehouse capability the query tools dispatch to.
type SQLRunner interface {
	ExecuteSQL(ctx context.Context, sqlQuery, explanation string) (string, error)
	ResolveName(ctx context.Context, userInput, column, table string) (string, error)
}

// NewBuiltinRegistry registers the full analyst toolset: SQL execution, fuzzy
// name resolution and the six chart generators. sqlGuide carries the
// warehouse schema guidance appended to the SQL tool description.
func NewBuiltinRegistry(runner SQLRunner, sqlGuide string) (*Registry, error) {
	registry := NewRegistry()
	defs := []Definition{
		sqlQueryDefinition(runner, sqlGuide),
		resolveNameDefinition(runner),
		barChartDefinition(),
		pieChartDefinition(),
		singleLineDefinition(),
		multiLineDefinition(),
		singleAreaDefinition(),
		stackedAreaDefinition(),
	}
	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

const paletteTypeDescription = "The color palette family: CATEGORICAL for unrelated categories, SEQUENTIAL for ordered magnitudes, DIVERGING for values around a midpoint."

const valueTypeDescription = "Data format for the values. Either a currency symbol like $ or ₱, or % if the value is a percent, or null if it is a plain unit."

func sqlQueryDefinition(runner SQLRunner, sqlGuide string) Definition {
	return Definition{
		Name:        "execute_sql_query",
		Description: "Executes a SQL query on the analytics warehouse and provides an explanation of what the query does. " + sqlGuide,
		Parameters: json.RawMessage(`{
			"type": "object",
			"strict": true,
			"required": ["sql_query", "explanation"],
			"additionalProperties": false,
			"properties": {
				"sql_query": {"type": "string", "description": "The SQL query to be executed on the analytics warehouse"},
				"explanation": {"type": "string", "description": "A short explanation of what the SQL query is intended to do"}
			}
		}`),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			sqlQuery, err := RequireString(args, "sql_query")
			if err != nil {
				return nil, err
			}
			explanation, err := RequireString(args, "explanation")
			if err != nil {
				return nil, err
			}
			return runner.ExecuteSQL(ctx, sqlQuery, explanation)
		},
	}
}

func resolveNameDefinition(runner SQLRunner) Definition {
	return Definition{
		Name:        "resolve_name",
		Description: "Resolves a fuzzy user-entered string into a known value from the database for a specific column.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"required": ["user_input", "column", "table"],
			"additionalProperties": false,
			"properties": {
				"user_input": {"type": "string", "description": "The fuzzy or partial user input to match"},
				"column": {"type": "string", "description": "The column in which it will be found"},
				"table": {"type": "string", "description": "The table where to search the column"}
			}
		}`),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			userInput, err := RequireString(args, "user_input")
			if err != nil {
				return nil, err
			}
			column, err := RequireString(args, "column")
			if err != nil {
				return nil, err
			}
			table, err := RequireString(args, "table")
			if err != nil {
				return nil, err
			}
			match, err := runner.ResolveName(ctx, userInput, column, table)
			if err != nil {
				return nil, err
			}
			if match == "" {
				// nil maps to a "returned no result" error result, which tells
				// the model nothing resembled the input
				return nil, nil
			}
			return map[string]any{"resolved_name": match}, nil
		},
	}
}

func barChartDefinition() Definition {
	return Definition{
		Name: "create_bar_chart",
		Description: "Generates a professionally styled bar chart from provided categorical data and returns it as a base64-encoded image string. " +
			"You MUST always provide both 'categories' and 'values' with actual data. All numeric values must be non-negative and finite. " +
			"If the X-axis categories represent time periods they MUST be pre-formatted: months as 'Jan'24', quarters as 'Q1,23', years as '2023'. Do NOT send raw formats like '2024-01' or 'Q1-2024'.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"strict": true,
			"required": ["categories", "values", "title", "x_label", "y_label", "palette_type", "value_type"],
			"additionalProperties": false,
			"properties": {
				"categories": {
					"type": "array",
					"description": "The X-axis category labels, one per bar, pre-formatted for display.",
					"items": {"type": "string"},
					"minItems": 1
				},
				"values": {
					"type": "array",
					"description": "The numeric Y-axis value for each category. Must have the same length as categories.",
					"items": {"type": "number", "minimum": 0},
					"minItems": 1,
					"examples": [[150000, 200000], [100, 150, 120, 180]]
				},
				"title": {"type": "string", "description": "The chart title."},
				"x_label": {"type": "string", "description": "The X-axis label."},
				"y_label": {"type": "string", "description": "The Y-axis label."},
				"palette_type": {"type": "string", "enum": ["CATEGORICAL", "SEQUENTIAL", "DIVERGING"], "description": "` + paletteTypeDescription + `"},
				"value_type": {"type": "string", "enum": ["₱", "$", "%", null], "description": "` + valueTypeDescription + `"}
			}
		}`),
		Handler: func(_ context.Context, args map[string]any) (any, error) {
			categories, err := RequireStringSlice(args, "categories")
			if err != nil {
				return nil, err
			}
			values, err := RequireFloatSlice(args, "values")
			if err != nil {
				return nil, err
			}
			title, xLabel, yLabel, palette, valueType, err := commonChartArgs(args)
			if err != nil {
				return nil, err
			}
			image, err := charts.Bar(categories, values, title, xLabel, yLabel, palette, valueType)
			if err != nil {
				return nil, err
			}
			return chartSuccess("bar_chart", title, image, "Bar chart"), nil
		},
	}
}

func pieChartDefinition() Definition {
	return Definition{
		Name: "create_pie_chart",
		Description: "Creates a styled pie chart visualization from a list of labeled slices and returns it as a base64-encoded image. " +
			"Shows proportional data with optional emphasis of the largest slice.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"strict": true,
			"required": ["data_dict", "title", "explode_largest", "palette_type"],
			"additionalProperties": false,
			"properties": {
				"data_dict": {
					"type": "array",
					"description": "The pie slices. Example: [{\"label\": \"Marketing\", \"value\": 30.5}, {\"label\": \"Sales\", \"value\": 25.3}]",
					"items": {
						"type": "object",
						"required": ["label", "value"],
						"properties": {
							"label": {"type": "string", "description": "The label for the pie slice."},
							"value": {"type": "number", "minimum": 0, "description": "The value for the pie slice."}
						}
					},
					"minItems": 1
				},
				"title": {"type": "string", "description": "The chart title."},
				"explode_largest": {"type": "boolean", "description": "Whether to emphasize the largest slice."},
				"palette_type": {"type": "string", "enum": ["CATEGORICAL", "SEQUENTIAL", "DIVERGING"], "description": "` + paletteTypeDescription + `"}
			}
		}`),
		Handler: func(_ context.Context, args map[string]any) (any, error) {
			slices, err := RequireObjectSlice(args, "data_dict")
			if err != nil {
				return nil, err
			}
			data := make(map[string]float64, len(slices))
			for i, slice := range slices {
				label, ok := slice["label"].(string)
				if !ok {
					return nil, ErrInvalidArguments("data_dict[%d] must carry a string \"label\"", i)
				}
				value, ok := slice["value"].(float64)
				if !ok {
					return nil, ErrInvalidArguments("data_dict[%d] must carry a numeric \"value\"", i)
				}
				data[label] = value
			}
			title, err := RequireString(args, "title")
			if err != nil {
				return nil, err
			}
			explodeLargest, err := RequireBool(args, "explode_largest")
			if err != nil {
				return nil, err
			}
			palette, err := paletteArg(args)
			if err != nil {
				return nil, err
			}
			image, err := charts.Pie(data, title, explodeLargest, palette)
			if err != nil {
				return nil, err
			}
			return chartSuccess("pie_chart", title, image, "Pie chart"), nil
		},
	}
}

func singleLineDefinition() Definition {
	return Definition{
		Name: "create_single_line_graph",
		Description: "Creates a single line graph from a list of x/y points and returns it as a base64-encoded image. " +
			"Time-based x values MUST be pre-formatted labels, e.g. 'Jan'24' or 'Q1,23'.",
		Parameters:  pointSeriesSchema(`The ordered data points of the line. Example: [{\"x\": \"Jan'24\", \"y\": 120}, {\"x\": \"Feb'24\", \"y\": 145}]`),
		Handler: func(_ context.Context, args map[string]any) (any, error) {
			objs, err := RequireObjectSlice(args, "data_dict")
			if err != nil {
				return nil, err
			}
			points, err := parsePoints(objs, "data_dict")
			if err != nil {
				return nil, err
			}
			title, xLabel, yLabel, palette, valueType, err := commonChartArgs(args)
			if err != nil {
				return nil, err
			}
			image, err := charts.SingleLine(points, title, xLabel, yLabel, palette, valueType)
			if err != nil {
				return nil, err
			}
			return chartSuccess("single_line_graph", title, image, "Single line graph"), nil
		},
	}
}

func multiLineDefinition() Definition {
	return Definition{
		Name: "create_multiple_line_graph",
		Description: "Creates a multiple line graph, one line per named series, and returns it as a base64-encoded image. " +
			"Each series carries a name and its own list of x/y points.",
		Parameters:  namedSeriesSchema("data", `The series to plot. Example: [{\"name\": \"2023\", \"data\": [{\"x\": \"Jan\", \"y\": 10}]}]`),
		Handler: func(_ context.Context, args map[string]any) (any, error) {
			series, err := parseSeries(args, "data")
			if err != nil {
				return nil, err
			}
			title, xLabel, yLabel, palette, valueType, err := commonChartArgs(args)
			if err != nil {
				return nil, err
			}
			image, err := charts.MultiLine(series, title, xLabel, yLabel, palette, valueType)
			if err != nil {
				return nil, err
			}
			return chartSuccess("multiple_line_graph", title, image, "Multiple line graph"), nil
		},
	}
}

func singleAreaDefinition() Definition {
	return Definition{
		Name:        "create_single_area_chart",
		Description: "Creates a single filled area chart from a list of x/y points and returns it as a base64-encoded image.",
		Parameters:  pointSeriesSchema("The ordered data points of the area outline."),
		Handler: func(_ context.Context, args map[string]any) (any, error) {
			objs, err := RequireObjectSlice(args, "data_dict")
			if err != nil {
				return nil, err
			}
			points, err := parsePoints(objs, "data_dict")
			if err != nil {
				return nil, err
			}
			title, xLabel, yLabel, palette, valueType, err := commonChartArgs(args)
			if err != nil {
				return nil, err
			}
			image, err := charts.Area(points, title, xLabel, yLabel, palette, valueType)
			if err != nil {
				return nil, err
			}
			return chartSuccess("single_area_chart", title, image, "Single area chart"), nil
		},
	}
}

func stackedAreaDefinition() Definition {
	return Definition{
		Name: "create_stacked_area_chart",
		Description: "Creates a stacked area chart, one cumulative band per named series, and returns it as a base64-encoded image. " +
			"Each series carries a name and its list of x/y points.",
		Parameters:  namedSeriesSchema("points", `The series to stack, bottom first. Example: [{\"name\": \"Retail\", \"points\": [{\"x\": \"Jan\", \"y\": 5}]}]`),
		Handler: func(_ context.Context, args map[string]any) (any, error) {
			series, err := parseSeries(args, "points")
			if err != nil {
				return nil, err
			}
			title, xLabel, yLabel, palette, valueType, err := commonChartArgs(args)
			if err != nil {
				return nil, err
			}
			image, err := charts.StackedArea(series, title, xLabel, yLabel, palette, valueType)
			if err != nil {
				return nil, err
			}
			return chartSuccess("stacked_area_chart", title, image, "Stacked area chart"), nil
		},
	}
}

// pointSeriesSchema is the shared parameter schema for single-series x/y
// chart tools.
func pointSeriesSchema(dataDescription string) json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"strict": true,
		"required": ["data_dict", "title", "x_label", "y_label", "palette_type", "value_type"],
		"additionalProperties": false,
		"properties": {
			"data_dict": {
				"type": "array",
				"description": "` + dataDescription + `",
				"items": {
					"type": "object",
					"required": ["x", "y"],
					"properties": {
						"x": {"type": "string", "description": "The x value, pre-formatted for display."},
						"y": {"type": "number", "description": "The numeric y value."}
					}
				},
				"minItems": 2
			},
			"title": {"type": "string", "description": "The chart title."},
			"x_label": {"type": "string", "description": "The X-axis label."},
			"y_label": {"type": "string", "description": "The Y-axis label."},
			"palette_type": {"type": "string", "enum": ["CATEGORICAL", "SEQUENTIAL", "DIVERGING"], "description": "` + paletteTypeDescription + `"},
			"value_type": {"type": "string", "enum": ["₱", "$", "%", null], "description": "` + valueTypeDescription + `"}
		}
	}`)
}

// namedSeriesSchema is the shared parameter schema for multi-series chart
// tools. pointsKey names the per-series point list.
func namedSeriesSchema(pointsKey, dataDescription string) json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"strict": true,
		"required": ["data_dict", "title", "x_label", "y_label", "palette_type", "value_type"],
		"additionalProperties": false,
		"properties": {
			"data_dict": {
				"type": "array",
				"description": "` + dataDescription + `",
				"items": {
					"type": "object",
					"required": ["name", "` + pointsKey + `"],
					"properties": {
						"name": {"type": "string", "description": "The name of the data series."},
						"` + pointsKey + `": {
							"type": "array",
							"items": {
								"type": "object",
								"required": ["x", "y"],
								"properties": {
									"x": {"type": "string", "description": "The x value, pre-formatted for display."},
									"y": {"type": "number", "description": "The numeric y value."}
								}
							},
							"minItems": 1
						}
					}
				},
				"minItems": 1
			},
			"title": {"type": "string", "description": "The chart title."},
			"x_label": {"type": "string", "description": "The X-axis label."},
			"y_label": {"type": "string", "description": "The Y-axis label."},
			"palette_type": {"type": "string", "enum": ["CATEGORICAL", "SEQUENTIAL", "DIVERGING"], "description": "` + paletteTypeDescription + `"},
			"value_type": {"type": "string", "enum": ["₱", "$", "%", null], "description": "` + valueTypeDescription + `"}
		}
	}`)
}

func commonChartArgs(args map[string]any) (title, xLabel, yLabel string, palette charts.PaletteType, valueType string, err error) {
	if title, err = RequireString(args, "title"); err != nil {
		return
	}
	if xLabel, err = RequireString(args, "x_label"); err != nil {
		return
	}
	if yLabel, err = RequireString(args, "y_label"); err != nil {
		return
	}
	if palette, err = paletteArg(args); err != nil {
		return
	}
	valueType, err = OptionalString(args, "value_type", "")
	return
}

func paletteArg(args map[string]any) (charts.PaletteType, error) {
	s, err := RequireString(args, "palette_type")
	if err != nil {
		return "", err
	}
	return charts.PaletteType(s), nil
}

func parsePoints(objs []map[string]any, key string) ([]charts.Point, error) {
	points := make([]charts.Point, 0, len(objs))
	for i, obj := range objs {
		x, ok := obj["x"]
		if !ok {
			return nil, ErrInvalidArguments("%s[%d] is missing \"x\"", key, i)
		}
		y, ok := obj["y"].(float64)
		if !ok {
			return nil, ErrInvalidArguments("%s[%d] must carry a numeric \"y\"", key, i)
		}
		points = append(points, charts.Point{Label: labelString(x), Y: y})
	}
	return points, nil
}

func parseSeries(args map[string]any, pointsKey string) ([]charts.Series, error) {
	objs, err := RequireObjectSlice(args, "data_dict")
	if err != nil {
		return nil, err
	}
	series := make([]charts.Series, 0, len(objs))
	for i, obj := range objs {
		name, ok := obj["name"].(string)
		if !ok || name == "" {
			return nil, ErrInvalidArguments("data_dict[%d] must carry a non-empty string \"name\"", i)
		}
		rawPoints, ok := obj[pointsKey].([]any)
		if !ok {
			return nil, ErrInvalidArguments("data_dict[%d] must carry an array %q", i, pointsKey)
		}
		pointObjs := make([]map[string]any, 0, len(rawPoints))
		for j, rp := range rawPoints {
			po, ok := rp.(map[string]any)
			if !ok {
				return nil, ErrInvalidArguments("data_dict[%d].%s[%d] must be an object", i, pointsKey, j)
			}
			pointObjs = append(pointObjs, po)
		}
		points, err := parsePoints(pointObjs, fmt.Sprintf("data_dict[%d].%s", i, pointsKey))
		if err != nil {
			return nil, err
		}
		series = append(series, charts.Series{Name: name, Points: points})
	}
	return series, nil
}

// labelString renders an x value as an axis label. Whole numbers drop the
// trailing decimals JSON decoding introduces.
func labelString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if f, ok := v.(float64); ok && f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return fmt.Sprint(v)
}

func chartSuccess(chartType, title, image, kind string) models.ToolResult {
	return models.NewSuccess(map[string]any{
		"chart_type": chartType,
		"title":      title,
		"image":      image,
	}, fmt.Sprintf("%s '%s' created successfully", kind, title))
}
