package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopHandler(_ context.Context, _ map[string]any) (any, error) {
	return map[string]any{"ok": true}, nil
}

func TestRegisterAndLookup(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(Definition{
		Name:       "execute_sql_query",
		Parameters: json.RawMessage(`{"type":"object"}`),
		Handler:    noopHandler,
	}))

	def, ok := registry.Lookup("execute_sql_query")
	assert.True(t, ok)
	assert.Equal(t, "execute_sql_query", def.Name)

	_, ok = registry.Lookup("missing")
	assert.False(t, ok)
}

func TestRegisterRejectsInvalid(t *testing.T) {
	registry := NewRegistry()

	assert.Error(t, registry.Register(Definition{Name: "", Handler: noopHandler}))
	assert.Error(t, registry.Register(Definition{Name: "no_handler"}))

	require.NoError(t, registry.Register(Definition{Name: "dup", Handler: noopHandler}))
	assert.Error(t, registry.Register(Definition{Name: "dup", Handler: noopHandler}))
}

func TestNamesSorted(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"zed", "alpha", "mid"} {
		require.NoError(t, registry.Register(Definition{Name: name, Handler: noopHandler}))
	}
	assert.Equal(t, []string{"alpha", "mid", "zed"}, registry.Names())
}

func TestArgumentExtractors(t *testing.T) {
	args := map[string]any{
		"title":      "Loans",
		"flag":       true,
		"categories": []any{"a", "b"},
		"values":     []any{1.0, 2.5},
		"points":     []any{map[string]any{"x": "Jan", "y": 5.0}},
	}

	s, err := RequireString(args, "title")
	require.NoError(t, err)
	assert.Equal(t, "Loans", s)

	_, err = RequireString(args, "missing")
	var invalidErr *InvalidArgumentsError
	require.ErrorAs(t, err, &invalidErr)

	b, err := RequireBool(args, "flag")
	require.NoError(t, err)
	assert.True(t, b)

	ss, err := RequireStringSlice(args, "categories")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ss)

	fs, err := RequireFloatSlice(args, "values")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5}, fs)

	objs, err := RequireObjectSlice(args, "points")
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, 5.0, objs[0]["y"])

	_, err = RequireFloatSlice(args, "categories")
	require.ErrorAs(t, err, &invalidErr)
}

func TestOptionalString(t *testing.T) {
	s, err := OptionalString(map[string]any{}, "value_type", "")
	require.NoError(t, err)
	assert.Equal(t, "", s)

	s, err = OptionalString(map[string]any{"value_type": nil}, "value_type", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", s)

	_, err = OptionalString(map[string]any{"value_type": 3.0}, "value_type", "")
	assert.Error(t, err)
}
