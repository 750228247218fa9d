package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analyza-ai/analyza/pkg/models"
	"github.com/analyza-ai/analyza/pkg/tools"
)

func registryWith(t *testing.T, defs ...tools.Definition) *tools.Registry {
	t.Helper()
	registry := tools.NewRegistry()
	for _, def := range defs {
		if def.Parameters == nil {
			def.Parameters = json.RawMessage(`{"type":"object"}`)
		}
		require.NoError(t, registry.Register(def))
	}
	return registry
}

func TestDispatchUnknownFunction(t *testing.T) {
	d := NewDispatcher(registryWith(t))

	result := d.Dispatch(context.Background(), "make_coffee", `{}`)

	assert.True(t, result.IsError())
	assert.Contains(t, result.ErrorMessage(), "function 'make_coffee' not found in registry")
}

func TestDispatchMalformedArgumentsStillRuns(t *testing.T) {
	var got map[string]any
	d := NewDispatcher(registryWith(t, tools.Definition{
		Name: "echo",
		Handler: func(_ context.Context, args map[string]any) (any, error) {
			got = args
			return map[string]any{"ok": true}, nil
		},
	}))

	result := d.Dispatch(context.Background(), "echo", `{not json`)

	// parse failure substitutes empty arguments, the call proceeds
	assert.False(t, result.IsError())
	assert.Empty(t, got)
}

func TestDispatchInvalidArguments(t *testing.T) {
	d := NewDispatcher(registryWith(t, tools.Definition{
		Name: "strict_tool",
		Handler: func(_ context.Context, args map[string]any) (any, error) {
			_, err := tools.RequireString(args, "sql_query")
			return nil, err
		},
	}))

	result := d.Dispatch(context.Background(), "strict_tool", `{}`)

	require.True(t, result.IsError())
	assert.Contains(t, result.ErrorMessage(), "invalid arguments for function 'strict_tool'")
	assert.Contains(t, result.Data["details"], "sql_query")
}

func TestDispatchHandlerError(t *testing.T) {
	d := NewDispatcher(registryWith(t, tools.Definition{
		Name: "flaky",
		Handler: func(_ context.Context, _ map[string]any) (any, error) {
			return nil, errors.New("warehouse unavailable")
		},
	}))

	result := d.Dispatch(context.Background(), "flaky", `{}`)

	require.True(t, result.IsError())
	assert.Contains(t, result.ErrorMessage(), "error executing function 'flaky'")
	assert.Equal(t, "warehouse unavailable", result.Data["details"])
}

func TestDispatchHandlerPanic(t *testing.T) {
	d := NewDispatcher(registryWith(t, tools.Definition{
		Name: "bomb",
		Handler: func(_ context.Context, _ map[string]any) (any, error) {
			panic("index out of range")
		},
	}))

	result := d.Dispatch(context.Background(), "bomb", `{}`)

	require.True(t, result.IsError())
	assert.Contains(t, result.ErrorMessage(), "error executing function 'bomb'")
}

func TestDispatchNilResult(t *testing.T) {
	d := NewDispatcher(registryWith(t, tools.Definition{
		Name: "silent",
		Handler: func(_ context.Context, _ map[string]any) (any, error) {
			return nil, nil
		},
	}))

	result := d.Dispatch(context.Background(), "silent", `{}`)

	require.True(t, result.IsError())
	assert.Contains(t, result.ErrorMessage(), "function 'silent' returned no result")
}

func TestDispatchToolResultPassthrough(t *testing.T) {
	want := models.NewSuccess(map[string]any{"rows": "| a |"}, "ok")
	d := NewDispatcher(registryWith(t, tools.Definition{
		Name: "shaped",
		Handler: func(_ context.Context, _ map[string]any) (any, error) {
			return want, nil
		},
	}))

	assert.Equal(t, want, d.Dispatch(context.Background(), "shaped", `{}`))
}

func TestDispatchShapedMapPassthrough(t *testing.T) {
	d := NewDispatcher(registryWith(t, tools.Definition{
		Name: "mapper",
		Handler: func(_ context.Context, _ map[string]any) (any, error) {
			return map[string]any{
				"type": "success",
				"data": map[string]any{"resolved_name": "Infosys Limited"},
			}, nil
		},
	}))

	result := d.Dispatch(context.Background(), "mapper", `{}`)

	assert.Equal(t, models.ResultSuccess, result.Type)
	assert.Equal(t, "Infosys Limited", result.Data["resolved_name"])
}

func TestDispatchPlainMapWrapped(t *testing.T) {
	d := NewDispatcher(registryWith(t, tools.Definition{
		Name: "plain",
		Handler: func(_ context.Context, _ map[string]any) (any, error) {
			return map[string]any{"count": 3.0}, nil
		},
	}))

	result := d.Dispatch(context.Background(), "plain", `{}`)

	assert.Equal(t, models.ResultSuccess, result.Type)
	assert.Equal(t, 3.0, result.Data["count"])
}

func TestDispatchScalarWrapped(t *testing.T) {
	d := NewDispatcher(registryWith(t, tools.Definition{
		Name: "stringer",
		Handler: func(_ context.Context, _ map[string]any) (any, error) {
			return "Lists all loans.\n\n**Table Data:**\n\n| a |", nil
		},
	}))

	result := d.Dispatch(context.Background(), "stringer", `{}`)

	assert.Equal(t, models.ResultSuccess, result.Type)
	assert.Contains(t, result.Data["value"], "**Table Data:**")
}
