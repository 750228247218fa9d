// Package dispatch routes model-requested function calls to registered tool
// handlers and normalizes every possible outcome into a uniform ToolResult.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/analyza-ai/analyza/pkg/models"
	"github.com/analyza-ai/analyza/pkg/tools"
)

// Dispatcher executes tool calls against an injected registry. Dispatch is
// total: every path terminates in a well-formed ToolResult, never an error or
// a panic, so the orchestrator can always feed the outcome back to the model.
type Dispatcher struct {
	registry *tools.Registry
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *tools.Registry) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   slog.Default().With("component", "dispatcher"),
	}
}

// Dispatch validates, invokes and normalizes a single tool call. Calls within
// one assistant turn are executed strictly in request order by the caller;
// the dispatcher itself is synchronous.
func (d *Dispatcher) Dispatch(ctx context.Context, name, rawArguments string) models.ToolResult {
	def, ok := d.registry.Lookup(name)
	if !ok {
		d.logger.Warn("Requested tool not in registry", "tool", name)
		return models.NewError(fmt.Sprintf("function '%s' not found in registry", name), "")
	}

	// Malformed argument payloads are substituted with an empty mapping; the
	// call proceeds argument-less and the handler reports what is missing.
	args := map[string]any{}
	if trimmed := strings.TrimSpace(rawArguments); trimmed != "" {
		if err := json.Unmarshal([]byte(trimmed), &args); err != nil {
			d.logger.Error("Failed to parse tool arguments, proceeding with none",
				"tool", name, "error", err)
			args = map[string]any{}
		}
	}

	d.logger.Info("Routing function call", "tool", name)
	result, err := d.invoke(ctx, def, args)
	if err != nil {
		var invalid *tools.InvalidArgumentsError
		if errors.As(err, &invalid) {
			d.logger.Error("Invalid tool arguments", "tool", name, "error", err)
			return models.NewError(fmt.Sprintf("invalid arguments for function '%s'", name), invalid.Reason)
		}
		d.logger.Error("Tool execution failed", "tool", name, "error", err)
		return models.NewError(fmt.Sprintf("error executing function '%s'", name), err.Error())
	}

	return d.normalize(name, result)
}

// invoke runs the handler with panic containment. A panicking handler is a
// bug, but it must not escape the dispatch contract.
func (d *Dispatcher) invoke(ctx context.Context, def tools.Definition, args map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Tool handler panicked", "tool", def.Name, "panic", r)
			result = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return def.Handler(ctx, args)
}

// normalize shapes whatever the handler returned into a ToolResult.
func (d *Dispatcher) normalize(name string, result any) models.ToolResult {
	switch v := result.(type) {
	case nil:
		d.logger.Error("Tool returned no result", "tool", name)
		return models.NewError(fmt.Sprintf("function '%s' returned no result", name), "")

	case models.ToolResult:
		return v

	case map[string]any:
		// Pass through mappings already in canonical {type, data} shape.
		if shaped, ok := asShapedResult(v); ok {
			return shaped
		}
		return models.NewSuccess(v, "")

	default:
		return models.NewSuccess(map[string]any{"value": fmt.Sprint(v)}, "")
	}
}

// asShapedResult recognizes a handler-built mapping that already carries the
// canonical type/data pair and converts it without modification.
func asShapedResult(m map[string]any) (models.ToolResult, bool) {
	typ, ok := m["type"].(string)
	if !ok {
		return models.ToolResult{}, false
	}
	if typ != string(models.ResultSuccess) && typ != string(models.ResultError) {
		return models.ToolResult{}, false
	}
	data, ok := m["data"].(map[string]any)
	if !ok {
		return models.ToolResult{}, false
	}
	message, _ := m["message"].(string)
	return models.ToolResult{Type: models.ResultType(typ), Data: data, Message: message}, true
}
