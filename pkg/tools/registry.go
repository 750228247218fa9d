// Package tools provides the static tool registry and the schema definitions
// exposed to the LLM for function calling.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// Handler executes one tool call. Arguments arrive as the parsed key/value
// mapping from the model's raw JSON payload; each handler validates its own
// argument shapes and signals a mismatch with *InvalidArgumentsError.
//
// A handler may return a map (treated as the result data), any other value
// (coerced to text by the dispatcher), or nil.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Definition describes one registered tool: its callable handler plus the
// JSON-schema argument contract advertised to the LLM.
type Definition struct {
	Name        string
	Description string
	Parameters  json.RawMessage
	Handler     Handler
}

// Registry is the static name-to-tool mapping. It is populated once at
// process start and read-only thereafter, so lookups need no locking.
// Construct one per configuration and inject it into the dispatcher.
type Registry struct {
	tools map[string]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Definition)}
}

// Register adds a tool definition. Registration happens during startup only;
// duplicate names and nil handlers are configuration bugs surfaced as errors.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("tool name is empty")
	}
	if def.Handler == nil {
		return fmt.Errorf("tool %q has no handler", def.Name)
	}
	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("tool %q already registered", def.Name)
	}
	r.tools[def.Name] = def
	return nil
}

// MustRegister is Register for static startup wiring, panicking on
// configuration bugs the process could never run with.
func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Lookup fetches a tool by name. A missing name is a normal negative result,
// not an error; the dispatcher turns it into an error ToolResult.
func (r *Registry) Lookup(name string) (Definition, bool) {
	def, ok := r.tools[name]
	return def, ok
}

// Names returns all registered tool names, sorted for stable output.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns all registered definitions in name order. This is the
// schema list handed to the LLM client on each round-trip.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.tools))
	for _, name := range r.Names() {
		defs = append(defs, r.tools[name])
	}
	return defs
}
