// Package orchestrator drives the bounded tool-calling loop: repeated LLM
// round-trips with sequential tool dispatch until the model produces a final
// answer or the turn budget is exhausted.
package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/analyza-ai/analyza/pkg/dispatch"
	"github.com/analyza-ai/analyza/pkg/llm"
	"github.com/analyza-ai/analyza/pkg/models"
	"github.com/analyza-ai/analyza/pkg/tools"
)

// ClarificationMessage is the fixed fail-safe answer used when the turn
// budget runs out or the provider yields nothing usable. Raw provider
// failures are never surfaced to the end user.
const ClarificationMessage = "I'm sorry, I couldn't understand the query clearly. Could you please rephrase or provide more details about what you're looking for?"

// RecursionState tracks the round-trip budget for one run. Depth starts at 0
// and is incremented by exactly one per LLM round-trip.
type RecursionState struct {
	Depth    int
	MaxDepth int
}

// NewRecursionState returns the state for a fresh run.
func NewRecursionState(maxDepth int) RecursionState {
	return RecursionState{Depth: 0, MaxDepth: maxDepth}
}

// Exhausted reports whether the budget no longer admits another round-trip.
func (s RecursionState) Exhausted() bool {
	return s.Depth > s.MaxDepth
}

// Orchestrator owns one registry and dispatcher and executes runs against a
// provider client. A single Orchestrator serves concurrent runs for different
// conversations; each run owns its conversation value for its duration.
type Orchestrator struct {
	client     llm.Client
	registry   *tools.Registry
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
}

// New creates an orchestrator over the given provider client and tool registry.
func New(client llm.Client, registry *tools.Registry) *Orchestrator {
	return &Orchestrator{
		client:     client,
		registry:   registry,
		dispatcher: dispatch.NewDispatcher(registry),
		logger:     slog.Default().With("component", "orchestrator"),
	}
}

// Run executes one user turn. The input conversation must already carry the
// leading system message and the new user message; the returned conversation
// is the same sequence extended with the run's assistant and tool messages,
// ending in exactly one final assistant message. Run never returns an error:
// provider failures and budget exhaustion both degrade to a fixed
// clarification answer.
func (o *Orchestrator) Run(ctx context.Context, conversation models.Conversation, state RecursionState) models.Conversation {
	runID := uuid.New().String()
	logger := o.logger.With("run_id", runID)
	start := time.Now()

	defs := o.registry.Definitions()

	for {
		if state.Exhausted() {
			logger.Warn("Turn budget exhausted, answering with clarification",
				"depth", state.Depth, "max_depth", state.MaxDepth)
			return appendClarification(conversation)
		}

		reply, err := o.client.Respond(ctx, conversation, defs)
		if err != nil {
			logger.Error("LLM round-trip failed, answering with clarification",
				"depth", state.Depth, "error", err)
			return appendClarification(conversation)
		}
		if reply.Empty() {
			logger.Warn("LLM reply carried no text and no tool calls, answering with clarification",
				"depth", state.Depth)
			return appendClarification(conversation)
		}

		if len(reply.ToolCalls) == 0 {
			logger.Info("Run finished",
				"depth", state.Depth,
				"duration", time.Since(start).Round(time.Millisecond))
			return append(conversation, models.Message{
				Role:    models.RoleAssistant,
				Content: reply.Text,
			})
		}

		conversation = append(conversation, models.Message{
			Role:      models.RoleAssistant,
			Content:   reply.Text,
			ToolCalls: reply.ToolCalls,
		})

		// Strictly sequential: later calls in the same turn may depend on
		// earlier ones being recorded in history.
		for _, call := range reply.ToolCalls {
			logger.Info("Dispatching tool call",
				"depth", state.Depth, "tool", call.Name, "call_id", call.ID)
			result := o.dispatcher.Dispatch(ctx, call.Name, call.Arguments)
			simplified, original := models.Simplify(result)
			conversation = append(conversation, models.Message{
				Role:            models.RoleTool,
				Content:         simplified.Encode(),
				ToolCallID:      call.ID,
				OriginalContent: &original,
			})
		}

		state.Depth++
	}
}

func appendClarification(conversation models.Conversation) models.Conversation {
	return append(conversation, models.Message{
		Role:    models.RoleAssistant,
		Content: ClarificationMessage,
	})
}
