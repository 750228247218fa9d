// Package llm provides the provider-facing client used by the orchestrator
// for chat-completion round-trips with native function calling.
package llm

import (
	"context"

	"github.com/analyza-ai/analyza/pkg/models"
	"github.com/analyza-ai/analyza/pkg/tools"
)

// Reply is one provider response: optional text plus an optional ordered list
// of tool-call requests.
type Reply struct {
	Text      string
	ToolCalls []models.ToolCallRequest
}

// Empty reports whether the reply carries neither text nor tool calls.
// The orchestrator treats such replies as unusable.
func (r *Reply) Empty() bool {
	return r == nil || (r.Text == "" && len(r.ToolCalls) == 0)
}

// Client is the LLM provider capability consumed by the orchestrator.
// Implementations own transport concerns (timeouts, retries, auth); the
// orchestrator treats any returned error as a provider failure.
type Client interface {
	// Respond sends the conversation and the recognized tool schemas to the
	// provider and returns its reply.
	Respond(ctx context.Context, messages models.Conversation, defs []tools.Definition) (*Reply, error)
}
