// Package models defines the conversation data model shared by the
// orchestrator, the tool dispatcher and the delivery layer.
package models

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCallRequest is the model's request to invoke a registered tool.
// ID is the opaque correlation token issued by the provider; Arguments is the
// raw JSON payload exactly as the model produced it.
type ToolCallRequest struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Message is one turn in a conversation.
//
// Invariants maintained by the orchestrator: a tool message's ToolCallID
// matches exactly one request emitted by the immediately preceding assistant
// message, and tool messages appear in the same order as the requests.
type Message struct {
	Role       Role              `json:"role"`
	Content    string            `json:"content"`
	ToolCalls  []ToolCallRequest `json:"tool_calls,omitempty"`
	ToolCallID string            `json:"tool_call_id,omitempty"`

	// OriginalContent carries the full, unsimplified tool result for
	// downstream consumers (e.g. image delivery). Never serialized to the LLM.
	OriginalContent *ToolResult `json:"-"`
}

// Conversation is an ordered, append-only message sequence for one run.
type Conversation []Message

// LastRenderable returns the most recent tool message whose original content
// carries a large binary payload, or nil if this run produced no renderable
// artifact. This is the contract the delivery layer uses to locate images.
func (c Conversation) LastRenderable() *ToolResult {
	for i := len(c) - 1; i >= 0; i-- {
		msg := c[i]
		if msg.Role != RoleTool || msg.OriginalContent == nil {
			continue
		}
		if msg.OriginalContent.HasLargePayload() {
			return msg.OriginalContent
		}
	}
	return nil
}
