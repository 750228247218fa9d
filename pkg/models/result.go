package models

import "encoding/json"

// ResultType tags a ToolResult as success or error.
type ResultType string

const (
	ResultSuccess ResultType = "success"
	ResultError   ResultType = "error"
)

// ToolResult is the canonical outcome of a dispatched tool call. The
// dispatcher guarantees every tool invocation terminates in this shape,
// regardless of how the underlying handler failed or what it returned.
type ToolResult struct {
	Type    ResultType     `json:"type"`
	Data    map[string]any `json:"data"`
	Message string         `json:"message,omitempty"`
}

// NewSuccess builds a success result carrying the given data mapping.
// The message is optional and purely descriptive.
func NewSuccess(data map[string]any, message string) ToolResult {
	return ToolResult{Type: ResultSuccess, Data: data, Message: message}
}

// NewError builds an error result. Details are optional and carry the
// underlying failure text when one exists.
func NewError(message, details string) ToolResult {
	data := map[string]any{"message": message}
	if details != "" {
		data["details"] = details
	}
	return ToolResult{Type: ResultError, Data: data}
}

// IsError reports whether the result is an error.
func (r ToolResult) IsError() bool {
	return r.Type == ResultError
}

// ErrorMessage returns the error message for error results, "" otherwise.
func (r ToolResult) ErrorMessage() string {
	if !r.IsError() {
		return ""
	}
	msg, _ := r.Data["message"].(string)
	return msg
}

// Encode serializes the result to a single JSON text blob, the form in which
// tool output is fed back to the LLM. Encode always returns valid JSON.
func (r ToolResult) Encode() string {
	b, err := json.Marshal(r)
	if err != nil {
		return `{"type":"error","data":{"message":"failed to encode tool result"}}`
	}
	return string(b)
}
