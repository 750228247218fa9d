package models

// largePayloadKeys lists data keys whose values are too large to re-feed into
// the LLM context (base64 images today). Tools producing a new payload class
// add its key here rather than teaching the splitter per-tool knowledge.
var largePayloadKeys = []string{"image"}

// PayloadSentinel replaces a stripped payload in the simplified projection.
const PayloadSentinel = "generated successfully"

// HasLargePayload reports whether a success result's data carries a
// recognized large-payload key with a non-empty value.
func (r ToolResult) HasLargePayload() bool {
	if r.Type != ResultSuccess || r.Data == nil {
		return false
	}
	for _, key := range largePayloadKeys {
		if v, ok := r.Data[key].(string); ok && v != "" {
			return true
		}
	}
	return false
}

// Simplify splits a tool result into the two projections its audiences need:
// simplified is safe to re-inject into LLM context (large payloads replaced by
// a sentinel, descriptive metadata kept), original is the untouched result for
// downstream consumers. Results without a large payload pass through with
// simplified == original.
func Simplify(result ToolResult) (simplified, original ToolResult) {
	if !result.HasLargePayload() {
		return result, result
	}

	data := map[string]any{
		"chart_type": stringOr(result.Data, "chart_type", "chart"),
		"title":      stringOr(result.Data, "title", "Chart"),
	}
	for _, key := range largePayloadKeys {
		if _, ok := result.Data[key]; ok {
			data[key] = PayloadSentinel
		}
	}

	return ToolResult{Type: ResultSuccess, Data: data}, result
}

func stringOr(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
