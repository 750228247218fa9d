package llm

import "encoding/json"

// sanitizeSchemaForGemini rewrites a JSON schema for Gemini's OpenAI-compat
// endpoint, which rejects several OpenAI extensions. It drops the "strict"
// marker, per-property "examples", and null entries inside enum lists. The
// input is returned unchanged when it cannot be decoded.
func sanitizeSchemaForGemini(schema json.RawMessage) json.RawMessage {
	if len(schema) == 0 {
		return schema
	}
	var decoded map[string]any
	if err := json.Unmarshal(schema, &decoded); err != nil {
		return schema
	}
	sanitizeSchemaMap(decoded)
	cleaned, err := json.Marshal(decoded)
	if err != nil {
		return schema
	}
	return cleaned
}

func sanitizeSchemaMap(schema map[string]any) {
	delete(schema, "strict")
	delete(schema, "examples")

	if enum, ok := schema["enum"].([]any); ok {
		filtered := make([]any, 0, len(enum))
		for _, v := range enum {
			if v != nil {
				filtered = append(filtered, v)
			}
		}
		schema["enum"] = filtered
	}

	if props, ok := schema["properties"].(map[string]any); ok {
		for _, p := range props {
			if prop, ok := p.(map[string]any); ok {
				sanitizeSchemaMap(prop)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		sanitizeSchemaMap(items)
	}
}
