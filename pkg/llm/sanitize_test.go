package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeSchema(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestSanitizeStripsStrictAndExamples(t *testing.T) {
	in := json.RawMessage(`{
		"type": "object",
		"strict": true,
		"properties": {
			"values": {
				"type": "array",
				"examples": [[120, 80]],
				"items": {"type": "number"}
			}
		}
	}`)

	out := decodeSchema(t, sanitizeSchemaForGemini(in))
	assert.NotContains(t, out, "strict")
	props := out["properties"].(map[string]any)
	values := props["values"].(map[string]any)
	assert.NotContains(t, values, "examples")
	assert.Equal(t, "array", values["type"])
}

func TestSanitizeFiltersNullEnums(t *testing.T) {
	in := json.RawMessage(`{
		"type": "object",
		"properties": {
			"value_type": {
				"type": ["string", "null"],
				"enum": ["$", "%", "", null]
			}
		}
	}`)

	out := decodeSchema(t, sanitizeSchemaForGemini(in))
	props := out["properties"].(map[string]any)
	valueType := props["value_type"].(map[string]any)
	assert.Equal(t, []any{"$", "%", ""}, valueType["enum"])
}

func TestSanitizeRecursesIntoItems(t *testing.T) {
	in := json.RawMessage(`{
		"type": "object",
		"properties": {
			"data": {
				"type": "array",
				"items": {
					"type": "object",
					"strict": true,
					"properties": {
						"name": {"type": "string", "examples": ["Visa"]}
					}
				}
			}
		}
	}`)

	out := decodeSchema(t, sanitizeSchemaForGemini(in))
	items := out["properties"].(map[string]any)["data"].(map[string]any)["items"].(map[string]any)
	assert.NotContains(t, items, "strict")
	name := items["properties"].(map[string]any)["name"].(map[string]any)
	assert.NotContains(t, name, "examples")
}

func TestSanitizeLeavesInvalidInputAlone(t *testing.T) {
	in := json.RawMessage(`not json`)
	assert.Equal(t, in, sanitizeSchemaForGemini(in))

	assert.Empty(t, sanitizeSchemaForGemini(nil))
}
