package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorShape(t *testing.T) {
	r := NewError("query execution failed", "connection refused")
	assert.True(t, r.IsError())
	assert.Equal(t, "query execution failed", r.ErrorMessage())
	assert.Equal(t, "connection refused", r.Data["details"])

	r = NewError("boom", "")
	_, hasDetails := r.Data["details"]
	assert.False(t, hasDetails)
}

func TestEncodeRoundTrips(t *testing.T) {
	r := NewSuccess(map[string]any{"rows": "| a |"}, "ok")
	var decoded ToolResult
	require.NoError(t, json.Unmarshal([]byte(r.Encode()), &decoded))
	assert.Equal(t, ResultSuccess, decoded.Type)
	assert.Equal(t, "| a |", decoded.Data["rows"])
	assert.Equal(t, "ok", decoded.Message)
}

func TestSimplifyPassthroughWithoutPayload(t *testing.T) {
	r := NewSuccess(map[string]any{"rows": "| a |\n| 1 |"}, "query ok")
	simplified, original := Simplify(r)
	assert.Equal(t, r, simplified)
	assert.Equal(t, r, original)
}

func TestSimplifyStripsImagePayload(t *testing.T) {
	r := NewSuccess(map[string]any{
		"chart_type": "bar_chart",
		"title":      "Loans by Month",
		"image":      "aW1hZ2VieXRlcw==",
	}, "")

	simplified, original := Simplify(r)

	assert.Equal(t, PayloadSentinel, simplified.Data["image"])
	assert.Equal(t, "bar_chart", simplified.Data["chart_type"])
	assert.Equal(t, "Loans by Month", simplified.Data["title"])
	assert.NotContains(t, simplified.Encode(), "aW1hZ2VieXRlcw==")

	// original is untouched
	assert.Equal(t, "aW1hZ2VieXRlcw==", original.Data["image"])
	assert.Equal(t, r, original)
}

func TestSimplifyDefaultsMetadata(t *testing.T) {
	r := NewSuccess(map[string]any{"image": "cGF5bG9hZA=="}, "")
	simplified, _ := Simplify(r)
	assert.Equal(t, "chart", simplified.Data["chart_type"])
	assert.Equal(t, "Chart", simplified.Data["title"])
}

func TestHasLargePayload(t *testing.T) {
	assert.False(t, NewSuccess(map[string]any{"image": ""}, "").HasLargePayload())
	assert.False(t, NewError("failed", "").HasLargePayload())
	assert.False(t, NewSuccess(nil, "").HasLargePayload())
	assert.True(t, NewSuccess(map[string]any{"image": "x"}, "").HasLargePayload())
}

func TestLastRenderable(t *testing.T) {
	chartResult := NewSuccess(map[string]any{"image": "cGF5bG9hZA==", "chart_type": "pie_chart"}, "")
	plainResult := NewSuccess(map[string]any{"rows": "| a |"}, "")

	conv := Conversation{
		{Role: RoleUser, Content: "draw it"},
		{Role: RoleTool, ToolCallID: "a", OriginalContent: &chartResult},
		{Role: RoleTool, ToolCallID: "b", OriginalContent: &plainResult},
		{Role: RoleAssistant, Content: "done"},
	}

	got := conv.LastRenderable()
	require.NotNil(t, got)
	assert.Equal(t, "pie_chart", got.Data["chart_type"])
}

func TestLastRenderableAbsent(t *testing.T) {
	conv := Conversation{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
	}
	assert.Nil(t, conv.LastRenderable())
}
