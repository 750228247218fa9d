package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analyza-ai/analyza/pkg/config"
	"github.com/analyza-ai/analyza/pkg/models"
	"github.com/analyza-ai/analyza/pkg/tools"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("TEST_LLM_KEY", "test-key")
	client, err := NewOpenAIClient(&config.LLMProviderConfig{
		Provider:     config.ProviderOpenAI,
		BaseURL:      srv.URL,
		DefaultModel: "gpt-4o",
		APIKeyEnv:    "TEST_LLM_KEY",
	})
	require.NoError(t, err)
	return client
}

func TestRespondTextReply(t *testing.T) {
	var captured chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"choices":[{"message":{"content":"42 loans closed"},"finish_reason":"stop"}]}`)
	})

	reply, err := client.Respond(context.Background(), models.Conversation{
		{Role: models.RoleSystem, Content: "be brief"},
		{Role: models.RoleUser, Content: "how many loans?"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "42 loans closed", reply.Text)
	assert.Empty(t, reply.ToolCalls)
	assert.False(t, reply.Empty())

	assert.Equal(t, "gpt-4o", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Empty(t, captured.Tools)
	assert.Empty(t, captured.ToolChoice)
}

func TestRespondToolCalls(t *testing.T) {
	var captured chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"choices":[{"message":{"content":null,"tool_calls":[
			{"id":"call_1","function":{"name":"execute_sql_query","arguments":"{\"sql_query\":\"select 1\"}"}}
		]},"finish_reason":"tool_calls"}]}`)
	})

	defs := []tools.Definition{{
		Name:        "execute_sql_query",
		Description: "Run a read-only query",
		Parameters:  json.RawMessage(`{"type":"object"}`),
	}}
	reply, err := client.Respond(context.Background(), models.Conversation{
		{Role: models.RoleUser, Content: "count loans"},
	}, defs)
	require.NoError(t, err)
	assert.Empty(t, reply.Text)
	require.Len(t, reply.ToolCalls, 1)
	call := reply.ToolCalls[0]
	assert.Equal(t, "call_1", call.ID)
	// Missing call type defaults to function.
	assert.Equal(t, "function", call.Type)
	assert.Equal(t, "execute_sql_query", call.Name)
	assert.JSONEq(t, `{"sql_query":"select 1"}`, call.Arguments)

	require.Len(t, captured.Tools, 1)
	assert.Equal(t, "execute_sql_query", captured.Tools[0].Function.Name)
	assert.Equal(t, "auto", captured.ToolChoice)
}

func TestRespondAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"rate limited"}}`)
	})

	_, err := client.Respond(context.Background(), models.Conversation{
		{Role: models.RoleUser, Content: "hi"},
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestRespondNoChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices":[]}`)
	})

	_, err := client.Respond(context.Background(), models.Conversation{
		{Role: models.RoleUser, Content: "hi"},
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	t.Setenv("AI_KEY", "")
	t.Setenv("UNSET_LLM_KEY", "")
	_, err := NewOpenAIClient(&config.LLMProviderConfig{
		Provider:  config.ProviderOpenAI,
		APIKeyEnv: "UNSET_LLM_KEY",
	})
	require.Error(t, err)
}

func TestEncodeMessagesCarriesToolTraffic(t *testing.T) {
	conversation := models.Conversation{
		{Role: models.RoleAssistant, ToolCalls: []models.ToolCallRequest{
			{ID: "call_1", Type: "function", Name: "resolve_name", Arguments: `{"user_input":"infosys"}`},
		}},
		{Role: models.RoleTool, ToolCallID: "call_1", Content: `{"resolved_name":"Infosys Limited"}`},
	}

	wire := encodeMessages(conversation)
	require.Len(t, wire, 2)
	require.Len(t, wire[0].ToolCalls, 1)
	assert.Equal(t, "resolve_name", wire[0].ToolCalls[0].Function.Name)
	assert.Equal(t, "call_1", wire[1].ToolCallID)
}

func TestGeminiToolsAreSanitized(t *testing.T) {
	t.Setenv("TEST_LLM_KEY", "test-key")
	client, err := NewOpenAIClient(&config.LLMProviderConfig{
		Provider:     config.ProviderGemini,
		BaseURL:      "https://example.invalid",
		DefaultModel: "gemini-2.0-flash",
		APIKeyEnv:    "TEST_LLM_KEY",
	})
	require.NoError(t, err)

	wire := client.encodeTools([]tools.Definition{{
		Name:       "create_bar_chart",
		Parameters: json.RawMessage(`{"type":"object","strict":true,"properties":{"value_type":{"enum":["$",null]}}}`),
	}})
	require.Len(t, wire, 1)
	assert.NotContains(t, string(wire[0].Function.Parameters), "strict")
	assert.NotContains(t, string(wire[0].Function.Parameters), "null")
}
