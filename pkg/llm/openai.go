package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/analyza-ai/analyza/pkg/config"
	"github.com/analyza-ai/analyza/pkg/models"
	"github.com/analyza-ai/analyza/pkg/tools"
)

const defaultRequestTimeout = 60 * time.Second

// OpenAIClient speaks the OpenAI chat-completions wire format. It also serves
// providers that expose OpenAI-compatible endpoints (Gemini, xAI) through a
// custom base URL, with per-provider schema adaptation where needed.
type OpenAIClient struct {
	provider   string
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewOpenAIClient builds a client from a provider configuration entry.
func NewOpenAIClient(cfg *config.LLMProviderConfig) (*OpenAIClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("llm provider configuration is required")
	}
	apiKey := cfg.APIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("API key for llm provider %q is not set", cfg.Provider)
	}
	return &OpenAIClient{
		provider: cfg.Provider,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		model:    cfg.DefaultModel,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: defaultRequestTimeout,
		},
		logger: slog.Default().With("component", "llm", "provider", cfg.Provider),
	}, nil
}

// Model returns the configured default model identifier.
func (c *OpenAIClient) Model() string {
	return c.model
}

type wireFunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type wireToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function wireFunctionCall `json:"function"`
}

type wireMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type wireFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

type wireTool struct {
	Type     string       `json:"type"`
	Function wireFunction `json:"function"`
}

type chatRequest struct {
	Model      string        `json:"model"`
	Messages   []wireMessage `json:"messages"`
	Tools      []wireTool    `json:"tools,omitempty"`
	ToolChoice string        `json:"tool_choice,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   *string        `json:"content"`
			ToolCalls []wireToolCall `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Respond implements Client over the chat-completions endpoint.
func (c *OpenAIClient) Respond(ctx context.Context, messages models.Conversation, defs []tools.Definition) (*Reply, error) {
	req := chatRequest{
		Model:    c.model,
		Messages: encodeMessages(messages),
	}
	if len(defs) > 0 {
		req.Tools = c.encodeTools(defs)
		req.ToolChoice = "auto"
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read chat completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat completion returned status %d: %s", resp.StatusCode, truncate(string(respBody), 500))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode chat completion response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("chat completion returned error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	choice := parsed.Choices[0]
	reply := &Reply{}
	if choice.Message.Content != nil {
		reply.Text = *choice.Message.Content
	}
	for _, tc := range choice.Message.ToolCalls {
		callType := tc.Type
		if callType == "" {
			callType = "function"
		}
		reply.ToolCalls = append(reply.ToolCalls, models.ToolCallRequest{
			ID:        tc.ID,
			Type:      callType,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	c.logger.Debug("Chat completion round-trip finished",
		"model", c.model,
		"duration", time.Since(start).Round(time.Millisecond),
		"finish_reason", choice.FinishReason,
		"tool_calls", len(reply.ToolCalls))

	return reply, nil
}

// TestConnection sends a minimal prompt without tools to verify credentials
// and connectivity at startup.
func (c *OpenAIClient) TestConnection(ctx context.Context) error {
	messages := models.Conversation{
		{Role: models.RoleSystem, Content: "You are a connectivity probe. Reply with a single word."},
		{Role: models.RoleUser, Content: "ping"},
	}
	reply, err := c.Respond(ctx, messages, nil)
	if err != nil {
		return fmt.Errorf("llm connectivity check failed for provider %q: %w", c.provider, err)
	}
	if reply.Empty() {
		return fmt.Errorf("llm connectivity check for provider %q returned an empty reply", c.provider)
	}
	c.logger.Info("LLM connectivity check passed", "model", c.model)
	return nil
}

func encodeMessages(messages models.Conversation) []wireMessage {
	out := make([]wireMessage, 0, len(messages))
	for _, m := range messages {
		wm := wireMessage{
			Role:       string(m.Role),
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			wm.ToolCalls = append(wm.ToolCalls, wireToolCall{
				ID:   tc.ID,
				Type: tc.Type,
				Function: wireFunctionCall{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
		out = append(out, wm)
	}
	return out
}

func (c *OpenAIClient) encodeTools(defs []tools.Definition) []wireTool {
	out := make([]wireTool, 0, len(defs))
	for _, d := range defs {
		params := d.Parameters
		if c.provider == config.ProviderGemini {
			params = sanitizeSchemaForGemini(params)
		}
		out = append(out, wireTool{
			Type: "function",
			Function: wireFunction{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  params,
			},
		})
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
