package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analyza-ai/analyza/pkg/config"
	"github.com/analyza-ai/analyza/pkg/session"
)

func newWebhookServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Bot: &config.BotConfig{Name: "ANALYZA"},
	}
	return NewServer(cfg, nil, session.NewManager(), nil, nil)
}

func postEvent(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestSlackEventsChallenge(t *testing.T) {
	s := newWebhookServer(t)
	rec := postEvent(t, s, `{"type":"url_verification","challenge":"chal-42"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "chal-42", resp["challenge"])
}

func TestSlackEventsDuplicate(t *testing.T) {
	s := newWebhookServer(t)
	body := `{"type":"event_callback","event_id":"Ev1","event":{"type":"message","text":"hi"}}`

	rec := postEvent(t, s, body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ignored"`)

	rec = postEvent(t, s, body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"duplicate"`)
}

func TestSlackEventsIgnoresNonMentions(t *testing.T) {
	s := newWebhookServer(t)
	rec := postEvent(t, s, `{"type":"event_callback","event_id":"Ev2","event":{"type":"reaction_added"}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ignored"`)
}

func TestSlackEventsMalformedBody(t *testing.T) {
	s := newWebhookServer(t)
	rec := postEvent(t, s, `{"type":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInfo(t *testing.T) {
	s := newWebhookServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ANALYZA assistant API")
	assert.Contains(t, rec.Body.String(), "/slack/events")
}
