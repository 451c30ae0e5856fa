package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewair/booking-assistant/internal/agent/assistant"
	"github.com/crewair/booking-assistant/internal/agent/model"
	"github.com/crewair/booking-assistant/internal/agent/repo"
)

type runnerFunc func(ctx context.Context, in model.TurnInput) (string, error)

func (f runnerFunc) Invoke(ctx context.Context, in model.TurnInput) (string, error) {
	return f(ctx, in)
}

func newTestRouter(r runnerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	a := assistant.New(r, repo.NewMemorySessionStore(0), assistant.Options{AssistantName: "Sonya"})
	return NewRouter(Config{AllowOrigins: []string{"http://localhost:3000"}}, a)
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func echoRunner(ctx context.Context, in model.TurnInput) (string, error) {
	return "Sonya: you said " + in.Message, nil
}

func TestChatEndpoint(t *testing.T) {
	var got model.TurnInput
	r := newTestRouter(func(ctx context.Context, in model.TurnInput) (string, error) {
		got = in
		return "Sonya: $799", nil
	})

	w, out := do(t, r, http.MethodPost, "/v1/chat",
		`{"message":"London?","history":[{"user":"hi","assistant":"Sonya: hello"}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sonya: $799", out["reply"])
	assert.Equal(t, model.History{{User: "hi", Assistant: "Sonya: hello"}}, got.History)
}

func TestChatEndpointRejectsMissingMessage(t *testing.T) {
	r := newTestRouter(echoRunner)
	w, out := do(t, r, http.MethodPost, "/v1/chat", `{"history":[]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request", out["err"])
}

func TestChatEndpointApologisesOnBackendFailure(t *testing.T) {
	r := newTestRouter(func(ctx context.Context, in model.TurnInput) (string, error) {
		return "", errors.New("backend down")
	})
	w, out := do(t, r, http.MethodPost, "/v1/chat", `{"message":"hi"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sonya: I apologize, but I encountered an error. Please try again.", out["reply"])
}

func TestConversationLifecycle(t *testing.T) {
	r := newTestRouter(echoRunner)

	w, out := do(t, r, http.MethodPost, "/v1/conversations", "")
	require.Equal(t, http.StatusCreated, w.Code)
	id, _ := out["conversation_id"].(string)
	require.NotEmpty(t, id)

	w, out = do(t, r, http.MethodPost, "/v1/conversations/"+id+"/messages", `{"message":"hello"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sonya: you said hello", out["reply"])

	w, out = do(t, r, http.MethodGet, "/v1/conversations/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	history, _ := out["history"].([]any)
	require.Len(t, history, 1)
	booking, _ := out["booking"].(map[string]any)
	assert.Equal(t, "initial", booking["stage"])

	w, _ = do(t, r, http.MethodDelete, "/v1/conversations/"+id, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	_, out = do(t, r, http.MethodGet, "/v1/conversations/"+id, "")
	history, _ = out["history"].([]any)
	assert.Empty(t, history)
}

func TestPostMessageRejectsBlankMessage(t *testing.T) {
	r := newTestRouter(echoRunner)
	w, _ := do(t, r, http.MethodPost, "/v1/conversations/abc/messages", `{"message":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	w, out := do(t, newTestRouter(echoRunner), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, SimulationNotice, out["notice"])
}
