package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wareongo/internal/config"
)

func newTestOpenAIClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewOpenAIClient(&config.OpenAIConfig{
		APIKey:          "test-key",
		APIBase:         server.URL + "/v1/",
		ChatModel:       "gpt-4o-mini",
		ChatTemperature: 0.2,
		Timeout:         5,
		Enabled:         true,
	}, nil)
}

func TestOpenAIClientComplete(t *testing.T) {
	var body map[string]any
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, sonic.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"size_min\": 40000}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	})

	reply, err := client.Complete(context.Background(), ChatRequest{
		System:   "extract",
		Messages: []ChatMessage{{Role: "user", Content: "40k sqft"}},
		JSON:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"size_min": 40000}`, reply)

	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])
	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "40k sqft", messages[1].(map[string]any)["content"])
}

func TestOpenAIClientErrors(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "boom", "type": "server_error"}}`))
	})
	_, err := client.Complete(context.Background(), ChatRequest{Messages: []ChatMessage{{Role: "user", Content: "hi"}}})
	assert.Error(t, err)

	empty := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "x", "object": "chat.completion", "choices": []}`))
	})
	_, err = empty.Complete(context.Background(), ChatRequest{Messages: []ChatMessage{{Role: "user", Content: "hi"}}})
	assert.Error(t, err)
}

func TestOpenAIClientDisabled(t *testing.T) {
	client := NewOpenAIClient(&config.OpenAIConfig{ChatModel: "gpt-4o-mini"}, nil)
	assert.False(t, client.IsEnabled())

	_, err := client.Complete(context.Background(), ChatRequest{})
	assert.ErrorIs(t, err, ErrAIDisabled)

	var nilClient *OpenAIClient
	assert.False(t, nilClient.IsEnabled())
}
