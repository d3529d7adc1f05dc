package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicClient_Complete(t *testing.T) {
	var captured anthropicRequest
	var gotHeaders http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"content": [{"type": "text", "text": "bonjour"}],
			"usage": {"input_tokens": 12, "output_tokens": 34}
		}`))
	}))
	t.Cleanup(server.Close)

	client := NewAnthropicClient("test-key", "test-model", WithBaseURL(server.URL))

	resp, err := client.Complete(context.Background(), Request{
		Messages:    []Message{{Role: RoleUser, Content: "translate this"}},
		System:      "be brief",
		MaxTokens:   4000,
		Temperature: 0,
	})

	require.NoError(t, err)
	assert.Equal(t, "bonjour", resp.Text)
	assert.Equal(t, 12, resp.Usage.InputTokens)
	assert.Equal(t, 34, resp.Usage.OutputTokens)

	assert.Equal(t, "test-key", gotHeaders.Get("x-api-key"))
	assert.Equal(t, anthropicVersion, gotHeaders.Get("anthropic-version"))

	// system instructions travel in the dedicated field, not the message array
	assert.Equal(t, "be brief", captured.System)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, RoleUser, captured.Messages[0].Role)
	assert.Equal(t, "test-model", captured.Model)
	assert.Equal(t, 4000, captured.MaxTokens)
}

func TestAnthropicClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "rate limited"}`))
	}))
	t.Cleanup(server.Close)

	client := NewAnthropicClient("test-key", "test-model", WithBaseURL(server.URL))

	_, err := client.Complete(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestAnthropicClient_EmptyCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content": [], "usage": {"input_tokens": 1, "output_tokens": 0}}`))
	}))
	t.Cleanup(server.Close)

	client := NewAnthropicClient("test-key", "test-model", WithBaseURL(server.URL))

	_, err := client.Complete(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})

	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestAnthropicClient_MissingAPIKey(t *testing.T) {
	client := NewAnthropicClient("", "test-model")

	_, err := client.Complete(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})

	assert.Error(t, err)
}
