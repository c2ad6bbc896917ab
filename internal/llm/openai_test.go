package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/set-night/chatdigest/internal/config"
	"github.com/set-night/chatdigest/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewOpenAIClient(OpenAIOptions{
		Backend:   BackendOpenAI,
		APIKey:    "test-key",
		BaseURL:   srv.URL + "/v1",
		Model:     "gpt-test",
		Tokenizer: RuneTokenizer{},
	})
	require.NoError(t, err)
	return c
}

func TestOpenAIClient_Reply(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "c1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "- 小明: 提议周末爬山"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 120, "completion_tokens": 12, "total_tokens": 132}
		}`))
	})

	s := c.NewSession("1", "summarize")
	s.Append("transcript")

	out, err := c.Reply(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, "- 小明: 提议周末爬山", out.Content)
	assert.Equal(t, 12, out.CompletionTokens)
	assert.Equal(t, 132, out.TotalTokens)
	assert.Equal(t, "gpt-test", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "transcript", got.Messages[1].Content)
}

func TestOpenAIClient_ReplyEmptyChoices(t *testing.T) {
	c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [], "usage": {"prompt_tokens": 10, "completion_tokens": 0, "total_tokens": 10}}`))
	})

	out, err := c.Reply(context.Background(), c.NewSession("1", "x"))
	require.NoError(t, err)
	assert.Zero(t, out.CompletionTokens)
	assert.NotEmpty(t, out.Content)
}

func TestOpenAIClient_ReplyContentFilter(t *testing.T) {
	c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{"index": 0, "message": {"role": "assistant", "content": ""}, "finish_reason": "content_filter"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 3, "total_tokens": 13}
		}`))
	})

	out, err := c.Reply(context.Background(), c.NewSession("1", "x"))
	require.NoError(t, err)
	assert.Zero(t, out.CompletionTokens)
	assert.Contains(t, out.Content, "content filter")
}

func TestOpenAIClient_ReplyAPIError(t *testing.T) {
	c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limit reached", "type": "requests"}}`))
	})

	_, err := c.Reply(context.Background(), c.NewSession("1", "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit reached")
}

func TestNewOpenAIClient_Validation(t *testing.T) {
	_, err := NewOpenAIClient(OpenAIOptions{Backend: BackendOpenAI, Tokenizer: RuneTokenizer{}})
	assert.Error(t, err)

	_, err = NewOpenAIClient(OpenAIOptions{Backend: BackendAzure, APIKey: "k", Tokenizer: RuneTokenizer{}})
	assert.Error(t, err)
}

func TestNew_UnsupportedBackend(t *testing.T) {
	for _, backend := range []string{"", "claude", "linkai"} {
		t.Run(backend, func(t *testing.T) {
			c, err := New(&config.Config{LLMBackend: backend})
			assert.Nil(t, c)
			assert.True(t, errors.Is(err, domain.ErrUnsupportedBackend))
		})
	}
}

func TestNew_MissingKey(t *testing.T) {
	_, err := New(&config.Config{LLMBackend: BackendOpenRouter, LLMModel: "x"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrUnsupportedBackend))
}
