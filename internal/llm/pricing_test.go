package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/set-night/chatdigest/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceBook_Price(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/models", r.URL.Path)
		w.Write([]byte(`{"data": [
			{"id": "openai/gpt-4o-mini", "pricing": {"prompt": "0.00000015", "completion": "0.0000006"}},
			{"id": "z-ai/glm-4.5-air:free", "pricing": {"prompt": "0", "completion": "0"}}
		]}`))
	}))
	defer srv.Close()

	book := NewPriceBook(srv.URL, "key", time.Hour, srv.Client())
	ctx := context.Background()

	p, err := book.Price(ctx, "openai/gpt-4o-mini")
	require.NoError(t, err)
	assert.InDelta(t, 0.15, p.Prompt, 1e-9)
	assert.InDelta(t, 0.6, p.Completion, 1e-9)
	assert.False(t, p.IsFree())

	free, err := book.Price(ctx, "z-ai/glm-4.5-air:free")
	require.NoError(t, err)
	assert.True(t, free.IsFree())

	_, err = book.Price(ctx, "unknown/model")
	assert.True(t, errors.Is(err, ErrModelNotPriced))

	assert.Equal(t, int32(1), hits.Load(), "listing should be cached")
}

func TestPriceBook_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewPriceBook(srv.URL, "", time.Hour, nil).Price(context.Background(), "m")
	assert.Error(t, err)
}

func TestStaticPrices(t *testing.T) {
	p, err := StaticPrices{Prompt: 1, Completion: 2}.Price(context.Background(), "any")
	require.NoError(t, err)
	assert.Equal(t, ModelPrice{Prompt: 1, Completion: 2}, p)
}

func TestNewPriceSource(t *testing.T) {
	src := NewPriceSource(&config.Config{LLMBackend: BackendOpenAI, PromptPricePerM: 0.5})
	assert.Equal(t, StaticPrices{Prompt: 0.5}, src)

	src = NewPriceSource(&config.Config{LLMBackend: BackendOpenRouter})
	assert.IsType(t, &PriceBook{}, src)

	src = NewPriceSource(&config.Config{LLMBackend: BackendOllama})
	assert.Equal(t, StaticPrices{}, src)
}
