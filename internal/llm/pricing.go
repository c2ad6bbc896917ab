package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

var ErrModelNotPriced = errors.New("model not priced")

// ModelPrice is in USD per 1M tokens.
type ModelPrice struct {
	Prompt     float64
	Completion float64
}

func (p ModelPrice) IsFree() bool {
	return p.Prompt == 0 && p.Completion == 0
}

// PriceSource resolves the price of a model.
type PriceSource interface {
	Price(ctx context.Context, model string) (ModelPrice, error)
}

// StaticPrices always returns the configured price.
type StaticPrices ModelPrice

func (s StaticPrices) Price(context.Context, string) (ModelPrice, error) {
	return ModelPrice(s), nil
}

// PriceBook reads per-token prices from an OpenRouter style /models listing
// and caches them for ttl.
type PriceBook struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *priceCache
}

func NewPriceBook(baseURL, apiKey string, ttl time.Duration, httpClient *http.Client) *PriceBook {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &PriceBook{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		cache:      &priceCache{ttl: ttl},
	}
}

func (b *PriceBook) Price(ctx context.Context, model string) (ModelPrice, error) {
	prices := b.cache.get()
	if prices == nil {
		var err error
		prices, err = b.fetch(ctx)
		if err != nil {
			return ModelPrice{}, err
		}
		b.cache.set(prices)
	}
	p, ok := prices[model]
	if !ok {
		return ModelPrice{}, fmt.Errorf("%w: %s", ErrModelNotPriced, model)
	}
	return p, nil
}

func (b *PriceBook) fetch(ctx context.Context) (map[string]ModelPrice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if b.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch models: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch models: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var result struct {
		Data []struct {
			ID      string `json:"id"`
			Pricing struct {
				Prompt     string `json:"prompt"`
				Completion string `json:"completion"`
			} `json:"pricing"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse models: %w", err)
	}

	prices := make(map[string]ModelPrice, len(result.Data))
	for _, m := range result.Data {
		var prompt, completion float64
		fmt.Sscanf(m.Pricing.Prompt, "%f", &prompt)
		fmt.Sscanf(m.Pricing.Completion, "%f", &completion)

		// Listed per token, kept per 1M tokens
		prices[m.ID] = ModelPrice{
			Prompt:     prompt * 1_000_000,
			Completion: completion * 1_000_000,
		}
	}
	return prices, nil
}

type priceCache struct {
	mu       sync.RWMutex
	prices   map[string]ModelPrice
	cachedAt time.Time
	ttl      time.Duration
}

func (c *priceCache) get() map[string]ModelPrice {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.prices == nil || time.Since(c.cachedAt) > c.ttl {
		return nil
	}
	return c.prices
}

func (c *priceCache) set(prices map[string]ModelPrice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prices = prices
	c.cachedAt = time.Now()
}
