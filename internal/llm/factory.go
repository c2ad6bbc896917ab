package llm

import (
	"fmt"
	"net/http"

	"github.com/set-night/chatdigest/internal/config"
	"github.com/set-night/chatdigest/internal/domain"
)

// New builds the client for cfg.LLMBackend. Unknown backends fail here,
// before any record is read.
func New(cfg *config.Config) (Client, error) {
	httpClient := &http.Client{Timeout: config.LLMCallTimeout}

	switch cfg.LLMBackend {
	case BackendOpenAI, BackendAzure:
		return NewOpenAIClient(OpenAIOptions{
			Backend:    cfg.LLMBackend,
			APIKey:     cfg.LLMAPIKey,
			BaseURL:    cfg.LLMBaseURL,
			APIVersion: cfg.AzureAPIVersion,
			Model:      cfg.LLMModel,
			HTTPClient: httpClient,
		})

	case BackendOpenRouter:
		baseURL := cfg.LLMBaseURL
		if baseURL == "" {
			baseURL = config.OpenRouterBaseURL
		}
		return NewOpenAIClient(OpenAIOptions{
			Backend:    BackendOpenRouter,
			APIKey:     cfg.LLMAPIKey,
			BaseURL:    baseURL,
			Model:      cfg.LLMModel,
			HTTPClient: httpClient,
		})

	case BackendOllama:
		return NewOllamaClient(cfg.OllamaHost, cfg.LLMModel, nil)

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedBackend, cfg.LLMBackend)
	}
}

// NewPriceSource picks where cost footers get their prices: configured
// prices when set, the OpenRouter listing for that backend, otherwise a zero
// price that shows token counts only.
func NewPriceSource(cfg *config.Config) PriceSource {
	if cfg.PromptPricePerM > 0 || cfg.CompletionPricePerM > 0 {
		return StaticPrices{Prompt: cfg.PromptPricePerM, Completion: cfg.CompletionPricePerM}
	}
	if cfg.LLMBackend == BackendOpenRouter {
		baseURL := cfg.LLMBaseURL
		if baseURL == "" {
			baseURL = config.OpenRouterBaseURL
		}
		return NewPriceBook(baseURL, cfg.LLMAPIKey, config.PriceCacheDuration, &http.Client{Timeout: config.LLMCallTimeout})
	}
	return StaticPrices{}
}
