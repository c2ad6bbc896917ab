package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient talks to any OpenAI-compatible chat completion endpoint:
// OpenAI itself, Azure OpenAI deployments and OpenRouter.
type OpenAIClient struct {
	api       *openai.Client
	backend   string
	model     string
	tokenizer Tokenizer
}

type OpenAIOptions struct {
	Backend    string
	APIKey     string
	BaseURL    string
	APIVersion string
	Model      string
	HTTPClient *http.Client
	Tokenizer  Tokenizer
}

func NewOpenAIClient(opts OpenAIOptions) (*OpenAIClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%s api key required", opts.Backend)
	}

	var cfg openai.ClientConfig
	switch opts.Backend {
	case BackendAzure:
		if opts.BaseURL == "" {
			return nil, fmt.Errorf("azure endpoint required")
		}
		cfg = openai.DefaultAzureConfig(opts.APIKey, opts.BaseURL)
		if opts.APIVersion != "" {
			cfg.APIVersion = opts.APIVersion
		}
	default:
		cfg = openai.DefaultConfig(opts.APIKey)
		if opts.BaseURL != "" {
			cfg.BaseURL = opts.BaseURL
		}
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}

	tok := opts.Tokenizer
	if tok == nil {
		tok = NewTokenizer(opts.Model)
	}

	return &OpenAIClient{
		api:       openai.NewClientWithConfig(cfg),
		backend:   opts.Backend,
		model:     opts.Model,
		tokenizer: tok,
	}, nil
}

func (c *OpenAIClient) Backend() string { return c.backend }
func (c *OpenAIClient) Model() string   { return c.model }

func (c *OpenAIClient) NewSession(seedID, instructions string) PromptSession {
	s := NewChatSession(c.tokenizer)
	s.Seed(seedID, instructions)
	return s
}

func (c *OpenAIClient) Reply(ctx context.Context, session PromptSession) (Completion, error) {
	msgs := session.Messages()
	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(msgs)),
	}
	for _, m := range msgs {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return Completion{}, fmt.Errorf("%s chat completion: %w", c.backend, err)
	}

	out := Completion{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	if len(resp.Choices) == 0 {
		out.CompletionTokens = 0
		out.Content = "empty completion"
		return out, nil
	}
	out.Content = resp.Choices[0].Message.Content
	if resp.Choices[0].FinishReason == openai.FinishReasonContentFilter {
		out.CompletionTokens = 0
		if out.Content == "" {
			out.Content = "completion blocked by content filter"
		}
	}
	return out, nil
}
