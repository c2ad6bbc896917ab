package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"
)

// OllamaClient runs summaries against a local Ollama server.
type OllamaClient struct {
	llm       llms.Model
	model     string
	tokenizer Tokenizer
}

func NewOllamaClient(serverURL, model string, tok Tokenizer) (*OllamaClient, error) {
	m, err := ollama.New(
		ollama.WithModel(model),
		ollama.WithServerURL(serverURL),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama model: %w", err)
	}
	if tok == nil {
		tok = NewTokenizer(model)
	}
	return &OllamaClient{llm: m, model: model, tokenizer: tok}, nil
}

func (c *OllamaClient) Backend() string { return BackendOllama }
func (c *OllamaClient) Model() string   { return c.model }

func (c *OllamaClient) NewSession(seedID, instructions string) PromptSession {
	s := NewChatSession(c.tokenizer)
	s.Seed(seedID, instructions)
	return s
}

func (c *OllamaClient) Reply(ctx context.Context, session PromptSession) (Completion, error) {
	msgs := session.Messages()
	content := make([]llms.MessageContent, 0, len(msgs))
	for _, m := range msgs {
		content = append(content, llms.TextParts(langchainRole(m.Role), m.Content))
	}

	resp, err := c.llm.GenerateContent(ctx, content)
	if err != nil {
		return Completion{}, fmt.Errorf("ollama generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Completion{Content: "empty completion"}, nil
	}

	choice := resp.Choices[0]
	out := Completion{
		Content:          choice.Content,
		PromptTokens:     intInfo(choice.GenerationInfo, "PromptTokens"),
		CompletionTokens: intInfo(choice.GenerationInfo, "CompletionTokens"),
		TotalTokens:      intInfo(choice.GenerationInfo, "TotalTokens"),
	}
	// Older servers omit eval counts; count the text ourselves.
	if out.PromptTokens == 0 {
		out.PromptTokens = session.EstimatedTokens()
	}
	if out.CompletionTokens == 0 && choice.Content != "" {
		out.CompletionTokens = c.tokenizer.Count(choice.Content)
	}
	if out.TotalTokens == 0 {
		out.TotalTokens = out.PromptTokens + out.CompletionTokens
	}
	return out, nil
}

func langchainRole(role string) schema.ChatMessageType {
	switch role {
	case RoleSystem:
		return schema.ChatMessageTypeSystem
	case RoleAssistant:
		return schema.ChatMessageTypeAI
	default:
		return schema.ChatMessageTypeHuman
	}
}

func intInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
