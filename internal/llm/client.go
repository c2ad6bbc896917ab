package llm

import "context"

const (
	BackendOpenAI     = "openai"
	BackendAzure      = "azure"
	BackendOpenRouter = "openrouter"
	BackendOllama     = "ollama"
)

// Completion is the outcome of one model call. CompletionTokens == 0 means
// the call produced nothing usable; Content then carries the provider's
// explanation, if any.
type Completion struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Content          string
}

// Client is a chat-completion backend.
type Client interface {
	Backend() string
	Model() string
	NewSession(seedID, instructions string) PromptSession
	Reply(ctx context.Context, session PromptSession) (Completion, error)
}
