package summary

import (
	"context"

	"github.com/set-night/chatdigest/internal/llm"
)

// CompletionError is a model call that produced no usable output. Reason is
// the provider's raw text, suitable for showing to the requester.
type CompletionError struct {
	Reason string
	Err    error
}

func (e *CompletionError) Error() string {
	if e.Reason == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Reason
}

func (e *CompletionError) Unwrap() error { return e.Err }

// Summarizer makes one completion call per chunk.
type Summarizer struct {
	client llm.Client
}

func NewSummarizer(client llm.Client) *Summarizer {
	return &Summarizer{client: client}
}

// Summarize sends the chunk's prepared session. A transport error or a
// completion without tokens is returned as *CompletionError.
func (s *Summarizer) Summarize(ctx context.Context, chunk Chunk) (llm.Completion, error) {
	return complete(ctx, s.client, chunk.Session)
}

func complete(ctx context.Context, client llm.Client, session llm.PromptSession) (llm.Completion, error) {
	out, err := client.Reply(ctx, session)
	if err != nil {
		return out, &CompletionError{Reason: err.Error(), Err: err}
	}
	if out.CompletionTokens == 0 {
		return out, &CompletionError{Reason: out.Content}
	}
	return out, nil
}
