// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/set-night/chatdigest/internal/llm"
)

// ReplyFunc produces the completion for the n-th call (0-based).
type ReplyFunc func(call int, session llm.PromptSession) (llm.Completion, error)

// Client records every session it is asked to complete.
type Client struct {
	Tokenizer llm.Tokenizer
	ReplyFn   ReplyFunc

	mu    sync.Mutex
	calls []llm.PromptSession
}

// New returns a client that answers each call with the given texts in order
// and then repeats the last one.
func New(tok llm.Tokenizer, texts ...string) *Client {
	return &Client{
		Tokenizer: tok,
		ReplyFn: func(call int, _ llm.PromptSession) (llm.Completion, error) {
			if len(texts) == 0 {
				return Text("ok"), nil
			}
			if call >= len(texts) {
				call = len(texts) - 1
			}
			return Text(texts[call]), nil
		},
	}
}

// Text is a successful completion of content.
func Text(content string) llm.Completion {
	n := len([]rune(content))
	if n == 0 {
		n = 1
	}
	return llm.Completion{CompletionTokens: n, TotalTokens: n + 100, PromptTokens: 100, Content: content}
}

// Failure is a completion that produced no tokens.
func Failure(reason string) llm.Completion {
	return llm.Completion{Content: reason}
}

func (c *Client) Backend() string { return "test" }
func (c *Client) Model() string   { return "test-model" }

func (c *Client) NewSession(seedID, instructions string) llm.PromptSession {
	s := llm.NewChatSession(c.Tokenizer)
	s.Seed(seedID, instructions)
	return s
}

func (c *Client) Reply(_ context.Context, session llm.PromptSession) (llm.Completion, error) {
	c.mu.Lock()
	n := len(c.calls)
	c.calls = append(c.calls, session)
	c.mu.Unlock()
	return c.ReplyFn(n, session)
}

// Calls returns the sessions sent so far.
func (c *Client) Calls() []llm.PromptSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]llm.PromptSession, len(c.calls))
	copy(out, c.calls)
	return out
}
