package llm

import (
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const defaultEncoding = "cl100k_base"

// Tokenizer counts the tokens of a piece of text. Implementations must be
// monotonic: appending text never lowers the count.
type Tokenizer interface {
	Count(text string) int
}

// TiktokenTokenizer counts tokens with an OpenAI BPE encoding.
type TiktokenTokenizer struct {
	mu  sync.Mutex
	enc *tiktoken.Tiktoken
}

func (t *TiktokenTokenizer) Count(text string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.enc.Encode(text, nil, nil))
}

// RuneTokenizer approximates token counts without BPE ranks: every non-ASCII
// rune is one token, ASCII bytes count four to a token.
type RuneTokenizer struct{}

func (RuneTokenizer) Count(text string) int {
	ascii, other := 0, 0
	for _, r := range text {
		if r < utf8.RuneSelf {
			ascii++
		} else {
			other++
		}
	}
	return other + (ascii+3)/4
}

// NewTokenizer returns the BPE tokenizer for model, falling back to
// cl100k_base and finally to RuneTokenizer when ranks cannot be loaded.
func NewTokenizer(model string) Tokenizer {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(defaultEncoding)
	}
	if err != nil {
		slog.Warn("tiktoken unavailable, using rune estimate", "model", model, "error", err)
		return RuneTokenizer{}
	}
	return &TiktokenTokenizer{enc: enc}
}

// CountMessages returns the prompt cost of a chat message list using the
// chat-format overhead: 3 tokens per message plus role and content, and 3
// tokens priming the reply.
func CountMessages(tok Tokenizer, messages []Message) int {
	total := 3
	for _, m := range messages {
		total += 3 + tok.Count(m.Role) + tok.Count(m.Content)
	}
	return total
}
