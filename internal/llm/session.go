package llm

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string
	Content string
}

// PromptSession is a prompt under construction: a system instruction plus
// appended user queries. Its token cost can be read without a network call.
type PromptSession interface {
	ID() string
	Seed(id, instructions string)
	Append(text string)
	EstimatedTokens() int
	Messages() []Message
}

// ChatSession is the PromptSession used by every backend in this package.
type ChatSession struct {
	id        string
	messages  []Message
	tokenizer Tokenizer
}

func NewChatSession(tok Tokenizer) *ChatSession {
	if tok == nil {
		tok = RuneTokenizer{}
	}
	return &ChatSession{tokenizer: tok}
}

func (s *ChatSession) ID() string { return s.id }

// Seed resets the session to a single system message.
func (s *ChatSession) Seed(id, instructions string) {
	s.id = id
	s.messages = []Message{{Role: RoleSystem, Content: instructions}}
}

func (s *ChatSession) Append(text string) {
	s.messages = append(s.messages, Message{Role: RoleUser, Content: text})
}

func (s *ChatSession) EstimatedTokens() int {
	return CountMessages(s.tokenizer, s.messages)
}

func (s *ChatSession) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}
