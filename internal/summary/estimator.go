package summary

import (
	"strconv"

	"github.com/set-night/chatdigest/internal/domain"
	"github.com/set-night/chatdigest/internal/llm"
)

// Estimator measures the prompt that would be sent for a run of records.
type Estimator struct {
	client       llm.Client
	instructions string
	maxTokens    int
}

func NewEstimator(client llm.Client, instructions string, maxTokens int) *Estimator {
	return &Estimator{client: client, instructions: instructions, maxTokens: maxTokens}
}

func (e *Estimator) MaxTokens() int { return e.maxTokens }

// Probe builds the summary prompt for records and reports its token cost
// and whether it fits the budget. Going over budget is not an error.
func (e *Estimator) Probe(records []domain.ChatRecord) (llm.PromptSession, int, bool) {
	seed := ""
	if len(records) > 0 {
		seed = strconv.FormatInt(records[0].MessageID, 10)
	}
	session := e.client.NewSession(seed, e.instructions)
	session.Append(transcriptQueryPrefix + RenderTranscript(records))

	tokens := session.EstimatedTokens()
	return session, tokens, tokens <= e.maxTokens
}
