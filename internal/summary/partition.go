package summary

import (
	"fmt"
	"log/slog"

	"github.com/set-night/chatdigest/internal/domain"
	"github.com/set-night/chatdigest/internal/llm"
)

// Chunk is a run of consecutive records whose prompt fits the budget,
// together with the prepared prompt session.
type Chunk struct {
	Records []domain.ChatRecord
	Session llm.PromptSession
	Tokens  int
}

// Partitioner cuts chronological records into maximal fitting prefixes.
type Partitioner struct {
	estimator *Estimator
	maxChunks int
}

func NewPartitioner(estimator *Estimator, maxChunks int) *Partitioner {
	if maxChunks <= 0 {
		maxChunks = 1
	}
	return &Partitioner{estimator: estimator, maxChunks: maxChunks}
}

func (p *Partitioner) MaxChunks() int { return p.maxChunks }

// Next returns the longest prefix of records that fits the budget.
// It returns domain.ErrUnrecoverableChunk when records[0] alone does not fit.
func (p *Partitioner) Next(records []domain.ChatRecord) (Chunk, error) {
	n := len(records)
	if n == 0 {
		return Chunk{}, domain.ErrNoRecords
	}

	if session, tokens, ok := p.estimator.Probe(records); ok {
		return Chunk{Records: records, Session: session, Tokens: tokens}, nil
	}

	// Invariant: records[:lo] fits (lo == 0 trivially), records[:hi+1] does not.
	lo, hi := 0, n-1
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		_, tokens, ok := p.estimator.Probe(records[:mid])
		slog.Debug("partition probe", "lo", lo, "hi", hi, "mid", mid, "tokens", tokens, "fits", ok)
		if ok {
			lo = mid
		} else {
			hi = mid - 1
		}
	}

	if lo == 0 {
		_, tokens, _ := p.estimator.Probe(records[:1])
		return Chunk{}, fmt.Errorf("%w: message %d needs %d tokens, budget %d",
			domain.ErrUnrecoverableChunk, records[0].MessageID, tokens, p.estimator.MaxTokens())
	}

	session, tokens, ok := p.estimator.Probe(records[:lo])
	if !ok {
		// Only reachable with a non-monotonic tokenizer.
		return Chunk{}, fmt.Errorf("%w: prefix of %d no longer fits (%d tokens)",
			domain.ErrUnrecoverableChunk, lo, tokens)
	}
	return Chunk{Records: records[:lo], Session: session, Tokens: tokens}, nil
}

// Split partitions records front to back until they are used up or
// MaxChunks chunks exist. consumed is the number of records covered.
func (p *Partitioner) Split(records []domain.ChatRecord) (chunks []Chunk, consumed int, err error) {
	for consumed < len(records) && len(chunks) < p.maxChunks {
		chunk, err := p.Next(records[consumed:])
		if err != nil {
			return chunks, consumed, err
		}
		chunks = append(chunks, chunk)
		consumed += len(chunk.Records)
	}
	return chunks, consumed, nil
}
