package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/set-night/chatdigest/internal/domain"
	"github.com/set-night/chatdigest/internal/llm"
)

// Usage totals the model calls of one run.
type Usage struct {
	Calls            int
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

func (u *Usage) add(c llm.Completion) {
	u.Calls++
	u.PromptTokens += c.PromptTokens
	u.CompletionTokens += c.CompletionTokens
	u.TotalTokens += c.TotalTokens
}

// Result of a summarization run.
type Result struct {
	// Count is the number of records covered by Summaries.
	Count     int
	Summaries []string
	Final     string
	Merged    bool
	// Truncated is set when records were left over, either because the
	// chunk cap was reached or a later chunk failed (see Failure).
	Truncated bool
	Failure   string
	Usage     Usage
}

type Options struct {
	Instructions string
	MaxTokens    int
	MaxChunks    int
}

// Pipeline summarizes chronological records chunk by chunk and merges the
// chunk summaries when there is more than one.
type Pipeline struct {
	partitioner *Partitioner
	summarizer  *Summarizer
	merger      *Merger
}

func NewPipeline(client llm.Client, opts Options) *Pipeline {
	if opts.Instructions == "" {
		opts.Instructions = SummaryInstructions
	}
	est := NewEstimator(client, opts.Instructions, opts.MaxTokens)
	return &Pipeline{
		partitioner: NewPartitioner(est, opts.MaxChunks),
		summarizer:  NewSummarizer(client),
		merger:      NewMerger(client),
	}
}

func (p *Pipeline) Partitioner() *Partitioner { return p.partitioner }

// Run summarizes records, which must be oldest first.
//
// A failure of the first chunk fails the run with domain.ErrFirstChunkFailed
// or domain.ErrUnrecoverableChunk. A later failure stops the run and keeps
// what was produced. A failed merge returns the partial Result together with
// a *MergeError.
func (p *Pipeline) Run(ctx context.Context, sessionID string, records []domain.ChatRecord) (*Result, error) {
	if len(records) == 0 {
		return nil, domain.ErrNoRecords
	}

	res := &Result{}
	remaining := records

	for len(remaining) > 0 && len(res.Summaries) < p.partitioner.MaxChunks() {
		first := len(res.Summaries) == 0

		chunk, err := p.partitioner.Next(remaining)
		if err != nil {
			if first {
				return nil, err
			}
			slog.Warn("stop summarizing, chunk cannot be built", "session_id", sessionID, "error", err)
			res.Failure = err.Error()
			break
		}

		slog.Debug("summarizing chunk",
			"session_id", sessionID,
			"chunk", len(res.Summaries),
			"records", len(chunk.Records),
			"prompt_tokens", chunk.Tokens,
		)

		out, err := p.summarizer.Summarize(ctx, chunk)
		res.Usage.add(out)
		if err != nil {
			if first {
				return nil, fmt.Errorf("%w: %w", domain.ErrFirstChunkFailed, err)
			}
			slog.Warn("stop summarizing, chunk failed", "session_id", sessionID, "chunk", len(res.Summaries), "error", err)
			res.Failure = err.Error()
			break
		}

		res.Summaries = append(res.Summaries, out.Content)
		res.Count += len(chunk.Records)
		remaining = remaining[len(chunk.Records):]
	}
	res.Truncated = len(remaining) > 0

	if len(res.Summaries) == 1 {
		res.Final = res.Summaries[0]
		return res, nil
	}

	out, err := p.merger.Merge(ctx, sessionID, res.Summaries)
	res.Usage.add(out)
	if err != nil {
		return res, err
	}
	res.Final = out.Content
	res.Merged = true
	return res, nil
}

// FailureReason extracts the provider text from a run error, if any.
func FailureReason(err error) string {
	var cerr *CompletionError
	if errors.As(err, &cerr) {
		return cerr.Reason
	}
	return ""
}
