package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/set-night/chatdigest/internal/domain"
	"github.com/set-night/chatdigest/internal/llm"
)

// MergeError carries the un-merged chunk summaries of a failed merge.
type MergeError struct {
	Reason string
	Digest string
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("%s: %s", domain.ErrMergeFailed, e.Reason)
}

func (e *MergeError) Unwrap() error { return domain.ErrMergeFailed }

// Merger folds several chunk summaries into one.
type Merger struct {
	client llm.Client
}

func NewMerger(client llm.Client) *Merger {
	return &Merger{client: client}
}

// Merge asks for one summary of the numbered chunk summaries. The request
// is not re-chunked; the chunk cap keeps it small.
func (m *Merger) Merge(ctx context.Context, seedID string, summaries []string) (llm.Completion, error) {
	digest := FormatDigest(summaries)

	session := m.client.NewSession(seedID, MergeInstructions)
	session.Append(mergeQueryPrefix + digest)

	out, err := complete(ctx, m.client, session)
	if err != nil {
		return out, &MergeError{Reason: err.Error(), Digest: digest}
	}
	return out, nil
}

// FormatDigest numbers summaries from 1, oldest first.
func FormatDigest(summaries []string) string {
	var b strings.Builder
	for i, s := range summaries {
		fmt.Fprintf(&b, "第%d段摘要内容:\n%s\n----------------\n\n", i+1, s)
	}
	return b.String()
}
