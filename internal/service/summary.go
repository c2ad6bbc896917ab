package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/set-night/chatdigest/internal/config"
	"github.com/set-night/chatdigest/internal/domain"
	"github.com/set-night/chatdigest/internal/llm"
	"github.com/set-night/chatdigest/internal/repository"
	"github.com/set-night/chatdigest/internal/summary"
)

const (
	msgNoRecords     = "当前无聊天记录"
	msgSummaryFailed = "总结聊天记录失败"
	msgInFlight      = "正在总结中，请稍候"
)

type SummaryOptions struct {
	MaxTokensPerChunk int
	MaxChunks         int
	// Prices enables the cost footer when set.
	Prices llm.PriceSource
	// Guard serializes runs per session. Nil admits every request.
	Guard Guard
}

// SummaryService stores chat records and answers summary requests.
type SummaryService struct {
	store    repository.RecordStore
	client   llm.Client
	pipeline *summary.Pipeline
	prices   llm.PriceSource
	guard    Guard
}

var _ Hooks = (*SummaryService)(nil)

func NewSummaryService(store repository.RecordStore, client llm.Client, opts SummaryOptions) *SummaryService {
	if opts.MaxTokensPerChunk <= 0 {
		opts.MaxTokensPerChunk = config.DefaultMaxTokensPerChunk
	}
	if opts.MaxChunks <= 0 {
		opts.MaxChunks = config.DefaultMaxChunks
	}
	return &SummaryService{
		store:  store,
		client: client,
		pipeline: summary.NewPipeline(client, summary.Options{
			MaxTokens: opts.MaxTokensPerChunk,
			MaxChunks: opts.MaxChunks,
		}),
		prices: opts.Prices,
		guard:  opts.Guard,
	}
}

// Pipeline exposes the configured pipeline for dry runs.
func (s *SummaryService) Pipeline() *summary.Pipeline { return s.pipeline }

func (s *SummaryService) OnIngest(ctx context.Context, record domain.ChatRecord) error {
	if err := s.store.Upsert(ctx, record); err != nil {
		return fmt.Errorf("ingest %s/%d: %w", record.SessionID, record.MessageID, err)
	}
	return nil
}

// OnSummarizeRequest summarizes the last limit records of sessionID. Every
// outcome, failures included, is expressed as a reply.
func (s *SummaryService) OnSummarizeRequest(ctx context.Context, sessionID string, limit int) domain.Reply {
	log := slog.With("request_id", uuid.NewString(), "session_id", sessionID)

	if s.guard != nil {
		release, ok, err := s.guard.Acquire(ctx, sessionID)
		if err != nil {
			log.Error("summary guard", "error", err)
			return domain.ErrorReply(msgSummaryFailed)
		}
		if !ok {
			log.Info("summary already in flight")
			return domain.InfoReply(msgInFlight)
		}
		defer release()
	}

	records, err := s.LoadTranscript(ctx, sessionID, limit)
	if err != nil {
		log.Error("load records", "error", err)
		return domain.ErrorReply(msgSummaryFailed)
	}
	if len(records) <= 1 {
		return domain.InfoReply(msgNoRecords)
	}

	start := time.Now()
	res, err := s.pipeline.Run(ctx, sessionID, records)
	log = log.With("records", len(records), "duration", time.Since(start))

	var mergeErr *summary.MergeError
	switch {
	case errors.As(err, &mergeErr):
		log.Warn("merge failed", "chunks", len(res.Summaries), "error", err)
		return domain.ErrorReply(fmt.Sprintf("合并摘要失败，%s\n原始多段摘要如下：\n%s", mergeErr.Reason, mergeErr.Digest))
	case err != nil:
		log.Error("summary failed", "error", err)
		if reason := summary.FailureReason(err); reason != "" {
			return domain.ErrorReply(reason)
		}
		return domain.ErrorReply(msgSummaryFailed)
	}

	log.Info("summary done",
		"count", res.Count,
		"chunks", len(res.Summaries),
		"merged", res.Merged,
		"truncated", res.Truncated,
		"total_tokens", res.Usage.TotalTokens,
	)

	header := fmt.Sprintf("本次总结了%d条消息。\n\n", res.Count)
	if res.Merged {
		header = fmt.Sprintf("本次总结了%d条消息(分段总结方式)。\n\n", res.Count)
	}
	return domain.TextReply(header + res.Final + costFooter(ctx, s.prices, s.client.Model(), res.Usage))
}

// LoadTranscript returns the last limit records of sessionID, oldest first,
// with quoted reply envelopes reduced to the reply text.
func (s *SummaryService) LoadTranscript(ctx context.Context, sessionID string, limit int) ([]domain.ChatRecord, error) {
	records, err := s.store.Query(ctx, sessionID, 0, limit)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ContentType.IsText() {
			records[i].Content = summary.StripQuotedReply(records[i].Content)
		}
	}
	return domain.Reverse(records), nil
}
