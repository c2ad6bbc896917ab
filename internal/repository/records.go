package repository

import (
	"context"

	"github.com/set-night/chatdigest/internal/config"
	"github.com/set-night/chatdigest/internal/domain"
)

// RecordStore is the durable chat-record log.
type RecordStore interface {
	// Upsert inserts record, replacing any stored record with the same
	// (SessionID, MessageID).
	Upsert(ctx context.Context, record domain.ChatRecord) error
	// Query returns records of sessionID with Timestamp > since, newest
	// first, at most limit of them (limit <= 0 means the store default).
	Query(ctx context.Context, sessionID string, since int64, limit int) ([]domain.ChatRecord, error)
	Close() error
}

func queryLimit(limit int) int {
	if limit <= 0 {
		return config.DefaultQueryLimit
	}
	return limit
}
