package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/chatdigest/internal/domain"
)

// PostgresStore keeps chat records in the chat_records table. The schema is
// owned by the embedded migrations (see RunMigrations).
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const upsertRecordSQL = `
INSERT INTO chat_records (session_id, message_id, author, content, content_type, timestamp, is_triggered)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (session_id, message_id) DO UPDATE SET
    author       = EXCLUDED.author,
    content      = EXCLUDED.content,
    content_type = EXCLUDED.content_type,
    timestamp    = EXCLUDED.timestamp,
    is_triggered = EXCLUDED.is_triggered`

func (s *PostgresStore) Upsert(ctx context.Context, r domain.ChatRecord) error {
	_, err := s.pool.Exec(ctx, upsertRecordSQL,
		r.SessionID, r.MessageID, r.Author, r.Content, string(r.ContentType), r.Timestamp, r.IsTriggered)
	if err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

const queryRecordsSQL = `
SELECT session_id, message_id, author, content, content_type, timestamp, is_triggered
FROM chat_records
WHERE session_id = $1 AND timestamp > $2
ORDER BY timestamp DESC, seq DESC
LIMIT $3`

func (s *PostgresStore) Query(ctx context.Context, sessionID string, since int64, limit int) ([]domain.ChatRecord, error) {
	rows, err := s.pool.Query(ctx, queryRecordsSQL, sessionID, since, queryLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ChatRecord, error) {
		var r domain.ChatRecord
		var contentType string
		err := row.Scan(&r.SessionID, &r.MessageID, &r.Author, &r.Content, &contentType, &r.Timestamp, &r.IsTriggered)
		r.ContentType = domain.ContentType(contentType)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}
	return records, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
