package repository

import (
	"context"
	"fmt"

	"github.com/set-night/chatdigest/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type recordRow struct {
	SessionID   string `gorm:"column:session_id;primaryKey;autoIncrement:false;index:idx_chat_records_session_ts,priority:1"`
	MessageID   int64  `gorm:"column:message_id;primaryKey;autoIncrement:false"`
	Author      string `gorm:"column:author"`
	Content     string `gorm:"column:content"`
	ContentType string `gorm:"column:content_type"`
	Timestamp   int64  `gorm:"column:timestamp;index:idx_chat_records_session_ts,priority:2"`
	IsTriggered bool   `gorm:"column:is_triggered;not null;default:false"`
}

func (recordRow) TableName() string { return "chat_records" }

// SQLiteStore keeps chat records in a local SQLite file. Writes go through a
// single connection.
type SQLiteStore struct {
	db *gorm.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.Migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the table when missing and adds is_triggered to tables
// created before the column existed. Safe to run repeatedly.
func (s *SQLiteStore) Migrate() error {
	m := s.db.Migrator()
	if !m.HasTable(&recordRow{}) {
		if err := m.CreateTable(&recordRow{}); err != nil {
			return fmt.Errorf("create chat_records: %w", err)
		}
		return nil
	}
	if !m.HasColumn(&recordRow{}, "is_triggered") {
		if err := m.AddColumn(&recordRow{}, "IsTriggered"); err != nil {
			return fmt.Errorf("add is_triggered: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Upsert(ctx context.Context, r domain.ChatRecord) error {
	row := recordRow{
		SessionID:   r.SessionID,
		MessageID:   r.MessageID,
		Author:      r.Author,
		Content:     r.Content,
		ContentType: string(r.ContentType),
		Timestamp:   r.Timestamp,
		IsTriggered: r.IsTriggered,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "message_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"author", "content", "content_type", "timestamp", "is_triggered"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

// Query orders ties on timestamp by rowid, which an upsert keeps.
func (s *SQLiteStore) Query(ctx context.Context, sessionID string, since int64, limit int) ([]domain.ChatRecord, error) {
	var rows []recordRow
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND timestamp > ?", sessionID, since).
		Order("timestamp DESC").
		Order("rowid DESC").
		Limit(queryLimit(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	records := make([]domain.ChatRecord, len(rows))
	for i, r := range rows {
		records[i] = domain.ChatRecord{
			SessionID:   r.SessionID,
			MessageID:   r.MessageID,
			Author:      r.Author,
			Content:     r.Content,
			ContentType: domain.ContentType(r.ContentType),
			Timestamp:   r.Timestamp,
			IsTriggered: r.IsTriggered,
		}
	}
	return records, nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
