package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/set-night/chatdigest/internal/config"
	"github.com/set-night/chatdigest/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func rec(session string, id, ts int64, content string) domain.ChatRecord {
	return domain.ChatRecord{
		SessionID:   session,
		MessageID:   id,
		Author:      "alice",
		Content:     content,
		ContentType: domain.ContentText,
		Timestamp:   ts,
	}
}

func TestSQLiteStore_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	store := openTestSQLite(t)

	require.NoError(t, store.Upsert(ctx, rec("s1", 1, 100, "first")))
	edited := rec("s1", 1, 100, "edited")
	edited.IsTriggered = true
	require.NoError(t, store.Upsert(ctx, edited))

	got, err := store.Query(ctx, "s1", 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "edited", got[0].Content)
	assert.True(t, got[0].IsTriggered)
}

func TestSQLiteStore_QueryOrder(t *testing.T) {
	ctx := context.Background()
	store := openTestSQLite(t)

	// Two records share timestamp 200; insertion order breaks the tie.
	for _, r := range []domain.ChatRecord{
		rec("s1", 10, 100, "a"),
		rec("s1", 11, 200, "b"),
		rec("s1", 12, 200, "c"),
		rec("s1", 13, 300, "d"),
		rec("other", 14, 400, "x"),
	} {
		require.NoError(t, store.Upsert(ctx, r))
	}

	got, err := store.Query(ctx, "s1", 0, 0)
	require.NoError(t, err)

	var contents []string
	for _, r := range got {
		contents = append(contents, r.Content)
	}
	assert.Equal(t, []string{"d", "c", "b", "a"}, contents)
}

func TestSQLiteStore_UpsertKeepsTiePosition(t *testing.T) {
	ctx := context.Background()
	store := openTestSQLite(t)

	require.NoError(t, store.Upsert(ctx, rec("s1", 1, 100, "a")))
	require.NoError(t, store.Upsert(ctx, rec("s1", 2, 100, "b")))
	require.NoError(t, store.Upsert(ctx, rec("s1", 1, 100, "a2")))

	got, err := store.Query(ctx, "s1", 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Content)
	assert.Equal(t, "a2", got[1].Content)
}

func TestSQLiteStore_QuerySinceAndLimit(t *testing.T) {
	ctx := context.Background()
	store := openTestSQLite(t)

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, store.Upsert(ctx, rec("s1", i, i*10, "m")))
	}

	got, err := store.Query(ctx, "s1", 20, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(50), got[0].Timestamp)
	assert.Equal(t, int64(30), got[2].Timestamp)

	got, err = store.Query(ctx, "s1", 0, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(5), got[0].MessageID)
	assert.Equal(t, int64(4), got[1].MessageID)

	got, err = store.Query(ctx, "missing", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStore_MigratesLegacyTable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "legacy.db")

	legacy, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, legacy.Exec(`CREATE TABLE chat_records (
		session_id TEXT NOT NULL,
		message_id INTEGER NOT NULL,
		author TEXT,
		content TEXT,
		content_type TEXT,
		timestamp INTEGER,
		PRIMARY KEY (session_id, message_id))`).Error)
	require.NoError(t, legacy.Exec(
		`INSERT INTO chat_records VALUES ('s1', 1, 'bob', 'old', 'text', 100)`).Error)
	sqlDB, err := legacy.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	// A second pass finds the column and does nothing.
	require.NoError(t, store.Migrate())

	got, err := store.Query(ctx, "s1", 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "old", got[0].Content)
	assert.False(t, got[0].IsTriggered)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), &config.Config{StoreDriver: "mongo"}, nil)
	assert.ErrorIs(t, err, domain.ErrUnsupportedStore)
}

func TestOpenStore_SQLite(t *testing.T) {
	cfg := &config.Config{
		StoreDriver: config.StoreSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "chat.db"),
	}
	store, err := OpenStore(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Upsert(context.Background(), rec("s1", 1, 1, "hi")))
	got, err := store.Query(context.Background(), "s1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
