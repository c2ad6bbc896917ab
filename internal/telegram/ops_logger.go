package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/set-night/chatdigest/internal/config"
	"github.com/set-night/chatdigest/internal/domain"
)

// OpsLogger posts operational events to a Telegram forum chat, one topic per
// event type. Unconfigured topics are skipped, as is everything before a bot
// is attached.
type OpsLogger struct {
	bot    *bot.Bot
	chatID int64
	topics map[LogType]int
}

func NewOpsLogger(cfg *config.Config) *OpsLogger {
	return &OpsLogger{
		chatID: cfg.LogTelegramChatID,
		topics: map[LogType]int{
			LogTypeError:   cfg.LogTopicError,
			LogTypeSummary: cfg.LogTopicSummary,
		},
	}
}

// Attach sets the bot used for sending.
func (l *OpsLogger) Attach(b *bot.Bot) {
	l.bot = b
}

type LogType string

const (
	LogTypeError   LogType = "error"
	LogTypeSummary LogType = "summary"
)

func (l *OpsLogger) Log(logType LogType, message string) {
	if l == nil || l.bot == nil || l.chatID == 0 {
		return
	}
	topicID := l.topics[logType]
	if topicID == 0 {
		return
	}

	message = truncateLog(message)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.chatID,
		Text:            message,
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", logType, "error", err)
	}
}

func (l *OpsLogger) LogError(err error, context string) {
	l.Log(LogTypeError, formatErrorLog(err, context, time.Now()))
}

// LogSummary records the outcome of a summary request.
func (l *OpsLogger) LogSummary(chatID int64, limit int, reply domain.Reply) {
	l.Log(LogTypeSummary, formatSummaryLog(chatID, limit, reply))
}

func formatErrorLog(err error, context string, at time.Time) string {
	return fmt.Sprintf("❌ Error\n\nContext: %s\nError: %s\nTime: %s",
		context, err.Error(), at.Format("2006-01-02 15:04:05"))
}

func formatSummaryLog(chatID int64, limit int, reply domain.Reply) string {
	preview := []rune(reply.Content)
	if len(preview) > 200 {
		preview = append(preview[:200], '…')
	}
	return fmt.Sprintf("📝 Summary\n\nChat: %d\nLimit: %d\nResult: %s\n\n%s",
		chatID, limit, reply.Type, string(preview))
}

func truncateLog(message string) string {
	runes := []rune(message)
	if len(runes) > config.MaxTelegramMessageLen {
		return string(runes[:config.MaxTelegramMessageLen-20]) + "\n\n... (truncated)"
	}
	return message
}
