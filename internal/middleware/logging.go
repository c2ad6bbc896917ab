package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Logging returns middleware that logs update processing time.
func Logging() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			start := time.Now()

			updateType := "unknown"
			var chatID int64
			var userID int64
			var msg *models.Message

			switch {
			case update.Message != nil:
				updateType = "message"
				msg = update.Message
			case update.EditedMessage != nil:
				updateType = "edited_message"
				msg = update.EditedMessage
			}
			if msg != nil {
				chatID = msg.Chat.ID
				if msg.From != nil {
					userID = msg.From.ID
				}
			}

			next(ctx, b, update)

			slog.Debug("update processed",
				"type", updateType,
				"chat_id", chatID,
				"user_id", userID,
				"duration", time.Since(start),
			)
		}
	}
}
