package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/chatdigest/internal/service"
	"github.com/set-night/chatdigest/internal/telegram"
)

// Recorder returns middleware that stores every new or edited message
// before routing it. An edit replaces the stored record. me is read per
// update, so it may be filled in after the bot is created.
func Recorder(hooks service.Hooks, rules service.TriggerRules, me *telegram.BotIdentity) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			msg := update.Message
			if msg == nil {
				msg = update.EditedMessage
			}

			if in, ok := telegram.Inbound(msg, *me); ok {
				if err := hooks.OnIngest(ctx, rules.Record(in)); err != nil {
					slog.Error("record message", "error", err, "chat_id", msg.Chat.ID, "message_id", msg.ID)
				}
			}

			next(ctx, b, update)
		}
	}
}
