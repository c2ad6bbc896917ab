package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ErrorReporter receives recovered panics, e.g. a Telegram ops chat.
type ErrorReporter interface {
	LogError(err error, context string)
}

// Recover returns middleware that recovers from panics in handlers. reporter
// may be nil.
func Recover(reporter ErrorReporter) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				slog.Error("panic recovered in handler",
					"panic", r,
					"update_id", update.ID,
					"stack", string(debug.Stack()),
				)
				if reporter != nil {
					reporter.LogError(fmt.Errorf("panic: %v", r), fmt.Sprintf("update %d", update.ID))
				}
			}()
			next(ctx, b, update)
		}
	}
}
