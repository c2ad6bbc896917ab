package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/chatdigest/internal/config"
	"github.com/set-night/chatdigest/internal/domain"
	"github.com/set-night/chatdigest/internal/service"
	tg "github.com/set-night/chatdigest/internal/telegram"
)

func (h *Handler) handleSummary(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	if _, ok, _ := service.ParseSummaryCommand(msg.Text, h.cfg.TriggerPrefix); !ok {
		return
	}

	chatID := msg.Chat.ID
	stopTyping := tg.StartTyping(ctx, b, chatID)
	reply, limit, ok := h.answerSummary(ctx, msg)
	stopTyping()
	if !ok {
		return
	}

	switch reply.Type {
	case domain.ReplyError:
		h.opsLogger.LogError(errors.New(reply.Content), fmt.Sprintf("summary chat %d", chatID))
	case domain.ReplyText:
		h.opsLogger.LogSummary(chatID, limit, reply)
	}

	replyTo := msg.ID
	sent, err := tg.SendLongMessage(ctx, b, chatID, tg.FormatReply(reply), &replyTo)
	if err != nil {
		slog.Error("send summary reply", "error", err, "chat_id", chatID)
	}
	if h.cfg.LogBotReplies {
		h.recordOwnMessages(ctx, sent)
	}
}

// answerSummary runs a summary request for msg. ok is false when msg is not
// the summary command.
func (h *Handler) answerSummary(ctx context.Context, msg *models.Message) (reply domain.Reply, limit int, ok bool) {
	limit, ok, err := service.ParseSummaryCommand(msg.Text, h.cfg.TriggerPrefix)
	if !ok {
		return domain.Reply{}, 0, false
	}
	if err != nil {
		return service.UsageReply(h.cfg.TriggerPrefix), 0, true
	}

	ctx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
	defer cancel()

	return h.hooks.OnSummarizeRequest(ctx, service.SessionKey(msg.Chat.ID), limit), limit, true
}

// recordOwnMessages stores the bot's replies so later summaries include them.
func (h *Handler) recordOwnMessages(ctx context.Context, sent []*models.Message) {
	for _, m := range sent {
		in, ok := tg.Inbound(m, h.me)
		if !ok {
			continue
		}
		rec := h.rules.Record(in)
		rec.IsTriggered = false
		if err := h.hooks.OnIngest(ctx, rec); err != nil {
			slog.Error("record bot reply", "error", err, "chat_id", m.Chat.ID, "message_id", m.ID)
		}
	}
}
