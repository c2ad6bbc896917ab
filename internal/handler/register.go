package handler

import (
	"github.com/go-telegram/bot"
	"github.com/set-night/chatdigest/internal/config"
)

// Register registers all command handlers on the bot instance.
func (h *Handler) Register() {
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleHelp)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, h.handleHelp)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, h.cfg.TriggerPrefix+config.SummaryCommand, bot.MatchTypePrefix, h.handleSummary)
}
