package handler

import (
	"github.com/go-telegram/bot"
	"github.com/set-night/chatdigest/internal/config"
	"github.com/set-night/chatdigest/internal/service"
	"github.com/set-night/chatdigest/internal/telegram"
)

// Handler holds all dependencies needed by command handlers.
type Handler struct {
	bot       *bot.Bot
	cfg       *config.Config
	hooks     service.Hooks
	rules     service.TriggerRules
	opsLogger *telegram.OpsLogger
	me        telegram.BotIdentity
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot       *bot.Bot
	Cfg       *config.Config
	Hooks     service.Hooks
	Rules     service.TriggerRules
	OpsLogger *telegram.OpsLogger
	Me        telegram.BotIdentity
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:       deps.Bot,
		cfg:       deps.Cfg,
		hooks:     deps.Hooks,
		rules:     deps.Rules,
		opsLogger: deps.OpsLogger,
		me:        deps.Me,
	}
}
