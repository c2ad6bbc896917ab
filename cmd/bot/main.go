package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/chatdigest"
	"github.com/set-night/chatdigest/internal/config"
	"github.com/set-night/chatdigest/internal/handler"
	"github.com/set-night/chatdigest/internal/llm"
	"github.com/set-night/chatdigest/internal/middleware"
	"github.com/set-night/chatdigest/internal/repository"
	"github.com/set-night/chatdigest/internal/service"
	"github.com/set-night/chatdigest/internal/telegram"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.BotToken == "" {
		slog.Error("BOT_TOKEN is required")
		os.Exit(1)
	}

	// Setup structured logging
	logger, closeLog := config.SetupLogger(cfg.LogFile, cfg.SlogLevel())
	defer closeLog()
	slog.SetDefault(logger)

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// LLM backend
	client, err := llm.New(cfg)
	if err != nil {
		slog.Error("failed to create llm client", "error", err)
		os.Exit(1)
	}

	// Record store
	migrationsFS, err := fs.Sub(chatdigest.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	store, err := repository.OpenStore(ctx, cfg, migrationsFS)
	if err != nil {
		slog.Error("failed to open record store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// In-flight guard
	var guard service.Guard = service.NewMemoryGuard()
	if cfg.RedisURL != "" {
		redisGuard, err := service.DialRedisGuard(ctx, cfg.RedisURL, config.GuardTTL)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisGuard.Close()
		guard = redisGuard
	}

	var prices llm.PriceSource
	if cfg.ShowCost {
		prices = llm.NewPriceSource(cfg)
	}

	summaryService := service.NewSummaryService(store, client, service.SummaryOptions{
		MaxTokensPerChunk: cfg.MaxTokensPerChunk,
		MaxChunks:         cfg.MaxChunks,
		Prices:            prices,
		Guard:             guard,
	})
	rules := service.NewTriggerRules(cfg)

	// Filled in once the bot exists
	var me telegram.BotIdentity
	opsLogger := telegram.NewOpsLogger(cfg)

	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(opsLogger),
			middleware.Logging(),
			middleware.Recorder(summaryService, rules, &me),
		),
		// Plain messages only need recording, which the middleware does.
		bot.WithDefaultHandler(func(context.Context, *bot.Bot, *models.Update) {}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	self, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}
	me = telegram.BotIdentity{ID: self.ID, Username: self.Username}
	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	opsLogger.Attach(b)

	h := handler.New(handler.Deps{
		Bot:       b,
		Cfg:       cfg,
		Hooks:     summaryService,
		Rules:     rules,
		OpsLogger: opsLogger,
		Me:        me,
	})
	h.Register()

	slog.Info("starting bot",
		"username", me.Username,
		"backend", client.Backend(),
		"model", client.Model(),
		"store", cfg.StoreDriver,
	)
	b.Start(ctx)

	slog.Info("bot stopped gracefully")
}
