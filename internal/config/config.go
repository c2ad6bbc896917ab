package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	// Core
	BotToken string `env:"BOT_TOKEN"`

	// Storage
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"chat.db"`

	// LLM
	LLMBackend      string `env:"LLM_BACKEND" envDefault:"openai"`
	LLMModel        string `env:"LLM_MODEL" envDefault:"gpt-3.5-turbo"`
	LLMAPIKey       string `env:"LLM_API_KEY"`
	LLMBaseURL      string `env:"LLM_BASE_URL"`
	AzureAPIVersion string `env:"AZURE_API_VERSION" envDefault:"2023-05-15"`
	OllamaHost      string `env:"OLLAMA_HOST" envDefault:"http://localhost:11434"`

	// Triggers
	TriggerPrefix    string   `env:"PLUGIN_TRIGGER_PREFIX" envDefault:"$"`
	GroupChatPrefix  []string `env:"GROUP_CHAT_PREFIX" envSeparator:"," envDefault:"@bot"`
	GroupChatKeyword []string `env:"GROUP_CHAT_KEYWORD" envSeparator:","`
	SingleChatPrefix []string `env:"SINGLE_CHAT_PREFIX" envSeparator:"," envDefault:""`
	GroupAtOff       bool     `env:"GROUP_AT_OFF" envDefault:"false"`
	LogBotReplies    bool     `env:"LOG_BOT_REPLIES" envDefault:"false"`

	// Summarization
	MaxTokensPerChunk int `env:"MAX_TOKENS_PER_CHUNK" envDefault:"3600"`
	MaxChunks         int `env:"MAX_CHUNKS" envDefault:"6"`

	// Cost footer
	ShowCost            bool    `env:"SHOW_COST" envDefault:"false"`
	PromptPricePerM     float64 `env:"PROMPT_PRICE_PER_M" envDefault:"0"`
	CompletionPricePerM float64 `env:"COMPLETION_PRICE_PER_M" envDefault:"0"`

	// In-flight guard
	RedisURL string `env:"REDIS_URL"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`

	// Telegram logging
	LogTelegramChatID int64 `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError     int   `env:"LOG_TOPIC_ERROR"`
	LogTopicSummary   int   `env:"LOG_TOPIC_SUMMARY"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements env tags cannot express.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for store driver %q", c.StoreDriver)
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for store driver %q", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.MaxTokensPerChunk <= 0 {
		return fmt.Errorf("MAX_TOKENS_PER_CHUNK must be positive, got %d", c.MaxTokensPerChunk)
	}
	if c.MaxChunks <= 0 {
		return fmt.Errorf("MAX_CHUNKS must be positive, got %d", c.MaxChunks)
	}
	return nil
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
