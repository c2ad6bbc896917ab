package config

import "time"

const (
	// Summary command
	SummaryCommand = "总结"
	DefaultLimit   = 99

	// Store
	DefaultQueryLimit = 9999

	// Token budget per summarization call
	DefaultMaxTokensPerChunk = 3600
	DefaultMaxChunks         = 6

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// A summary run makes up to MaxChunks+1 sequential model calls.
	RequestTimeout = 5 * time.Minute

	// Per-call HTTP timeout for LLM backends
	LLMCallTimeout = 90 * time.Second

	// In-flight guard expiry, in case a run never releases its lock
	GuardTTL = 10 * time.Minute

	// Model price cache duration
	PriceCacheDuration = 1 * time.Hour

	// Default OpenRouter endpoint
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
)
