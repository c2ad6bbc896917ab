package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/set-night/chatdigest/internal/llm"
	"github.com/set-night/chatdigest/internal/summary"
	"github.com/shopspring/decimal"
)

// CalculateCost prices a token count in USD given per-1M-token prices.
func CalculateCost(promptTokens, completionTokens int, promptPrice, completionPrice float64) decimal.Decimal {
	promptCost := decimal.NewFromInt(int64(promptTokens)).Mul(decimal.NewFromFloat(promptPrice))
	completionCost := decimal.NewFromInt(int64(completionTokens)).Mul(decimal.NewFromFloat(completionPrice))
	return promptCost.Add(completionCost).Div(decimal.NewFromInt(1_000_000))
}

// costFooter renders the usage line appended to a summary, or "" when the
// model price is unknown.
func costFooter(ctx context.Context, prices llm.PriceSource, model string, usage summary.Usage) string {
	if prices == nil || usage.Calls == 0 {
		return ""
	}
	price, err := prices.Price(ctx, model)
	if err != nil {
		slog.Warn("price lookup failed", "model", model, "error", err)
		return ""
	}

	line := fmt.Sprintf("\n\n---\n%d次调用，%d tokens", usage.Calls, usage.TotalTokens)
	if !price.IsFree() {
		cost := CalculateCost(usage.PromptTokens, usage.CompletionTokens, price.Prompt, price.Completion)
		line += fmt.Sprintf("，约$%s", cost.StringFixed(4))
	}
	return line
}
