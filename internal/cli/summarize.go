package cli

import (
	"context"
	"fmt"

	"github.com/set-night/chatdigest/internal/config"
	"github.com/set-night/chatdigest/internal/domain"
	"github.com/set-night/chatdigest/internal/llm"
	"github.com/set-night/chatdigest/internal/service"
	"github.com/spf13/cobra"
)

func newSummarizeCmd(getEnv envFunc) *cobra.Command {
	var (
		limit    int
		showCost bool
	)

	cmd := &cobra.Command{
		Use:   "summarize <session-id>",
		Short: "Summarize the most recent records of a session",
		Example: `  digestctl summarize -100123456789
  digestctl summarize -100123456789 -n 300 --cost`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("%w: limit must be positive, got %d", domain.ErrInvalidCommand, limit)
			}

			env, err := getEnv(cmd, true)
			if err != nil {
				return err
			}

			opts := service.SummaryOptions{
				MaxTokensPerChunk: env.Cfg.MaxTokensPerChunk,
				MaxChunks:         env.Cfg.MaxChunks,
			}
			if showCost || env.Cfg.ShowCost {
				opts.Prices = llm.NewPriceSource(env.Cfg)
			}
			svc := service.NewSummaryService(env.Store, env.Client, opts)

			ctx, cancel := context.WithTimeout(cmd.Context(), config.RequestTimeout)
			defer cancel()

			reply := svc.OnSummarizeRequest(ctx, args[0], limit)
			fmt.Fprintf(cmd.OutOrStdout(), "[%s]\n%s\n", reply.Type, reply.Content)
			if reply.Type == domain.ReplyError {
				return fmt.Errorf("summary failed")
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", config.DefaultLimit, "number of most recent records")
	cmd.Flags().BoolVar(&showCost, "cost", false, "append token usage and cost")
	return cmd
}
