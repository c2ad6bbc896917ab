package cli

import (
	"errors"
	"fmt"

	"github.com/set-night/chatdigest/internal/config"
	"github.com/set-night/chatdigest/internal/domain"
	"github.com/set-night/chatdigest/internal/service"
	"github.com/spf13/cobra"
)

func newPlanCmd(getEnv envFunc) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "plan <session-id>",
		Short: "Show how a summary would chunk the transcript, without calling the model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnv(cmd, true)
			if err != nil {
				return err
			}

			svc := newSummaryService(env)
			records, err := svc.LoadTranscript(cmd.Context(), args[0], limit)
			if err != nil {
				return fmt.Errorf("load records: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(records) <= 1 {
				fmt.Fprintln(out, "Not enough records to summarize.")
				return nil
			}

			partitioner := svc.Pipeline().Partitioner()
			chunks, consumed, splitErr := partitioner.Split(records)

			fmt.Fprintf(out, "Records: %d, budget: %d tokens, max chunks: %d\n\n",
				len(records), env.Cfg.MaxTokensPerChunk, partitioner.MaxChunks())
			for i, c := range chunks {
				fmt.Fprintf(out, "Chunk %d: %d records (%d-%d), %d tokens\n",
					i+1, len(c.Records), c.Records[0].MessageID, c.Records[len(c.Records)-1].MessageID, c.Tokens)
			}
			if len(chunks) > 1 {
				fmt.Fprintf(out, "Merge: 1 call over %d summaries\n", len(chunks))
			}

			switch {
			case errors.Is(splitErr, domain.ErrUnrecoverableChunk):
				fmt.Fprintf(out, "\nStopped: %v\n", splitErr)
			case splitErr != nil:
				return splitErr
			case consumed < len(records):
				fmt.Fprintf(out, "\nChunk cap reached: %d of %d records left out\n", len(records)-consumed, len(records))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", config.DefaultLimit, "number of most recent records")
	return cmd
}

func newSummaryService(env *Env) *service.SummaryService {
	return service.NewSummaryService(env.Store, env.Client, service.SummaryOptions{
		MaxTokensPerChunk: env.Cfg.MaxTokensPerChunk,
		MaxChunks:         env.Cfg.MaxChunks,
	})
}
