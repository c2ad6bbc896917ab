package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/set-night/chatdigest/internal/config"
	"github.com/spf13/cobra"
)

func newRecordsCmd(getEnv envFunc) *cobra.Command {
	var (
		limit int
		since int64
	)

	cmd := &cobra.Command{
		Use:   "records <session-id>",
		Short: "List stored records of a session, newest first",
		Example: `  digestctl records -100123456789
  digestctl records -100123456789 --limit 20 --since 1700000000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnv(cmd, false)
			if err != nil {
				return err
			}

			records, err := env.Store.Query(cmd.Context(), args[0], since, limit)
			if err != nil {
				return fmt.Errorf("list records: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No records found.")
				return nil
			}

			fmt.Fprintf(out, "Records (%d):\n\n", len(records))
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tT\tAUTHOR\tTYPE\tCONTENT")
			for _, r := range records {
				mark := ""
				if r.IsTriggered {
					mark = "T"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					r.MessageID,
					time.Unix(r.Timestamp, 0).UTC().Format(time.DateTime),
					mark,
					r.Author,
					r.ContentType,
					preview(r.Content, 60),
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", config.DefaultLimit, "max records")
	cmd.Flags().Int64Var(&since, "since", 0, "only records after this unix time")
	return cmd
}

func preview(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
