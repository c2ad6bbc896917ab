package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/set-night/chatdigest/internal/domain"
	"github.com/spf13/cobra"
)

// recordLine is one line of an import file.
type recordLine struct {
	SessionID   string `json:"session_id"`
	MessageID   int64  `json:"message_id"`
	Author      string `json:"author"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	Timestamp   int64  `json:"timestamp"`
	IsTriggered bool   `json:"is_triggered"`
}

func newImportCmd(getEnv envFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.jsonl|->",
		Short: "Upsert records from a JSON Lines file",
		Long: `Each line is one record:

  {"session_id":"g1","message_id":1,"author":"alice","content":"hi","timestamp":1700000000}

Records with an existing (session_id, message_id) replace the stored one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := getEnv(cmd, false)
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open import file: %w", err)
				}
				defer f.Close()
				in = f
			}

			n := 0
			scanner := bufio.NewScanner(in)
			scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
			for line := 1; scanner.Scan(); line++ {
				if len(scanner.Bytes()) == 0 {
					continue
				}
				var rl recordLine
				if err := json.Unmarshal(scanner.Bytes(), &rl); err != nil {
					return fmt.Errorf("line %d: %w", line, err)
				}
				if rl.SessionID == "" {
					return fmt.Errorf("line %d: session_id is required", line)
				}
				if err := env.Store.Upsert(cmd.Context(), rl.record()); err != nil {
					return fmt.Errorf("line %d: %w", line, err)
				}
				n++
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read import file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records.\n", n)
			return nil
		},
	}
}

func (l recordLine) record() domain.ChatRecord {
	ct := domain.ContentType(l.ContentType)
	if ct == "" {
		ct = domain.ContentText
	}
	return domain.ChatRecord{
		SessionID:   l.SessionID,
		MessageID:   l.MessageID,
		Author:      l.Author,
		Content:     l.Content,
		ContentType: ct,
		Timestamp:   l.Timestamp,
		IsTriggered: l.IsTriggered,
	}
}
