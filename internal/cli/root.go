// Package cli provides the digestctl command-line interface for inspecting
// and summarizing stored chat records without the bot.
package cli

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/set-night/chatdigest"
	"github.com/set-night/chatdigest/internal/config"
	"github.com/set-night/chatdigest/internal/llm"
	"github.com/set-night/chatdigest/internal/repository"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

// Env is what commands run against.
type Env struct {
	Cfg    *config.Config
	Store  repository.RecordStore
	Client llm.Client
}

// Opener builds the Env. needLLM is false for commands that only touch the
// store.
type Opener func(ctx context.Context, needLLM bool) (*Env, error)

// NewRootCommand wires all subcommands to open.
func NewRootCommand(open Opener) *cobra.Command {
	var (
		verbose bool
		env     *Env
	)

	root := &cobra.Command{
		Use:   "digestctl",
		Short: "Inspect and summarize stored chat records",
		Long: `digestctl works on the same record store as the bot.

It can apply migrations, list and import records, show how a transcript
would be split into chunks, and run a summary from the terminal.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(config.SetupLoggerWithWriters(cmd.ErrOrStderr(), nil, level))
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if env != nil && env.Store != nil {
				if err := env.Store.Close(); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to close store: %v\n", err)
				}
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	// getEnv opens the environment once per invocation.
	getEnv := func(cmd *cobra.Command, needLLM bool) (*Env, error) {
		if env != nil && (!needLLM || env.Client != nil) {
			return env, nil
		}
		e, err := open(cmd.Context(), needLLM)
		if err != nil {
			return nil, err
		}
		env = e
		return env, nil
	}

	root.AddCommand(
		newMigrateCmd(getEnv),
		newRecordsCmd(getEnv),
		newImportCmd(getEnv),
		newPlanCmd(getEnv),
		newSummarizeCmd(getEnv),
	)
	return root
}

type envFunc func(cmd *cobra.Command, needLLM bool) (*Env, error)

// Execute runs digestctl against the configured store and backend.
func Execute() error {
	return NewRootCommand(openFromConfig).ExecuteContext(context.Background())
}

func openFromConfig(ctx context.Context, needLLM bool) (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	migrationsFS, err := fs.Sub(chatdigest.MigrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("load embedded migrations: %w", err)
	}
	store, err := repository.OpenStore(ctx, cfg, migrationsFS)
	if err != nil {
		return nil, err
	}

	env := &Env{Cfg: cfg, Store: store}
	if needLLM {
		env.Client, err = llm.New(cfg)
		if err != nil {
			store.Close()
			return nil, err
		}
	}
	return env, nil
}
