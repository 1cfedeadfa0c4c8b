// Command itemgraph is the terminal shell for the item graph. It reads the
// same environment as cmd/server, so with the default STORE=sqlite both work
// on the same database file.
//
// Any arguments are script files; they run in order before the prompt opens.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/chzyer/readline"

	"github.com/sakif/itemgraph/internal/config"
	"github.com/sakif/itemgraph/internal/service"
	"github.com/sakif/itemgraph/internal/shell"
	"github.com/sakif/itemgraph/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Logs go to stderr so they don't interleave with command output tables.
	level, _ := cfg.Level()
	if level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "itemgraph> ",
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("initializing readline: %w", err)
	}
	defer rl.Close()

	sh := shell.New(shell.Services{
		Users:     service.NewUserService(store, logger),
		Items:     service.NewItemService(store, logger),
		Relations: service.NewRelationService(store, logger),
		Reports:   service.NewReportService(store, store, logger),
	}, rl, rl.Stdout(), logger)

	for _, script := range os.Args[1:] {
		if err := sh.ExecuteScript(ctx, script); err != nil {
			if errors.Is(err, shell.ErrExit) {
				return nil
			}
			logger.Error("script failed", slog.String("script", script), slog.String("error", err.Error()))
		}
	}

	fmt.Fprintln(rl.Stdout(), "Item Graph shell. Type 'help' for the list of commands.")
	for {
		err := sh.Run(ctx)
		switch {
		case err == nil:
		case errors.Is(err, readline.ErrInterrupt):
			fmt.Fprintln(rl.Stdout(), "Use 'exit' or 'quit' to leave.")
		case errors.Is(err, io.EOF), errors.Is(err, shell.ErrExit):
			return nil
		default:
			fmt.Fprintln(rl.Stdout(), "Error:", err)
		}
	}
}
