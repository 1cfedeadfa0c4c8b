// Package main is the entry point for the item graph web server.
//
// MAIN PACKAGE IN GO:
// main() stays minimal. It reads configuration, builds the logger and the
// store, then hands them to internal/server. Everything else lives in
// imported packages so it can be tested without starting a process.
//
// The terminal shell in cmd/itemgraph shares the same config and storage
// packages, so both binaries can point at the same SQLite file.
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/itemgraph/internal/config"
	"github.com/sakif/itemgraph/internal/server"
	"github.com/sakif/itemgraph/internal/storage"
)

func main() {
	// === 1. READ CONFIGURATION ===
	// Every setting comes from an environment variable with a default
	// (see internal/config). A bad value stops the process before anything opens.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 2. SET UP LOGGING ===
	// Log levels (from least to most severe): Debug → Info → Warn → Error.
	// LOG_LEVEL picks the floor; Validate already rejected unknown names.
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	// === 3. RESOLVE FILE PATHS ===
	// With `go run ./cmd/server` the working directory is the project root,
	// so the relative defaults "web/templates" and "web/static" resolve there.
	templateDir, _ := filepath.Abs(cfg.TemplateDir)
	staticDir, _ := filepath.Abs(cfg.StaticDir)

	// === 4. OPEN THE STORE ===
	// STORE=sqlite (default) persists to DB_PATH; STORE=memory keeps everything
	// in process memory. SEED_DEMO=true loads the demo items on an empty store.
	store, err := storage.Open(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to open store",
			slog.String("store", cfg.Store),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// === 5. CREATE AND START THE SERVER ===
	srv, err := server.New(server.Config{
		Port:        cfg.Port,
		TemplateDir: templateDir,
		StaticDir:   staticDir,
	}, store, logger)
	if err != nil {
		store.Close()
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	// and closes the store on the way out.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
