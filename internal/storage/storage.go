// Package storage picks and opens the repository.Store named by the config.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/itemgraph/internal/config"
	"github.com/sakif/itemgraph/internal/repository"
	"github.com/sakif/itemgraph/internal/repository/memory"
	"github.com/sakif/itemgraph/internal/repository/sqlite"
)

// Open returns the store for cfg.Store, seeded with the demo data when
// cfg.SeedDemo is set. The caller owns the store and must Close it.
//
// Seeding a SQLite file that already has items is skipped, so restarting with
// SEED_DEMO=true doesn't pile up copies of the demo rows.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (repository.Store, error) {
	var store repository.Store

	switch cfg.Store {
	case config.StoreMemory:
		store = memory.New()
		logger.Info("using in-memory store; data is lost on exit")

	case config.StoreSQLite:
		// os.MkdirAll creates all parent directories if needed (like `mkdir -p`).
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
			}
		}
		db, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		store = db
		logger.Info("using sqlite store", slog.String("path", cfg.DBPath))

	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	if cfg.SeedDemo {
		if err := seedIfEmpty(ctx, store, logger); err != nil {
			store.Close()
			return nil, err
		}
	}
	return store, nil
}

func seedIfEmpty(ctx context.Context, store repository.Store, logger *slog.Logger) error {
	items, err := store.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("checking for existing items: %w", err)
	}
	if len(items) > 0 {
		logger.Info("store already has data; skipping demo seed", slog.Int("items", len(items)))
		return nil
	}
	if err := memory.Seed(ctx, store); err != nil {
		return fmt.Errorf("seeding demo data: %w", err)
	}
	logger.Info("demo data seeded")
	return nil
}
