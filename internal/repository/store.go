package repository

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/set-night/chatdigest/internal/config"
	"github.com/set-night/chatdigest/internal/domain"
)

// OpenStore opens the record store selected by cfg.StoreDriver and brings its
// schema up to date.
func OpenStore(ctx context.Context, cfg *config.Config, migrationsFS fs.FS) (RecordStore, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		if err := RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
			return nil, err
		}
		pool, err := NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		slog.Info("record store opened", "driver", cfg.StoreDriver)
		return NewPostgresStore(pool), nil
	case config.StoreSQLite:
		store, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		slog.Info("record store opened", "driver", cfg.StoreDriver, "path", cfg.SQLitePath)
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedStore, cfg.StoreDriver)
	}
}
