// Package store opens the configured note backend.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/marcus/notepadzone/internal/config"
	"github.com/marcus/notepadzone/internal/notes"
	"github.com/marcus/notepadzone/internal/store/postgres"
	"github.com/marcus/notepadzone/internal/store/redis"
	"github.com/marcus/notepadzone/internal/store/sqlite"
)

// Backend is an open note collection that must be closed on shutdown.
type Backend interface {
	notes.Store
	Close() error
}

// Open connects to the backend named by cfg.Backend.
func Open(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (Backend, error) {
	logger = logger.With("backend", cfg.Backend)

	switch cfg.Backend {
	case config.BackendSQLite:
		return sqlite.Open(ctx, cfg.SQLite.Path, cfg.SQLite.Driver, logger)
	case config.BackendPostgres:
		return postgres.Open(ctx, cfg.Postgres, logger)
	case config.BackendRedis:
		return redis.Open(ctx, cfg.Redis, logger)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
