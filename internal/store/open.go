package store

import (
	"context"
	"fmt"

	"invoicer/internal/config"
	"invoicer/internal/logger"
)

// Open builds the backend selected by cfg.Store and wraps it in a Store.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	log := logger.WithComponent("store")

	var (
		backend Backend
		err     error
	)
	switch cfg.Store {
	case config.StoreFile:
		backend, err = NewFileBackend(cfg.DataDir)
	case config.StoreSQLite:
		backend, err = OpenSQLite(cfg.SQLitePath())
	case config.StorePostgres:
		backend, err = OpenPostgres(cfg.DSN)
	case config.StoreRedis:
		backend, err = OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisPrefix)
	case config.StoreMemory:
		backend = NewMemoryBackend()
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}

	log.Debug().Str("kind", cfg.Store).Msg("Store opened")
	return New(backend), nil
}
