package db

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
)

// Store persists named blobs. Get returns ErrNotFound for missing keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close(ctx context.Context) error
}

// Backend names accepted by Open.
const (
	BackendMemory    = "memory"
	BackendFile      = "file"
	BackendSQLite    = "sqlite"
	BackendRedis     = "redis"
	BackendSurrealDB = "surrealdb"
)

// Config selects and configures a storage backend.
type Config struct {
	Backend string
	DataDir string // file and sqlite backends

	RedisURL    string
	RedisPrefix string

	Surreal SurrealConfig
}

// Open connects the configured backend.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemory(), nil
	case BackendFile:
		return NewFile(filepath.Join(cfg.DataDir, "store"))
	case BackendSQLite:
		return OpenSQLite(ctx, filepath.Join(cfg.DataDir, "jobfinder.db"))
	case BackendRedis:
		return OpenRedis(ctx, cfg.RedisURL, cfg.RedisPrefix)
	case BackendSurrealDB:
		return NewSurreal(ctx, cfg.Surreal, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// OpenOrMemory opens the configured backend, falling back to an in-memory
// store when it is unavailable. The fallback is logged, never fatal.
func OpenOrMemory(ctx context.Context, cfg Config, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.Default()
	}
	store, err := Open(ctx, cfg, logger)
	if err != nil {
		logger.Warn("storage backend unavailable, favorites will not survive restart",
			"backend", cfg.Backend, "error", err)
		return NewMemory()
	}
	logger.Debug("storage backend opened", "backend", cfg.Backend)
	return store
}
