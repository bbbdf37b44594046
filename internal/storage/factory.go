// internal/storage/factory.go
package storage

import (
	"fmt"
	"log/slog"

	"github.com/GL1TCH1337/cs2-retakes/internal/config"
	"github.com/GL1TCH1337/cs2-retakes/internal/storage/memory"
	"github.com/GL1TCH1337/cs2-retakes/internal/storage/postgres"
	sqlitestorage "github.com/GL1TCH1337/cs2-retakes/internal/storage/sqlite"

	"github.com/rs/zerolog"
)

// NewBackend creates a storage backend based on configuration. The backend
// is not initialized; callers run Init.
func NewBackend(cfg config.StorageConfig, logger *slog.Logger, dbLog zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return postgres.New(postgres.Dependencies{
			Config:   cfg.Postgres,
			Logger:   logger,
			DBLogger: dbLog,
		}), nil
	case "sqlite":
		return sqlitestorage.New(cfg.SQLite, logger, dbLog), nil
	case "memory", "":
		return memory.New(cfg.Memory, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
