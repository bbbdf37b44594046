// Package postgres implements the storage.Backend interface using GORM/PostgreSQL.
// Catalog and spawn handling is shared with the other SQL backends through the
// embedded GORM backend.
package postgres

import (
	"fmt"
	"log/slog"

	"github.com/GL1TCH1337/cs2-retakes/internal/config"
	"github.com/GL1TCH1337/cs2-retakes/internal/database"
	gormstorage "github.com/GL1TCH1337/cs2-retakes/internal/storage/gorm"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Dependencies holds all dependencies for the Postgres storage backend.
type Dependencies struct {
	// DB is an existing connection. When nil, Init connects using Config.
	DB       *gorm.DB
	Config   config.PostgresConfig
	Logger   *slog.Logger
	DBLogger zerolog.Logger
}

// Backend implements storage.Backend on a Postgres database.
type Backend struct {
	*gormstorage.Backend
	deps  Dependencies
	db    *database.Manager
	owned bool
}

// New creates a new Postgres storage backend.
func New(deps Dependencies) *Backend {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Backend{
		deps: deps,
		db:   database.NewManager(deps.DBLogger),
	}
}

// Init connects if no DB was injected, then migrates the schema.
func (b *Backend) Init() error {
	db := b.deps.DB
	if db == nil {
		if err := b.db.OpenPostgres(b.deps.Config.DSN()); err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		db = b.db.DB
		b.owned = true
	}

	backend := gormstorage.New(gormstorage.Dependencies{
		DB:        db,
		Logger:    b.deps.Logger,
		BatchSize: b.deps.Config.BatchSize,
	})
	if err := backend.Init(); err != nil {
		_ = b.release()
		return fmt.Errorf("failed to setup DB: %w", err)
	}
	b.Backend = backend
	b.deps.Logger.Info("Postgres storage ready",
		"host", b.deps.Config.Host, "database", b.deps.Config.Database, "owned", b.owned)
	return nil
}

// Close flushes pending writes and closes the connection if Init opened it.
func (b *Backend) Close() error {
	if b.Backend == nil {
		return nil
	}
	err := b.Backend.Close()
	if cerr := b.release(); err == nil {
		err = cerr
	}
	return err
}

func (b *Backend) release() error {
	if !b.owned {
		return nil
	}
	b.owned = false
	return b.db.Close()
}
