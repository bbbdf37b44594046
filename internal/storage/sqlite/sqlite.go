// Package sqlitestorage implements the storage.Backend interface using a local
// SQLite database, either a file or a private in-memory database.
// It wraps the GORM backend via composition; the only SQLite-specific concerns
// are opening the database and closing it again.
package sqlitestorage

import (
	"fmt"
	"log/slog"

	"github.com/GL1TCH1337/cs2-retakes/internal/config"
	"github.com/GL1TCH1337/cs2-retakes/internal/database"
	gormstorage "github.com/GL1TCH1337/cs2-retakes/internal/storage/gorm"

	"github.com/rs/zerolog"
)

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	cfg config.SQLiteConfig
	db  *database.Manager
	log *slog.Logger
}

// New creates a new SQLite storage backend. The database is opened by Init.
func New(cfg config.SQLiteConfig, logger *slog.Logger, dbLog zerolog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		cfg: cfg,
		db:  database.NewManager(dbLog),
		log: logger,
	}
}

// Init opens the database and initializes the embedded GORM backend.
func (b *Backend) Init() error {
	if err := b.db.OpenSqlite(b.cfg.Path); err != nil {
		return fmt.Errorf("failed to open SQLite storage: %w", err)
	}

	b.Backend = gormstorage.New(gormstorage.Dependencies{
		DB:        b.db.DB,
		Logger:    b.log,
		BatchSize: b.cfg.BatchSize,
	})
	if err := b.Backend.Init(); err != nil {
		_ = b.db.Close()
		return err
	}
	return nil
}

// Close flushes the embedded GORM backend and closes the database.
func (b *Backend) Close() error {
	if b.Backend == nil {
		return nil
	}
	err := b.Backend.Close()
	if cerr := b.db.Close(); err == nil {
		err = cerr
	}
	return err
}
