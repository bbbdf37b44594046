// Package gormstorage implements the storage.Backend interface on top of GORM.
// Catalog writes are transactional; spawn audit rows are buffered in a queue
// and inserted in batches.
package gormstorage

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/GL1TCH1337/cs2-retakes/internal/model"
	"github.com/GL1TCH1337/cs2-retakes/internal/model/convert"
	"github.com/GL1TCH1337/cs2-retakes/internal/queue"
	"github.com/GL1TCH1337/cs2-retakes/pkg/core"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultBatchSize is used when Dependencies.BatchSize is not positive.
const DefaultBatchSize = 100

var (
	// ErrNotInitialized is returned by every operation before Init.
	ErrNotInitialized = errors.New("gorm storage not initialized")
	// ErrNoDatabase is returned by Init when no connection was injected.
	ErrNoDatabase = errors.New("gorm storage has no database connection")
)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB        *gorm.DB
	Logger    *slog.Logger
	BatchSize int
}

// Backend implements storage.Backend using GORM with queue-based batch writes
// for spawn records.
type Backend struct {
	deps   Dependencies
	log    *slog.Logger
	spawns *queue.Queue[model.OrdnanceSpawn]
	ready  bool
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.BatchSize <= 0 {
		deps.BatchSize = DefaultBatchSize
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Backend{
		deps: deps,
		log:  log,
	}
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// Init creates the spawn queue and migrates the schema.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return ErrNoDatabase
	}
	b.spawns = queue.New[model.OrdnanceSpawn]()

	if err := b.deps.DB.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	b.ready = true
	b.log.Debug("GORM storage initialized", "dialect", b.deps.DB.Dialector.Name())
	return nil
}

// Close writes any buffered spawn records.
func (b *Backend) Close() error {
	if !b.ready {
		return nil
	}
	err := b.Flush()
	b.ready = false
	return err
}

// LoadCatalog returns the entries of mapName in authoring order. A map with no
// rows yields an empty catalog.
func (b *Backend) LoadCatalog(mapName string) ([]core.Ordnance, error) {
	if !b.ready {
		return nil, ErrNotInitialized
	}

	var rows []model.OrdnanceEntry
	if err := b.deps.DB.
		Where("map_name = ?", mapName).
		Order("seq asc").
		Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load catalog for %s: %w", mapName, err)
	}

	entries := make([]core.Ordnance, 0, len(rows))
	for _, row := range rows {
		entry, err := convert.EntryToCore(row)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog for %s: %w", mapName, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// SaveCatalog replaces every row of mapName with entries in one transaction.
func (b *Backend) SaveCatalog(mapName string, entries []core.Ordnance) error {
	if !b.ready {
		return ErrNotInitialized
	}

	rows := convert.EntriesToModel(mapName, entries)
	err := b.deps.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("map_name = ?", mapName).Delete(&model.OrdnanceEntry{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(&rows, b.deps.BatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save catalog for %s: %w", mapName, err)
	}

	b.log.Info("Saved map ordnance", "map", mapName, "count", len(rows))
	return nil
}

// RecordSpawn queues the record and flushes once a full batch is buffered.
func (b *Backend) RecordSpawn(r *core.SpawnRecord) error {
	if !b.ready {
		return ErrNotInitialized
	}
	if n := b.spawns.Push(convert.SpawnToModel(r)); n >= b.deps.BatchSize {
		return b.Flush()
	}
	return nil
}

// Flush inserts every queued spawn record. On failure the batch is put back
// so the next flush retries it.
func (b *Backend) Flush() error {
	if b.spawns == nil {
		return nil
	}
	batch := b.spawns.GetAndEmpty()
	if len(batch) == 0 {
		return nil
	}
	if err := b.deps.DB.CreateInBatches(&batch, b.deps.BatchSize).Error; err != nil {
		b.spawns.Requeue(batch)
		b.log.Error("Failed to write spawn records", "count", len(batch), "error", err)
		return fmt.Errorf("failed to write spawn records: %w", err)
	}
	b.log.Debug("Wrote spawn records", "count", len(batch))
	return nil
}

// Pending returns the number of buffered spawn records.
func (b *Backend) Pending() int {
	if b.spawns == nil {
		return 0
	}
	return b.spawns.Len()
}

// Maps lists every map with at least one catalog row, sorted by name.
func (b *Backend) Maps() ([]string, error) {
	if !b.ready {
		return nil, ErrNotInitialized
	}
	var names []string
	if err := b.deps.DB.Model(&model.OrdnanceEntry{}).
		Distinct("map_name").
		Order("map_name asc").
		Pluck("map_name", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to list maps: %w", err)
	}
	return names, nil
}

// Spawns returns stored spawn records for mapName, oldest first.
func (b *Backend) Spawns(mapName string) ([]core.SpawnRecord, error) {
	if !b.ready {
		return nil, ErrNotInitialized
	}
	var rows []model.OrdnanceSpawn
	if err := b.deps.DB.
		Where("map_name = ?", mapName).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "time"}}).
		Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load spawn records for %s: %w", mapName, err)
	}
	out := make([]core.SpawnRecord, len(rows))
	for i, row := range rows {
		out[i] = convert.SpawnToCore(row)
	}
	return out, nil
}
