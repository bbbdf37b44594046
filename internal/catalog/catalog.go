// Package catalog holds the ordnance entries configured for the current map.
package catalog

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
)

// Catalog is the parsed entry list for one map. Entries are copied on the way
// in and on the way out, so callers can never alias its contents.
type Catalog struct {
	mu      sync.RWMutex
	mapName string
	entries []core.Ordnance
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{}
}

// Replace swaps in the entries for mapName.
func (c *Catalog) Replace(mapName string, entries []core.Ordnance) {
	cp := core.CloneAll(entries)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mapName = mapName
	c.entries = cp
}

// Snapshot returns a copy of the current entries in catalog order.
func (c *Catalog) Snapshot() []core.Ordnance {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return core.CloneAll(c.entries)
}

func (c *Catalog) MapName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mapName
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Source reads the persisted entries of a map.
type Source interface {
	LoadCatalog(mapName string) ([]core.Ordnance, error)
}

// Loader fills a Catalog from a Source.
type Loader struct {
	source  Source
	catalog *Catalog
	log     *slog.Logger
}

// NewLoader creates a loader writing into catalog.
func NewLoader(source Source, catalog *Catalog, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{source: source, catalog: catalog, log: logger}
}

// Load reads mapName from the source and replaces the catalog. On error the
// catalog is cleared so a stale map's entries are never scheduled.
func (l *Loader) Load(mapName string) error {
	entries, err := l.source.LoadCatalog(mapName)
	if err != nil {
		l.catalog.Replace(mapName, nil)
		return fmt.Errorf("load catalog for %s: %w", mapName, err)
	}
	l.catalog.Replace(mapName, entries)

	invalid := 0
	for _, e := range entries {
		if !e.HasGeometry() {
			invalid++
		}
		if !e.Team.Playing() {
			l.log.Warn("Ordnance is not assigned to a playing team and will never be thrown",
				"map", mapName, "name", e.Name, "team", e.Team.String())
		}
	}
	l.log.Info("Loaded map ordnance", "map", mapName, "count", len(entries), "incomplete", invalid)
	return nil
}
