// internal/storage/memory/memory.go
package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/GL1TCH1337/cs2-retakes/internal/config"
	"github.com/GL1TCH1337/cs2-retakes/internal/util"
	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
)

const mapFileExt = ".json"

// Backend keeps map catalogs as one JSON file per map and holds spawn records
// in memory until Close exports them.
type Backend struct {
	cfg config.MemoryConfig
	log *slog.Logger

	mu          sync.Mutex
	spawns      map[string][]core.SpawnRecord // keyed by map name
	spawnOrder  []string
	exportPaths []string
}

// New creates a file-backed catalog store.
func New(cfg config.MemoryConfig, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		cfg:    cfg,
		log:    logger,
		spawns: make(map[string][]core.SpawnRecord),
	}
}

// Init makes sure the maps directory exists.
func (b *Backend) Init() error {
	if b.cfg.MapsDir == "" {
		return nil
	}
	if err := os.MkdirAll(b.cfg.MapsDir, 0755); err != nil {
		return fmt.Errorf("failed to create maps directory: %w", err)
	}
	return nil
}

// Close exports the buffered spawn records, one file per map.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for _, mapName := range b.spawnOrder {
		path, err := b.exportSpawns(mapName, b.spawns[mapName])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		b.exportPaths = append(b.exportPaths, path)
		b.log.Info("Exported spawn records", "map", mapName, "count", len(b.spawns[mapName]), "path", path)
	}
	b.spawns = make(map[string][]core.SpawnRecord)
	b.spawnOrder = nil
	return errors.Join(errs...)
}

// MapPath returns the catalog file for mapName.
func (b *Backend) MapPath(mapName string) string {
	return filepath.Join(b.cfg.MapsDir, util.SafeFileName(mapName)+mapFileExt)
}

// LoadCatalog reads the grenade list of mapName. A missing file is an empty catalog.
func (b *Backend) LoadCatalog(mapName string) ([]core.Ordnance, error) {
	cfg, err := b.readMapConfig(mapName)
	if err != nil {
		return nil, err
	}
	if cfg.Grenades == nil {
		return []core.Ordnance{}, nil
	}
	return cfg.Grenades, nil
}

// SaveCatalog rewrites the grenade list of mapName, keeping any spawn points
// already in the file.
func (b *Backend) SaveCatalog(mapName string, entries []core.Ordnance) error {
	cfg, err := b.readMapConfig(mapName)
	if err != nil {
		return err
	}
	if cfg.Spawns == nil {
		cfg.Spawns = []json.RawMessage{}
	}
	cfg.Grenades = core.CloneAll(entries)

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode map config: %w", err)
	}
	if err := writeFileAtomic(b.MapPath(mapName), data); err != nil {
		return err
	}
	b.log.Info("Saved map ordnance", "map", mapName, "count", len(entries))
	return nil
}

// RecordSpawn buffers the record for export on Close.
func (b *Backend) RecordSpawn(r *core.SpawnRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.spawns[r.MapName]; !ok {
		b.spawnOrder = append(b.spawnOrder, r.MapName)
	}
	b.spawns[r.MapName] = append(b.spawns[r.MapName], *r)
	return nil
}

// Maps lists the maps with a catalog file, sorted by name.
func (b *Backend) Maps() ([]string, error) {
	dir := b.cfg.MapsDir
	if dir == "" {
		dir = "."
	}
	files, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list maps: %w", err)
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), mapFileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(f.Name(), mapFileExt))
	}
	sort.Strings(names)
	return names, nil
}

// Spawns returns the records buffered for mapName.
func (b *Backend) Spawns(mapName string) []core.SpawnRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]core.SpawnRecord(nil), b.spawns[mapName]...)
}

// ExportedFilePaths returns the files written by Close so far.
func (b *Backend) ExportedFilePaths() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.exportPaths...)
}

func (b *Backend) readMapConfig(mapName string) (core.MapConfig, error) {
	var cfg core.MapConfig
	data, err := os.ReadFile(b.MapPath(mapName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read map config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse map config %s: %w", b.MapPath(mapName), err)
	}
	return cfg, nil
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create maps directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write map config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write map config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace map config: %w", err)
	}
	return nil
}
