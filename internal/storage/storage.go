// internal/storage/storage.go
package storage

import "github.com/GL1TCH1337/cs2-retakes/pkg/core"

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Catalog persistence, one ordered list of entries per map
	LoadCatalog(mapName string) ([]core.Ordnance, error)
	SaveCatalog(mapName string, entries []core.Ordnance) error

	// Dispatch audit trail
	RecordSpawn(r *core.SpawnRecord) error
}

// Flusher is an optional interface for backends that buffer writes.
type Flusher interface {
	Flush() error
}

// MapLister is an optional interface for backends that can enumerate the
// maps they hold a catalog for.
type MapLister interface {
	Maps() ([]string, error)
}
