// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/GL1TCH1337/cs2-retakes/internal/util"
	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
)

// SpawnExport is the root JSON structure of an exported spawn log
type SpawnExport struct {
	MapName string             `json:"map"`
	Count   int                `json:"count"`
	Spawns  []core.SpawnRecord `json:"spawns"`
}

// exportSpawns writes the records of one map to a JSON file, gzipped when
// compressOutput is set, and returns its path.
func (b *Backend) exportSpawns(mapName string, records []core.SpawnRecord) (string, error) {
	export := SpawnExport{
		MapName: mapName,
		Count:   len(records),
		Spawns:  records,
	}

	var started time.Time
	if len(records) > 0 {
		started = records[0].Time
	}
	timestamp := started.UTC().Format("20060102_150405")

	filename := fmt.Sprintf("spawns_%s_%s.json", util.SafeFileName(mapName), timestamp)
	if b.cfg.CompressOutput {
		filename += ".gz"
	}
	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if b.cfg.CompressOutput {
		if err := writeGzipJSON(outputPath, export); err != nil {
			return "", err
		}
	} else {
		if err := writeJSON(outputPath, export); err != nil {
			return "", err
		}
	}
	return outputPath, nil
}

func writeJSON(path string, data SpawnExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func writeGzipJSON(path string, data SpawnExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}
