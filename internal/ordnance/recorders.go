package ordnance

import (
	"errors"

	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
)

// Recorders fans a spawn record out to several sinks, such as the storage
// backend and InfluxDB. Every sink sees the record even if an earlier one fails.
type Recorders []Recorder

// RecordSpawn implements Recorder.
func (rs Recorders) RecordSpawn(r *core.SpawnRecord) error {
	var errs []error
	for _, rec := range rs {
		if rec == nil {
			continue
		}
		if err := rec.RecordSpawn(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
