// Package convert translates between core ordnance types and their GORM rows.
package convert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/GL1TCH1337/cs2-retakes/internal/geo"
	"github.com/GL1TCH1337/cs2-retakes/internal/model"
	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

// EntryToModel converts a catalog entry at position seq of mapName into a row.
func EntryToModel(mapName string, seq int, o core.Ordnance) model.OrdnanceEntry {
	return model.OrdnanceEntry{
		MapName:  mapName,
		Seq:      seq,
		Name:     o.Name,
		Type:     typeTag(o.Type),
		Team:     teamTag(o.Team),
		Site:     siteTag(o.Site),
		Position: pointOrEmpty(o.Position),
		Angle:    datatypes.NewJSONType(vectorToModel(o.Angle)),
		Velocity: datatypes.NewJSONType(vectorToModel(o.Velocity)),
		Delay:    o.Delay,
	}
}

// EntryToCore converts a row back into a catalog entry. Missing geometry stays nil.
func EntryToCore(e model.OrdnanceEntry) (core.Ordnance, error) {
	typ, err := core.ParseOrdnanceType(e.Type)
	if err != nil {
		return core.Ordnance{}, fmt.Errorf("entry %d: %w", e.ID, err)
	}
	team, err := core.ParseTeam(e.Team)
	if err != nil {
		return core.Ordnance{}, fmt.Errorf("entry %d: %w", e.ID, err)
	}
	site, err := core.ParseSite(e.Site)
	if err != nil {
		return core.Ordnance{}, fmt.Errorf("entry %d: %w", e.ID, err)
	}

	return core.Ordnance{
		Name:     e.Name,
		Type:     typ,
		Position: pointToVector(e.Position),
		Angle:    vectorToCore(e.Angle.Data()),
		Velocity: vectorToCore(e.Velocity.Data()),
		Team:     team,
		Site:     site,
		Delay:    e.Delay,
	}, nil
}

// EntriesToModel converts a whole catalog, numbering rows in catalog order.
func EntriesToModel(mapName string, entries []core.Ordnance) []model.OrdnanceEntry {
	rows := make([]model.OrdnanceEntry, len(entries))
	for i, o := range entries {
		rows[i] = EntryToModel(mapName, i, o)
	}
	return rows
}

// SpawnToModel converts a dispatch record into an audit row.
func SpawnToModel(r *core.SpawnRecord) model.OrdnanceSpawn {
	return model.OrdnanceSpawn{
		Time:     r.Time,
		MapName:  r.MapName,
		Name:     r.Name,
		Type:     typeTag(r.Type),
		Team:     teamTag(r.Team),
		Site:     siteTag(r.Site),
		Position: pointOrEmpty(r.Position),
		Outcome:  string(r.Outcome),
		Error:    r.Error,
	}
}

// SpawnToCore converts an audit row back into a dispatch record. Unparseable
// tags fall back to zero values; audit rows are never rejected.
func SpawnToCore(s model.OrdnanceSpawn) core.SpawnRecord {
	typ, _ := core.ParseOrdnanceType(s.Type)
	team, _ := core.ParseTeam(s.Team)
	site, _ := core.ParseSite(s.Site)
	return core.SpawnRecord{
		Time:     s.Time,
		MapName:  s.MapName,
		Name:     s.Name,
		Type:     typ,
		Team:     team,
		Site:     site,
		Position: pointToVector(s.Position),
		Outcome:  core.SpawnOutcome(s.Outcome),
		Error:    s.Error,
	}
}

// typeTag stores known types by name and anything else by ordinal so the
// value always parses back.
func typeTag(t core.OrdnanceType) string {
	name := t.String()
	if strings.HasPrefix(name, "OrdnanceType(") {
		return strconv.Itoa(int(t))
	}
	return name
}

func teamTag(t core.Team) string {
	if t < core.TeamUnassigned || t > core.CounterTerrorist {
		return strconv.Itoa(int(t))
	}
	return t.String()
}

func siteTag(s core.Site) string {
	if s != core.SiteA && s != core.SiteB {
		return strconv.Itoa(int(s))
	}
	return s.String()
}

func pointOrEmpty(v *core.Vector3) geom.Point {
	if v == nil {
		return geo.EmptyPoint()
	}
	return geo.PointFromVector(*v)
}

func pointToVector(p geom.Point) *core.Vector3 {
	v, ok := geo.VectorFromPoint(p)
	if !ok {
		return nil
	}
	return &v
}

func vectorToModel(v *core.Vector3) *model.OrdnanceVector {
	if v == nil {
		return nil
	}
	return &model.OrdnanceVector{X: v.X, Y: v.Y, Z: v.Z}
}

func vectorToCore(v *model.OrdnanceVector) *core.Vector3 {
	if v == nil {
		return nil
	}
	return &core.Vector3{X: v.X, Y: v.Y, Z: v.Z}
}
