package ordnance

import (
	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
)

// Index groups catalog entries by bombsite and team. Order within a group is
// catalog order and doubles as throw priority.
type Index struct {
	grouping map[core.Site]map[core.Team][]core.Ordnance
}

// NewIndex creates an empty index with every site/team group present.
func NewIndex() *Index {
	idx := &Index{}
	idx.reset()
	return idx
}

func (idx *Index) reset() {
	idx.grouping = make(map[core.Site]map[core.Team][]core.Ordnance, len(core.Sites))
	for _, site := range core.Sites {
		teams := make(map[core.Team][]core.Ordnance, len(core.Teams))
		for _, team := range core.Teams {
			teams[team] = []core.Ordnance{}
		}
		idx.grouping[site] = teams
	}
}

// Rebuild replaces the whole grouping with copies of the catalog entries.
// Geometry is not validated here.
func (idx *Index) Rebuild(catalog []core.Ordnance) {
	idx.reset()
	for _, entry := range catalog {
		teams, ok := idx.grouping[entry.Site]
		if !ok {
			teams = make(map[core.Team][]core.Ordnance)
			idx.grouping[entry.Site] = teams
		}
		teams[entry.Team] = append(teams[entry.Team], entry.Clone())
	}
}

// Entries returns a copy of the group for site and team.
func (idx *Index) Entries(site core.Site, team core.Team) []core.Ordnance {
	return core.CloneAll(idx.grouping[site][team])
}

// group returns the live group without copying. Callers must not retain it.
func (idx *Index) group(site core.Site, team core.Team) []core.Ordnance {
	return idx.grouping[site][team]
}

// Empty reports whether neither playing team has entries for site.
func (idx *Index) Empty(site core.Site) bool {
	for _, team := range core.Teams {
		if len(idx.grouping[site][team]) > 0 {
			return false
		}
	}
	return true
}

// Counts returns the number of entries per site and team.
func (idx *Index) Counts() map[core.Site]map[core.Team]int {
	out := make(map[core.Site]map[core.Team]int, len(idx.grouping))
	for site, teams := range idx.grouping {
		out[site] = make(map[core.Team]int, len(teams))
		for team, entries := range teams {
			out[site][team] = len(entries)
		}
	}
	return out
}
