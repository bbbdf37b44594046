// Package roster answers how many players are currently on each team.
package roster

import (
	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
	"github.com/GL1TCH1337/cs2-retakes/pkg/engine"
)

// Gate caps per-team throws at the number of live players on that team.
type Gate struct {
	roster engine.Roster
}

// NewGate creates a gate over the given roster.
func NewGate(r engine.Roster) *Gate {
	return &Gate{roster: r}
}

// Count returns the live player count for team. It is never negative.
func (g *Gate) Count(team core.Team) int {
	if g == nil || g.roster == nil {
		return 0
	}
	n := g.roster.PlayerCount(team)
	if n < 0 {
		return 0
	}
	return n
}
