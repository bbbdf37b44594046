package roster

import (
	"testing"

	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
	"github.com/stretchr/testify/assert"
)

type fixedRoster map[core.Team]int

func (r fixedRoster) PlayerCount(team core.Team) int { return r[team] }

func TestGate_Count(t *testing.T) {
	g := NewGate(fixedRoster{core.Terrorist: 3, core.CounterTerrorist: -2})

	assert.Equal(t, 3, g.Count(core.Terrorist))
	assert.Equal(t, 0, g.Count(core.CounterTerrorist), "negative counts clamp to zero")
}

func TestGate_NilRoster(t *testing.T) {
	assert.Equal(t, 0, NewGate(nil).Count(core.Terrorist))

	var g *Gate
	assert.Equal(t, 0, g.Count(core.CounterTerrorist))
}

func TestTracker(t *testing.T) {
	tr := NewTracker()
	tr.SetTeam(1, core.Terrorist)
	tr.SetTeam(2, core.Terrorist)
	tr.SetTeam(3, core.CounterTerrorist)
	tr.SetTeam(4, core.TeamSpectator)

	assert.Equal(t, 2, tr.PlayerCount(core.Terrorist))
	assert.Equal(t, 1, tr.PlayerCount(core.CounterTerrorist))

	tr.SetTeam(2, core.CounterTerrorist)
	tr.Remove(1)
	assert.Equal(t, 0, tr.PlayerCount(core.Terrorist))
	assert.Equal(t, 2, tr.PlayerCount(core.CounterTerrorist))
	assert.Equal(t, map[core.Team]int{core.Terrorist: 0, core.CounterTerrorist: 2}, tr.Counts())

	tr.Reset()
	assert.Equal(t, 0, tr.PlayerCount(core.CounterTerrorist))
}

func TestTracker_ImplementsGateRoster(t *testing.T) {
	tr := NewTracker()
	tr.SetTeam(7, core.CounterTerrorist)

	assert.Equal(t, 1, NewGate(tr).Count(core.CounterTerrorist))
}
