package roster

import (
	"sync"

	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
)

// Tracker keeps the team of every connected player slot, fed by host events.
type Tracker struct {
	mu    sync.RWMutex
	slots map[int]core.Team
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{slots: make(map[int]core.Team)}
}

// SetTeam records that the player in slot is now on team.
func (t *Tracker) SetTeam(slot int, team core.Team) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.slots[slot] = team
}

// Remove forgets a disconnected player.
func (t *Tracker) Remove(slot int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.slots, slot)
}

// Reset forgets every player.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.slots = make(map[int]core.Team)
}

// PlayerCount returns the number of tracked players on team.
func (t *Tracker) PlayerCount(team core.Team) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, tm := range t.slots {
		if tm == team {
			n++
		}
	}
	return n
}

// Counts returns the player count of both playing teams.
func (t *Tracker) Counts() map[core.Team]int {
	out := make(map[core.Team]int, len(core.Teams))
	for _, team := range core.Teams {
		out[team] = t.PlayerCount(team)
	}
	return out
}
