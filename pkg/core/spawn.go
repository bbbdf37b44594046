// pkg/core/spawn.go
package core

import "time"

// SpawnOutcome describes how a single dispatch attempt ended.
type SpawnOutcome string

const (
	OutcomeSpawned     SpawnOutcome = "spawned"
	OutcomeFailed      SpawnOutcome = "failed"
	OutcomeInvalid     SpawnOutcome = "invalid"
	OutcomeUnsupported SpawnOutcome = "unsupported"
)

// SpawnRecord is the audit trail of one dispatch attempt.
type SpawnRecord struct {
	Time     time.Time    `json:"time"`
	MapName  string       `json:"map"`
	Name     string       `json:"name"`
	Type     OrdnanceType `json:"type"`
	Team     Team         `json:"team"`
	Site     Site         `json:"bombsite"`
	Position *Vector3     `json:"position,omitempty"`
	Outcome  SpawnOutcome `json:"outcome"`
	Error    string       `json:"error,omitempty"`
}
