// pkg/core/team.go
package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Team is a playing side. Values match the engine team numbers.
type Team int

const (
	TeamUnassigned   Team = 0
	TeamSpectator    Team = 1
	Terrorist        Team = 2
	CounterTerrorist Team = 3
)

// Teams is the fixed order in which teams are processed.
var Teams = []Team{Terrorist, CounterTerrorist}

func (t Team) String() string {
	switch t {
	case Terrorist:
		return "Terrorist"
	case CounterTerrorist:
		return "CounterTerrorist"
	case TeamSpectator:
		return "Spectator"
	case TeamUnassigned:
		return "None"
	}
	return fmt.Sprintf("Team(%d)", int(t))
}

// Playing reports whether the team is one of the two playing sides.
func (t Team) Playing() bool {
	return t == Terrorist || t == CounterTerrorist
}

// ParseTeam parses a persisted team tag or its engine number.
func ParseTeam(s string) (Team, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "terrorist", "t":
		return Terrorist, nil
	case "counterterrorist", "ct":
		return CounterTerrorist, nil
	case "spectator":
		return TeamSpectator, nil
	case "none":
		return TeamUnassigned, nil
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n >= 0 && n <= 3 {
		return Team(n), nil
	}
	return 0, fmt.Errorf("unknown team %q", s)
}

func (t Team) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Team) UnmarshalText(b []byte) error {
	v, err := ParseTeam(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t *Team) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		return t.UnmarshalText([]byte(strconv.Itoa(n)))
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("team: %w", err)
	}
	return t.UnmarshalText([]byte(s))
}

// Site is a bombsite.
type Site int

const (
	SiteA Site = iota
	SiteB
)

// Sites lists both bombsites.
var Sites = []Site{SiteA, SiteB}

func (s Site) String() string {
	switch s {
	case SiteA:
		return "A"
	case SiteB:
		return "B"
	}
	return fmt.Sprintf("Site(%d)", int(s))
}

// ParseSite parses "A" or "B" (case-insensitive) or the ordinal.
func ParseSite(s string) (Site, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A", "0":
		return SiteA, nil
	case "B", "1":
		return SiteB, nil
	}
	return 0, fmt.Errorf("unknown bombsite %q", s)
}

func (s Site) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Site) UnmarshalText(b []byte) error {
	v, err := ParseSite(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s *Site) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		return s.UnmarshalText([]byte(strconv.Itoa(n)))
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return fmt.Errorf("bombsite: %w", err)
	}
	return s.UnmarshalText([]byte(str))
}
