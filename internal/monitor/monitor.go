package monitor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/GL1TCH1337/cs2-retakes/internal/match"
	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
)

// IndexCounter reports the scheduling index size per site and team.
type IndexCounter interface {
	Counts() map[core.Site]map[core.Team]int
}

// TeamCounter reports connected players per team.
type TeamCounter interface {
	Counts() map[core.Team]int
}

// PendingCounter reports how much work is waiting.
type PendingCounter interface {
	Pending() int
}

// CatalogInfo describes the loaded catalog.
type CatalogInfo interface {
	MapName() string
	Len() int
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Match   *match.Context
	Catalog CatalogInfo
	Index   IndexCounter
	Roster  TeamCounter
	// Timers and Storage are optional.
	Timers     PendingCounter
	Storage    PendingCounter
	StatusFile string
	Logger     *slog.Logger
	Now        func() time.Time
}

// Status is a point-in-time view of the plugin state.
type Status struct {
	Time           time.Time                 `json:"time"`
	Map            string                    `json:"map"`
	Round          int                       `json:"round"`
	Site           string                    `json:"site,omitempty"`
	CatalogMap     string                    `json:"catalogMap"`
	CatalogEntries int                       `json:"catalogEntries"`
	Index          map[string]map[string]int `json:"index"`
	Players        map[string]int            `json:"players"`
	PendingTimers  int                       `json:"pendingTimers"`
	PendingWrites  int                       `json:"pendingWrites"`
}

// Service builds status reports
type Service struct {
	deps Dependencies
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Service{deps: deps}
}

// Status collects the current state. Must be called from the host thread.
func (s *Service) Status() Status {
	st := Status{
		Time:    s.deps.Now(),
		Index:   make(map[string]map[string]int, len(core.Sites)),
		Players: make(map[string]int, len(core.Teams)),
	}

	if s.deps.Match != nil {
		st.Map = s.deps.Match.MapName()
		st.Round = s.deps.Match.Round()
		st.Site = s.deps.Match.Site()
	}
	if s.deps.Catalog != nil {
		st.CatalogMap = s.deps.Catalog.MapName()
		st.CatalogEntries = s.deps.Catalog.Len()
	}
	if s.deps.Index != nil {
		for site, teams := range s.deps.Index.Counts() {
			row := make(map[string]int, len(teams))
			for team, n := range teams {
				row[team.String()] = n
			}
			st.Index[site.String()] = row
		}
	}
	if s.deps.Roster != nil {
		for team, n := range s.deps.Roster.Counts() {
			st.Players[team.String()] = n
		}
	}
	if s.deps.Timers != nil {
		st.PendingTimers = s.deps.Timers.Pending()
	}
	if s.deps.Storage != nil {
		st.PendingWrites = s.deps.Storage.Pending()
	}
	return st
}

// StatusJSON returns Status rendered as indented JSON.
func (s *Service) StatusJSON() (string, error) {
	b, err := json.MarshalIndent(s.Status(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode status: %w", err)
	}
	return string(b), nil
}

// Refresh rewrites the status file when one is configured.
func (s *Service) Refresh() error {
	if s.deps.StatusFile == "" {
		return nil
	}
	out, err := s.StatusJSON()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.deps.StatusFile), 0755); err != nil {
		return fmt.Errorf("create status directory: %w", err)
	}
	if err := os.WriteFile(s.deps.StatusFile, []byte(out+"\n"), 0644); err != nil {
		s.deps.Logger.Error("Error writing status file", "path", s.deps.StatusFile, "error", err)
		return err
	}
	return nil
}
