// Package ordnance schedules configured utility throws at round start and
// dispatches each one to the engine when its timer fires.
package ordnance

import (
	"log/slog"
	"math"
	"time"

	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
	"github.com/GL1TCH1337/cs2-retakes/pkg/engine"
)

// CatalogSource supplies a copy of the current map catalog.
type CatalogSource interface {
	Snapshot() []core.Ordnance
}

// PlayerCounter is the per-team throw cap.
type PlayerCounter interface {
	Count(team core.Team) int
}

// EntitySpawner materializes one entry.
type EntitySpawner interface {
	Spawn(entry core.Ordnance)
}

// Dependencies holds all dependencies for the scheduler.
type Dependencies struct {
	Catalog  CatalogSource
	Gate     PlayerCounter
	Settings engine.Settings
	Timers   engine.Timers
	Spawner  EntitySpawner
	Logger   *slog.Logger
}

// Scheduler owns the site/team index and turns a bombsite selection into one
// deferred spawn per eligible entry. All calls are expected on the host's
// main thread, so it holds no locks.
type Scheduler struct {
	deps    Dependencies
	index   *Index
	log     *slog.Logger
	metrics *metrics
}

// NewScheduler creates a scheduler and builds its index from the catalog.
func NewScheduler(deps Dependencies) *Scheduler {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	m, err := newMetrics()
	if err != nil {
		log.Warn("Ordnance metrics disabled", "error", err)
	}
	s := &Scheduler{
		deps:    deps,
		index:   NewIndex(),
		log:     log,
		metrics: m,
	}
	if deps.Catalog != nil {
		s.Rebuild(deps.Catalog.Snapshot())
	}
	log.Info("Ordnance scheduler initialized")
	return s
}

// Index exposes the current grouping for status reporting.
func (s *Scheduler) Index() *Index {
	return s.index
}

// Rebuild replaces the index with the given catalog.
func (s *Scheduler) Rebuild(catalog []core.Ordnance) {
	s.index.Rebuild(catalog)

	c := s.index.Counts()
	s.log.Info("Map ordnance calculated",
		"aT", c[core.SiteA][core.Terrorist],
		"aCT", c[core.SiteA][core.CounterTerrorist],
		"bT", c[core.SiteB][core.Terrorist],
		"bCT", c[core.SiteB][core.CounterTerrorist],
	)
}

// ScheduleForSite schedules the entries configured for site. Each team throws
// at most one entry per live teammate, taking entries in catalog order.
func (s *Scheduler) ScheduleForSite(site core.Site) {
	if s.index.Empty(site) {
		s.log.Debug("No ordnance configured for bombsite", "site", site.String())
		return
	}

	freeze := s.freezeTime()
	total := 0

	for _, team := range core.Teams {
		limit := 0
		if s.deps.Gate != nil {
			limit = s.deps.Gate.Count(team)
		}
		thrown := 0

		for _, entry := range s.index.group(site, team) {
			if thrown >= limit {
				s.log.Debug("Skipping ordnance, not enough players on team",
					"name", entry.Name, "team", team.String(), "players", limit)
				if s.metrics != nil {
					s.metrics.add(s.metrics.skipped, entry)
				}
				continue
			}

			delay := freeze + float64(entry.Delay)
			s.schedule(entry.Clone(), delay)
			thrown++
			if s.metrics != nil {
				s.metrics.add(s.metrics.scheduled, entry)
			}

			s.log.Debug("Scheduled ordnance", "name", entry.Name, "delay", delay)
		}
		total += thrown
	}

	s.log.Info("Setup ordnance for bombsite", "count", total, "site", site.String())
}

// schedule binds a private copy of entry to a one-shot timer.
func (s *Scheduler) schedule(entry core.Ordnance, delaySeconds float64) {
	if s.deps.Timers == nil || s.deps.Spawner == nil {
		s.log.Error("Ordnance scheduler is missing timers or spawner", "name", entry.Name)
		return
	}
	spawner := s.deps.Spawner
	s.deps.Timers.After(secondsToDuration(delaySeconds), func() {
		spawner.Spawn(entry)
	})
}

func (s *Scheduler) freezeTime() float64 {
	if s.deps.Settings == nil {
		return 0
	}
	v, ok := s.deps.Settings.FreezeTime()
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func secondsToDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
