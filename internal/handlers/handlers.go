package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GL1TCH1337/cs2-retakes/internal/catalog"
	"github.com/GL1TCH1337/cs2-retakes/internal/cvars"
	"github.com/GL1TCH1337/cs2-retakes/internal/dispatcher"
	"github.com/GL1TCH1337/cs2-retakes/internal/editor"
	"github.com/GL1TCH1337/cs2-retakes/internal/match"
	"github.com/GL1TCH1337/cs2-retakes/internal/monitor"
	"github.com/GL1TCH1337/cs2-retakes/internal/ordnance"
	"github.com/GL1TCH1337/cs2-retakes/internal/parser"
	"github.com/GL1TCH1337/cs2-retakes/internal/roster"
	"github.com/GL1TCH1337/cs2-retakes/internal/storage"
	"github.com/GL1TCH1337/cs2-retakes/internal/timer"
	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
)

// Host commands
const (
	CmdMapStart      = ":MAP:START:"
	CmdRoundStart    = ":ROUND:START:"
	CmdRoundSite     = ":ROUND:SITE:"
	CmdPlayerTeam    = ":PLAYER:TEAM:"
	CmdPlayerLeave   = ":PLAYER:LEAVE:"
	CmdCvar          = ":CVAR:"
	CmdGrenadeAdd    = ":GRENADE:ADD:"
	CmdGrenadeReload = ":GRENADE:RELOAD:"
	CmdStatus        = ":STATUS:"
)

const telemetryFlushTimeout = 5 * time.Second

// Flusher exports buffered telemetry, such as the OTel log pipeline.
type Flusher interface {
	Flush(ctx context.Context) error
}

// ErrNoMap is returned by commands that need a loaded map.
var ErrNoMap = errors.New("no map loaded")

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Storage   storage.Backend
	Catalog   *catalog.Catalog
	Scheduler *ordnance.Scheduler
	Roster    *roster.Tracker
	Cvars     *cvars.Store
	Match     *match.Context
	// Timers is set when the plugin owns the timer facility and has to drop
	// pending callbacks itself on map change.
	Timers  *timer.Manager
	Monitor *monitor.Service
	Logger  *slog.Logger
	// Telemetry is flushed on every map change when set.
	Telemetry Flusher

	Enabled         bool
	DefaultVelocity core.Vector3
	// SaveAuthored appends entries built by :GRENADE:ADD: to the map catalog
	// and persists them through Storage.
	SaveAuthored bool
}

// Service translates host events into plugin operations
type Service struct {
	deps   Dependencies
	loader *catalog.Loader
	log    *slog.Logger
}

// NewService creates a new handler service
func NewService(deps Dependencies) *Service {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.New()
	}
	if deps.Match == nil {
		deps.Match = match.NewContext()
	}
	if deps.DefaultVelocity == (core.Vector3{}) {
		deps.DefaultVelocity = editor.DefaultVelocity
	}
	s := &Service{deps: deps, log: log}
	if deps.Storage != nil {
		s.loader = catalog.NewLoader(deps.Storage, deps.Catalog, log)
	}
	return s
}

// RegisterHandlers registers every host command on d.
func (s *Service) RegisterHandlers(d *dispatcher.Dispatcher) {
	d.Register(CmdMapStart, s.handleMapStart, dispatcher.MinArgs(1, "<map>"), dispatcher.Logged())
	d.Register(CmdRoundStart, s.handleRoundStart, dispatcher.MinArgs(1, "<round>"), dispatcher.Logged())
	d.Register(CmdRoundSite, s.handleRoundSite, dispatcher.MinArgs(1, "<A|B>"), dispatcher.Logged())
	d.Register(CmdPlayerTeam, s.handlePlayerTeam, dispatcher.MinArgs(2, "<slot> <team>"), dispatcher.Logged())
	d.Register(CmdPlayerLeave, s.handlePlayerLeave, dispatcher.MinArgs(1, "<slot>"), dispatcher.Logged())
	d.Register(CmdCvar, s.handleCvar, dispatcher.MinArgs(2, "<name> <value>"), dispatcher.Logged())
	d.Register(CmdGrenadeAdd, s.handleGrenadeAdd,
		dispatcher.MinArgs(4, "<x,y,z> <pitch,yaw,roll> "+editor.Usage), dispatcher.Logged(), dispatcher.Recovered())
	d.Register(CmdGrenadeReload, s.handleGrenadeReload, dispatcher.Logged())
	d.Register(CmdStatus, s.handleStatus, dispatcher.Logged())
}

// LoadMap switches every map-bound component to mapName and returns the
// number of catalog entries loaded. The index is rebuilt even when loading
// fails, leaving it empty.
func (s *Service) LoadMap(mapName string) (int, error) {
	if s.deps.Timers != nil {
		if dropped := s.deps.Timers.MapChange(); dropped > 0 {
			s.log.Debug("Dropped pending timers", "count", dropped)
		}
	}
	if s.deps.Roster != nil {
		s.deps.Roster.Reset()
	}
	s.deps.Match.SetMap(mapName)

	loadErr := s.loadCatalog(mapName)

	if f, ok := s.deps.Storage.(storage.Flusher); ok {
		if err := f.Flush(); err != nil {
			s.log.Warn("Flushing spawn records failed", "error", err)
		}
	}
	if s.deps.Telemetry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
		if err := s.deps.Telemetry.Flush(ctx); err != nil {
			s.log.Warn("Flushing telemetry failed", "error", err)
		}
		cancel()
	}
	s.refreshStatus()
	return s.deps.Catalog.Len(), loadErr
}

func (s *Service) loadCatalog(mapName string) error {
	var err error
	if s.loader == nil {
		s.deps.Catalog.Replace(mapName, nil)
		err = fmt.Errorf("load catalog for %s: no storage configured", mapName)
	} else {
		err = s.loader.Load(mapName)
	}
	if s.deps.Scheduler != nil {
		s.deps.Scheduler.Rebuild(s.deps.Catalog.Snapshot())
	}
	return err
}

func (s *Service) refreshStatus() {
	if s.deps.Monitor == nil {
		return
	}
	if err := s.deps.Monitor.Refresh(); err != nil {
		s.log.Warn("Status refresh failed", "error", err)
	}
}

func (s *Service) handleMapStart(e dispatcher.Event) (any, error) {
	mapName := parser.Arg(e.Args, 0)
	if mapName == "" {
		return nil, fmt.Errorf("%s: empty map name", CmdMapStart)
	}
	return s.LoadMap(mapName)
}

func (s *Service) handleRoundStart(e dispatcher.Event) (any, error) {
	round, err := parser.ParseInt(e.Args[0])
	if err != nil {
		return nil, fmt.Errorf("parse round: %w", err)
	}
	s.deps.Match.SetRound(round)
	return nil, nil
}

func (s *Service) handleRoundSite(e dispatcher.Event) (any, error) {
	site, err := parser.ParseSite(e.Args[0])
	if err != nil {
		return nil, err
	}
	s.deps.Match.SetSite(site.String())

	if !s.deps.Enabled {
		s.log.Debug("Ordnance disabled, nothing scheduled", "site", site.String())
		return nil, nil
	}
	if s.deps.Scheduler == nil {
		return nil, errors.New("ordnance scheduler not configured")
	}
	s.deps.Scheduler.ScheduleForSite(site)
	s.refreshStatus()
	return nil, nil
}

func (s *Service) handlePlayerTeam(e dispatcher.Event) (any, error) {
	slot, err := parser.ParseInt(e.Args[0])
	if err != nil {
		return nil, fmt.Errorf("parse slot: %w", err)
	}
	team, err := parser.ParseHostTeam(e.Args[1])
	if err != nil {
		return nil, err
	}
	if s.deps.Roster != nil {
		s.deps.Roster.SetTeam(slot, team)
	}
	return nil, nil
}

func (s *Service) handlePlayerLeave(e dispatcher.Event) (any, error) {
	slot, err := parser.ParseInt(e.Args[0])
	if err != nil {
		return nil, fmt.Errorf("parse slot: %w", err)
	}
	if s.deps.Roster != nil {
		s.deps.Roster.Remove(slot)
	}
	return nil, nil
}

func (s *Service) handleCvar(e dispatcher.Event) (any, error) {
	name := parser.Arg(e.Args, 0)
	if name == "" {
		return nil, fmt.Errorf("%s: empty setting name", CmdCvar)
	}
	values := make([]string, 0, len(e.Args)-1)
	for i := 1; i < len(e.Args); i++ {
		values = append(values, parser.Arg(e.Args, i))
	}
	if s.deps.Cvars != nil {
		s.deps.Cvars.Set(name, strings.Join(values, " "))
	}
	return nil, nil
}

// handleGrenadeAdd builds an entry from the authoring player's pose and
// returns it as a paste-ready snippet.
func (s *Service) handleGrenadeAdd(e dispatcher.Event) (any, error) {
	origin, err := parser.ParseVector(e.Args[0])
	if err != nil {
		return nil, err
	}
	angles, err := parser.ParseVector(e.Args[1])
	if err != nil {
		return nil, err
	}

	entry, err := editor.Build(e.Args[2:], editor.Pose{Origin: origin, EyeAngles: angles}, s.deps.DefaultVelocity)
	if err != nil {
		return nil, err
	}
	snippet, err := editor.Snippet(entry)
	if err != nil {
		return nil, err
	}

	if s.deps.SaveAuthored {
		if err := s.saveAuthored(entry); err != nil {
			return snippet, err
		}
	}
	return snippet, nil
}

func (s *Service) saveAuthored(entry core.Ordnance) error {
	if !s.deps.Match.Loaded() {
		return ErrNoMap
	}
	if s.deps.Storage == nil {
		return errors.New("no storage configured")
	}
	mapName := s.deps.Match.MapName()
	entries := append(s.deps.Catalog.Snapshot(), entry)
	if err := s.deps.Storage.SaveCatalog(mapName, entries); err != nil {
		return fmt.Errorf("save catalog for %s: %w", mapName, err)
	}
	s.deps.Catalog.Replace(mapName, entries)
	if s.deps.Scheduler != nil {
		s.deps.Scheduler.Rebuild(s.deps.Catalog.Snapshot())
	}
	s.log.Info("Saved authored ordnance", "map", mapName, "name", entry.Name)
	return nil
}

func (s *Service) handleGrenadeReload(_ dispatcher.Event) (any, error) {
	if !s.deps.Match.Loaded() {
		return nil, ErrNoMap
	}
	if err := s.loadCatalog(s.deps.Match.MapName()); err != nil {
		return nil, err
	}
	s.refreshStatus()
	return s.deps.Catalog.Len(), nil
}

func (s *Service) handleStatus(_ dispatcher.Event) (any, error) {
	if s.deps.Monitor == nil {
		return nil, errors.New("status monitor not configured")
	}
	return s.deps.Monitor.StatusJSON()
}
