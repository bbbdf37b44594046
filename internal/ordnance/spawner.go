package ordnance

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
	"github.com/GL1TCH1337/cs2-retakes/pkg/engine"
)

var (
	// ErrMissingGeometry is returned for entries without position, angle or velocity.
	ErrMissingGeometry = errors.New("missing position/angle/velocity")
	// ErrUnsupportedType is returned for types without a spawn strategy.
	ErrUnsupportedType = errors.New("unsupported ordnance type")
	// ErrNativeCreation is returned when the engine fails to create the entity.
	ErrNativeCreation = errors.New("native creation failed")
)

// Recorder receives the outcome of every dispatch attempt.
type Recorder interface {
	RecordSpawn(r *core.SpawnRecord) error
}

// SpawnerDependencies holds everything a Spawner needs.
type SpawnerDependencies struct {
	Natives  engine.Natives
	Recorder Recorder
	Logger   *slog.Logger
	// MapName is stamped on spawn records.
	MapName func() string
	Now     func() time.Time
}

// Spawner materializes a single entry through the engine. Failures are local
// to the entry: they are logged and recorded, never returned.
type Spawner struct {
	deps    SpawnerDependencies
	log     *slog.Logger
	metrics *metrics
}

// NewSpawner creates a spawner.
func NewSpawner(deps SpawnerDependencies) *Spawner {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	m, err := newMetrics()
	if err != nil {
		log.Warn("Ordnance metrics disabled", "error", err)
	}
	return &Spawner{deps: deps, log: log, metrics: m}
}

// Spawn creates the entity described by entry.
func (s *Spawner) Spawn(entry core.Ordnance) {
	_, err := s.spawn(entry)
	s.record(entry, err)
	if err != nil {
		if s.metrics != nil {
			s.metrics.add(s.metrics.failed, entry)
		}
		return
	}
	if s.metrics != nil {
		s.metrics.add(s.metrics.spawned, entry)
	}
	s.log.Info("Threw ordnance", "name", entry.Name, "type", entry.Type.String())
}

func (s *Spawner) spawn(entry core.Ordnance) (engine.Projectile, error) {
	if !entry.HasGeometry() {
		s.log.Warn("Ordnance has no position/angle/velocity", "name", entry.Name)
		return nil, fmt.Errorf("%q: %w", entry.Name, ErrMissingGeometry)
	}

	strategy, ok := spawnTable[entry.Type]
	if !ok {
		s.log.Warn("Unimplemented ordnance type", "name", entry.Name, "type", entry.Type.String())
		return nil, fmt.Errorf("%q: %w: %s", entry.Name, ErrUnsupportedType, entry.Type)
	}

	pos, ang, vel := *entry.Position, *entry.Angle, *entry.Velocity

	proj, err := s.create(strategy, entry, pos, ang, vel)
	if err != nil {
		s.log.Error("Failed to create ordnance projectile",
			"name", entry.Name, "type", entry.Type.String(), "path", strategy.path, "error", err)
		return nil, err
	}

	// Smoke computes its detonation point from the creation arguments; moving
	// it afterwards breaks where it lands.
	if proj.DesignerName() != engine.SmokeProjectileName {
		proj.Teleport(pos, ang, vel)
		proj.SetInitialPosition(pos)
		proj.SetInitialVelocity(vel)
		proj.SetAngularVelocity(vel)
		proj.SetTeamNum(uint8(entry.Team))
	}
	return proj, nil
}

// create runs the native call, converting errors, panics and nil handles
// into ErrNativeCreation.
func (s *Spawner) create(st spawnStrategy, entry core.Ordnance, pos, ang, vel core.Vector3) (proj engine.Projectile, err error) {
	if s.deps.Natives == nil {
		return nil, fmt.Errorf("%q: %w: no natives bound", entry.Name, ErrNativeCreation)
	}
	defer func() {
		if r := recover(); r != nil {
			proj = nil
			err = fmt.Errorf("%q: %w: panic: %v", entry.Name, ErrNativeCreation, r)
		}
	}()

	proj, err = st.create(s.deps.Natives, pos, ang, vel, st.discriminator(entry))
	if err != nil {
		return nil, fmt.Errorf("%q: %w: %w", entry.Name, ErrNativeCreation, err)
	}
	if proj == nil {
		return nil, fmt.Errorf("%q: %w: %s returned no entity", entry.Name, ErrNativeCreation, st.path)
	}
	return proj, nil
}

func (s *Spawner) record(entry core.Ordnance, err error) {
	if s.deps.Recorder == nil {
		return
	}
	rec := &core.SpawnRecord{
		Time:    s.deps.Now(),
		Name:    entry.Name,
		Type:    entry.Type,
		Team:    entry.Team,
		Site:    entry.Site,
		Outcome: core.OutcomeSpawned,
	}
	if entry.Position != nil {
		p := *entry.Position
		rec.Position = &p
	}
	if s.deps.MapName != nil {
		rec.MapName = s.deps.MapName()
	}
	switch {
	case err == nil:
	case errors.Is(err, ErrMissingGeometry):
		rec.Outcome = core.OutcomeInvalid
	case errors.Is(err, ErrUnsupportedType):
		rec.Outcome = core.OutcomeUnsupported
	default:
		rec.Outcome = core.OutcomeFailed
	}
	if err != nil {
		rec.Error = err.Error()
	}
	if rerr := s.deps.Recorder.RecordSpawn(rec); rerr != nil {
		s.log.Warn("Failed to record spawn", "name", entry.Name, "error", rerr)
	}
}
