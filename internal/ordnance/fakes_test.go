package ordnance

import (
	"bytes"
	"errors"
	"log/slog"
	"time"

	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
	"github.com/GL1TCH1337/cs2-retakes/pkg/engine"
)

// fakeProjectile records every post-creation call made on it.
type fakeProjectile struct {
	name     string
	calls    []string
	teleport [3]core.Vector3
	initPos  core.Vector3
	initVel  core.Vector3
	angVel   core.Vector3
	team     uint8
	spawned  bool
}

func (p *fakeProjectile) DesignerName() string { return p.name }

func (p *fakeProjectile) Teleport(pos, ang, vel core.Vector3) {
	p.calls = append(p.calls, "Teleport")
	p.teleport = [3]core.Vector3{pos, ang, vel}
}

func (p *fakeProjectile) SetInitialPosition(v core.Vector3) {
	p.calls = append(p.calls, "SetInitialPosition")
	p.initPos = v
}

func (p *fakeProjectile) SetInitialVelocity(v core.Vector3) {
	p.calls = append(p.calls, "SetInitialVelocity")
	p.initVel = v
}

func (p *fakeProjectile) SetAngularVelocity(v core.Vector3) {
	p.calls = append(p.calls, "SetAngularVelocity")
	p.angVel = v
}

func (p *fakeProjectile) SetTeamNum(team uint8) {
	p.calls = append(p.calls, "SetTeamNum")
	p.team = team
}

func (p *fakeProjectile) DispatchSpawn() {
	p.calls = append(p.calls, "DispatchSpawn")
	p.spawned = true
}

// nativeCall is one recorded invocation of a creation primitive.
type nativeCall struct {
	primitive     string
	discriminator int32
	position      core.Vector3
	angle         core.Vector3
	velocity      core.Vector3
}

// fakeNatives records creation calls and hands out fake projectiles.
type fakeNatives struct {
	calls   []nativeCall
	created []*fakeProjectile

	err       error
	nilResult bool
	panicWith any
}

func (n *fakeNatives) make(primitive, designer string, disc int32, pos, ang, vel core.Vector3) (*fakeProjectile, error) {
	n.calls = append(n.calls, nativeCall{primitive: primitive, discriminator: disc, position: pos, angle: ang, velocity: vel})
	if n.panicWith != nil {
		panic(n.panicWith)
	}
	if n.err != nil {
		return nil, n.err
	}
	if n.nilResult {
		return nil, nil
	}
	p := &fakeProjectile{name: designer}
	n.created = append(n.created, p)
	return p, nil
}

func (n *fakeNatives) CreateSmokeProjectile(pos, ang, vel core.Vector3, team int32) (engine.Projectile, error) {
	p, err := n.make("smoke", engine.SmokeProjectileName, team, pos, ang, vel)
	if p == nil {
		return nil, err
	}
	return p, err
}

func (n *fakeNatives) CreateMolotovProjectile(pos, ang, vel core.Vector3, itemDef int32) (engine.Projectile, error) {
	p, err := n.make("molotov", engine.MolotovProjectileName, itemDef, pos, ang, vel)
	if p == nil {
		return nil, err
	}
	return p, err
}

func (n *fakeNatives) CreateHEGrenadeProjectile(pos, ang, vel core.Vector3, itemDef int32) (engine.Projectile, error) {
	p, err := n.make("hegrenade", engine.HEProjectileName, itemDef, pos, ang, vel)
	if p == nil {
		return nil, err
	}
	return p, err
}

func (n *fakeNatives) CreateDecoyProjectile(pos, ang, vel core.Vector3, itemDef int32) (engine.Projectile, error) {
	p, err := n.make("decoy", engine.DecoyProjectileName, itemDef, pos, ang, vel)
	if p == nil {
		return nil, err
	}
	return p, err
}

func (n *fakeNatives) CreateEntityByName(name string) (engine.Spawnable, error) {
	p, err := n.make("by-name:"+name, name, 0, core.Vector3{}, core.Vector3{}, core.Vector3{})
	if p == nil {
		return nil, err
	}
	return p, err
}

// scheduledTask is one recorded timer registration.
type scheduledTask struct {
	delay time.Duration
	fn    func()
}

// fakeTimers records registrations without firing them.
type fakeTimers struct {
	tasks []scheduledTask
}

func (t *fakeTimers) After(delay time.Duration, fn func()) {
	t.tasks = append(t.tasks, scheduledTask{delay: delay, fn: fn})
}

func (t *fakeTimers) fireAll() {
	for _, task := range t.tasks {
		task.fn()
	}
}

type fakeSettings struct {
	freeze float64
	ok     bool
	reads  int
}

func (s *fakeSettings) FreezeTime() (float64, bool) {
	s.reads++
	return s.freeze, s.ok
}

type countingGate struct {
	counts  map[core.Team]int
	queries []core.Team
}

func (g *countingGate) Count(team core.Team) int {
	g.queries = append(g.queries, team)
	return g.counts[team]
}

type staticCatalog []core.Ordnance

func (c staticCatalog) Snapshot() []core.Ordnance { return core.CloneAll(c) }

// recordingSpawner captures spawned entries.
type recordingSpawner struct {
	spawned []core.Ordnance
}

func (r *recordingSpawner) Spawn(entry core.Ordnance) {
	r.spawned = append(r.spawned, entry)
}

type memoryRecorder struct {
	records []core.SpawnRecord
	err     error
}

func (m *memoryRecorder) RecordSpawn(r *core.SpawnRecord) error {
	m.records = append(m.records, *r)
	return m.err
}

var errBoom = errors.New("boom")

func testLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func vec(x, y, z float32) *core.Vector3 {
	return &core.Vector3{X: x, Y: y, Z: z}
}

func entry(name string, typ core.OrdnanceType, site core.Site, team core.Team, delay float32) core.Ordnance {
	return core.Ordnance{
		Name:     name,
		Type:     typ,
		Position: vec(1, 2, 3),
		Angle:    vec(0, 90, 0),
		Velocity: vec(-431.16, -115.31, 506.39),
		Team:     team,
		Site:     site,
		Delay:    delay,
	}
}
