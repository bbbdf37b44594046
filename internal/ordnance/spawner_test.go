package ordnance

import (
	"testing"
	"time"

	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
	"github.com/GL1TCH1337/cs2-retakes/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSpawner(natives engine.Natives, rec Recorder) *Spawner {
	logger, _ := testLogger()
	return NewSpawner(SpawnerDependencies{
		Natives:  natives,
		Recorder: rec,
		Logger:   logger,
		MapName:  func() string { return "de_mirage" },
		Now:      func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
	})
}

func TestSpawn_DispatchTable(t *testing.T) {
	tests := []struct {
		name          string
		typ           core.OrdnanceType
		team          core.Team
		primitive     string
		discriminator int32
	}{
		{"smoke T", core.Smoke, core.Terrorist, "smoke", 2},
		{"smoke CT", core.Smoke, core.CounterTerrorist, "smoke", 3},
		{"molotov", core.Molotov, core.Terrorist, "molotov", 46},
		{"incendiary", core.Incendiary, core.CounterTerrorist, "molotov", 48},
		{"he grenade", core.HighExplosive, core.Terrorist, "hegrenade", 44},
		{"decoy", core.Decoy, core.CounterTerrorist, "decoy", 47},
		{"flashbang", core.Flashbang, core.Terrorist, "by-name:" + engine.FlashbangProjectileName, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			natives := &fakeNatives{}
			s := newTestSpawner(natives, nil)

			s.Spawn(entry("e", tt.typ, core.SiteA, tt.team, 0))

			require.Len(t, natives.calls, 1)
			assert.Equal(t, tt.primitive, natives.calls[0].primitive)
			assert.Equal(t, tt.discriminator, natives.calls[0].discriminator)
		})
	}
}

func TestSpawn_PassesGeometryToFactory(t *testing.T) {
	natives := &fakeNatives{}
	s := newTestSpawner(natives, nil)

	s.Spawn(entry("e", core.Molotov, core.SiteB, core.Terrorist, 0))

	require.Len(t, natives.calls, 1)
	c := natives.calls[0]
	assert.Equal(t, core.Vector3{X: 1, Y: 2, Z: 3}, c.position)
	assert.Equal(t, core.Vector3{X: 0, Y: 90, Z: 0}, c.angle)
	assert.Equal(t, core.Vector3{X: -431.16, Y: -115.31, Z: 506.39}, c.velocity)
}

func TestSpawn_SmokeIsNotRepositioned(t *testing.T) {
	natives := &fakeNatives{}
	s := newTestSpawner(natives, nil)

	s.Spawn(entry("smoke", core.Smoke, core.SiteA, core.Terrorist, 0))

	require.Len(t, natives.created, 1)
	assert.Empty(t, natives.created[0].calls)
}

func TestSpawn_NonSmokeIsPlacedAfterCreation(t *testing.T) {
	for _, typ := range []core.OrdnanceType{core.HighExplosive, core.Molotov, core.Incendiary, core.Decoy} {
		t.Run(typ.String(), func(t *testing.T) {
			natives := &fakeNatives{}
			s := newTestSpawner(natives, nil)
			e := entry("e", typ, core.SiteA, core.CounterTerrorist, 0)

			s.Spawn(e)

			require.Len(t, natives.created, 1)
			p := natives.created[0]
			assert.Equal(t, []string{"Teleport", "SetInitialPosition", "SetInitialVelocity", "SetAngularVelocity", "SetTeamNum"}, p.calls)
			assert.Equal(t, [3]core.Vector3{*e.Position, *e.Angle, *e.Velocity}, p.teleport)
			assert.Equal(t, *e.Position, p.initPos)
			assert.Equal(t, *e.Velocity, p.initVel)
			assert.Equal(t, *e.Velocity, p.angVel, "angular velocity mirrors linear velocity")
			assert.Equal(t, uint8(3), p.team)
		})
	}
}

func TestSpawn_FlashbangIsActivatedThenPlaced(t *testing.T) {
	natives := &fakeNatives{}
	s := newTestSpawner(natives, nil)

	s.Spawn(entry("flash", core.Flashbang, core.SiteB, core.Terrorist, 0))

	require.Len(t, natives.created, 1)
	p := natives.created[0]
	assert.True(t, p.spawned)
	assert.Equal(t, []string{"DispatchSpawn", "Teleport", "SetInitialPosition", "SetInitialVelocity", "SetAngularVelocity", "SetTeamNum"}, p.calls)
	assert.Equal(t, uint8(2), p.team)
}

func TestSpawn_MissingGeometry(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *core.Ordnance)
	}{
		{"no position", func(o *core.Ordnance) { o.Position = nil }},
		{"no angle", func(o *core.Ordnance) { o.Angle = nil }},
		{"no velocity", func(o *core.Ordnance) { o.Velocity = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			natives := &fakeNatives{}
			rec := &memoryRecorder{}
			s := newTestSpawner(natives, rec)
			e := entry("e", core.HighExplosive, core.SiteA, core.Terrorist, 0)
			tt.mutate(&e)

			s.Spawn(e)

			assert.Empty(t, natives.calls)
			require.Len(t, rec.records, 1)
			assert.Equal(t, core.OutcomeInvalid, rec.records[0].Outcome)
		})
	}
}

func TestSpawn_MissingGeometryIsLogged(t *testing.T) {
	logger, buf := testLogger()
	s := NewSpawner(SpawnerDependencies{Natives: &fakeNatives{}, Logger: logger})

	s.Spawn(core.Ordnance{Name: "ghost", Type: core.Smoke})

	assert.Contains(t, buf.String(), "ghost")
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestSpawn_UnsupportedType(t *testing.T) {
	natives := &fakeNatives{}
	rec := &memoryRecorder{}
	s := newTestSpawner(natives, rec)

	s.Spawn(entry("odd", core.OrdnanceType(42), core.SiteA, core.Terrorist, 0))

	assert.Empty(t, natives.calls)
	require.Len(t, rec.records, 1)
	assert.Equal(t, core.OutcomeUnsupported, rec.records[0].Outcome)
}

func TestSpawn_NativeFailuresAreContained(t *testing.T) {
	tests := []struct {
		name    string
		natives *fakeNatives
	}{
		{"error", &fakeNatives{err: errBoom}},
		{"nil entity", &fakeNatives{nilResult: true}},
		{"panic", &fakeNatives{panicWith: "engine exploded"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &memoryRecorder{}
			s := newTestSpawner(tt.natives, rec)

			assert.NotPanics(t, func() {
				s.Spawn(entry("e", core.Decoy, core.SiteA, core.Terrorist, 0))
			})

			require.Len(t, rec.records, 1)
			assert.Equal(t, core.OutcomeFailed, rec.records[0].Outcome)
			assert.NotEmpty(t, rec.records[0].Error)
		})
	}
}

func TestSpawn_FailedFlashbangNotActivated(t *testing.T) {
	natives := &fakeNatives{nilResult: true}
	rec := &memoryRecorder{}
	s := newTestSpawner(natives, rec)

	s.Spawn(entry("flash", core.Flashbang, core.SiteA, core.Terrorist, 0))

	assert.Empty(t, natives.created)
	require.Len(t, rec.records, 1)
	assert.Equal(t, core.OutcomeFailed, rec.records[0].Outcome)
}

func TestSpawn_NoNativesBound(t *testing.T) {
	rec := &memoryRecorder{}
	s := newTestSpawner(nil, rec)

	s.Spawn(entry("e", core.Smoke, core.SiteA, core.Terrorist, 0))

	require.Len(t, rec.records, 1)
	assert.Equal(t, core.OutcomeFailed, rec.records[0].Outcome)
}

func TestSpawn_RecordsSuccess(t *testing.T) {
	rec := &memoryRecorder{}
	s := newTestSpawner(&fakeNatives{}, rec)

	s.Spawn(entry("window smoke", core.Smoke, core.SiteB, core.CounterTerrorist, 0))

	require.Len(t, rec.records, 1)
	r := rec.records[0]
	assert.Equal(t, core.OutcomeSpawned, r.Outcome)
	assert.Equal(t, "de_mirage", r.MapName)
	assert.Equal(t, "window smoke", r.Name)
	assert.Equal(t, core.Smoke, r.Type)
	assert.Equal(t, core.CounterTerrorist, r.Team)
	assert.Equal(t, core.SiteB, r.Site)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), r.Time)
	require.NotNil(t, r.Position)
	assert.Equal(t, core.Vector3{X: 1, Y: 2, Z: 3}, *r.Position)
	assert.Empty(t, r.Error)
}

func TestSpawn_RecorderErrorIsLogged(t *testing.T) {
	logger, buf := testLogger()
	s := NewSpawner(SpawnerDependencies{
		Natives:  &fakeNatives{},
		Recorder: &memoryRecorder{err: errBoom},
		Logger:   logger,
	})

	assert.NotPanics(t, func() {
		s.Spawn(entry("e", core.Smoke, core.SiteA, core.Terrorist, 0))
	})
	assert.Contains(t, buf.String(), "Failed to record spawn")
}
