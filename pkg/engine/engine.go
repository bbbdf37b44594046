// Package engine declares the host-owned surface the plugin runs against:
// native entity creation, the map-bound timer facility, console settings and
// the player roster. The game server bridge implements these.
package engine

import (
	"time"

	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
)

// Item definition indices passed to the projectile factories.
const (
	ItemDefHEGrenade  int32 = 44
	ItemDefSmoke      int32 = 45
	ItemDefMolotov    int32 = 46
	ItemDefDecoy      int32 = 47
	ItemDefIncendiary int32 = 48
)

// Designer names of projectile entities.
const (
	SmokeProjectileName     = "smokegrenade_projectile"
	FlashbangProjectileName = "flashbang_projectile"
	HEProjectileName        = "hegrenade_projectile"
	MolotovProjectileName   = "molotov_projectile"
	DecoyProjectileName     = "decoy_projectile"
)

// Projectile is a handle to a created grenade entity.
type Projectile interface {
	DesignerName() string
	Teleport(position, angle, velocity core.Vector3)
	SetInitialPosition(v core.Vector3)
	SetInitialVelocity(v core.Vector3)
	SetAngularVelocity(v core.Vector3)
	SetTeamNum(team uint8)
}

// Spawnable is an entity created by name that still needs activating.
type Spawnable interface {
	Projectile
	DispatchSpawn()
}

// Natives are the engine's entity creation entry points. A nil projectile with
// a nil error is treated as a failed creation.
type Natives interface {
	CreateSmokeProjectile(position, angle, velocity core.Vector3, team int32) (Projectile, error)
	CreateMolotovProjectile(position, angle, velocity core.Vector3, itemDef int32) (Projectile, error)
	CreateHEGrenadeProjectile(position, angle, velocity core.Vector3, itemDef int32) (Projectile, error)
	CreateDecoyProjectile(position, angle, velocity core.Vector3, itemDef int32) (Projectile, error)
	CreateEntityByName(name string) (Spawnable, error)
}

// Timers schedules one-shot callbacks on the host's main loop. Pending
// callbacks are discarded by the host when the map changes.
type Timers interface {
	After(delay time.Duration, fn func())
}

// Settings exposes host console settings.
type Settings interface {
	// FreezeTime returns the freeze period in seconds, or ok=false when the
	// setting is not available.
	FreezeTime() (seconds float64, ok bool)
}

// Roster answers live player counts.
type Roster interface {
	PlayerCount(team core.Team) int
}
