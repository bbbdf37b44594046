package ordnance

import (
	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
	"github.com/GL1TCH1337/cs2-retakes/pkg/engine"
)

// createFunc invokes one native creation path.
type createFunc func(n engine.Natives, pos, ang, vel core.Vector3, discriminator int32) (engine.Projectile, error)

// spawnStrategy pairs a native creation path with the discriminator it is
// called with for one ordnance type.
type spawnStrategy struct {
	path          string
	create        createFunc
	discriminator func(o core.Ordnance) int32
}

func fixedCode(code int32) func(core.Ordnance) int32 {
	return func(core.Ordnance) int32 { return code }
}

func teamCode(o core.Ordnance) int32 {
	return int32(o.Team)
}

func createSmoke(n engine.Natives, pos, ang, vel core.Vector3, team int32) (engine.Projectile, error) {
	return n.CreateSmokeProjectile(pos, ang, vel, team)
}

func createMolotov(n engine.Natives, pos, ang, vel core.Vector3, itemDef int32) (engine.Projectile, error) {
	return n.CreateMolotovProjectile(pos, ang, vel, itemDef)
}

func createHEGrenade(n engine.Natives, pos, ang, vel core.Vector3, itemDef int32) (engine.Projectile, error) {
	return n.CreateHEGrenadeProjectile(pos, ang, vel, itemDef)
}

func createDecoy(n engine.Natives, pos, ang, vel core.Vector3, itemDef int32) (engine.Projectile, error) {
	return n.CreateDecoyProjectile(pos, ang, vel, itemDef)
}

// createByName covers types without a dedicated factory: the entity is
// instantiated by designer name and then activated. Placement happens in the
// post-creation step.
func createByName(name string) createFunc {
	return func(n engine.Natives, _, _, _ core.Vector3, _ int32) (engine.Projectile, error) {
		ent, err := n.CreateEntityByName(name)
		if err != nil {
			return nil, err
		}
		if ent == nil {
			return nil, nil
		}
		ent.DispatchSpawn()
		return ent, nil
	}
}

var spawnTable = map[core.OrdnanceType]spawnStrategy{
	core.Smoke: {
		path:          "smoke",
		create:        createSmoke,
		discriminator: teamCode,
	},
	core.Molotov: {
		path:          "molotov",
		create:        createMolotov,
		discriminator: fixedCode(engine.ItemDefMolotov),
	},
	core.Incendiary: {
		path:          "molotov",
		create:        createMolotov,
		discriminator: fixedCode(engine.ItemDefIncendiary),
	},
	core.HighExplosive: {
		path:          "hegrenade",
		create:        createHEGrenade,
		discriminator: fixedCode(engine.ItemDefHEGrenade),
	},
	core.Decoy: {
		path:          "decoy",
		create:        createDecoy,
		discriminator: fixedCode(engine.ItemDefDecoy),
	},
	core.Flashbang: {
		path:          "by-name",
		create:        createByName(engine.FlashbangProjectileName),
		discriminator: fixedCode(0),
	},
}
