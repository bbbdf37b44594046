package main

import (
	"log/slog"

	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
	"github.com/GL1TCH1337/cs2-retakes/pkg/engine"
)

// simProjectile is an in-process stand-in for a game entity.
type simProjectile struct {
	designer string
	position core.Vector3
	angle    core.Vector3
	velocity core.Vector3
	angular  core.Vector3
	team     uint8
	spawned  bool
}

func (p *simProjectile) DesignerName() string { return p.designer }

func (p *simProjectile) Teleport(position, angle, velocity core.Vector3) {
	p.position, p.angle, p.velocity = position, angle, velocity
}

func (p *simProjectile) SetInitialPosition(v core.Vector3) { p.position = v }
func (p *simProjectile) SetInitialVelocity(v core.Vector3) { p.velocity = v }
func (p *simProjectile) SetAngularVelocity(v core.Vector3) { p.angular = v }
func (p *simProjectile) SetTeamNum(team uint8)             { p.team = team }
func (p *simProjectile) DispatchSpawn()                    { p.spawned = true }

// simNatives implements engine.Natives by logging every creation call.
type simNatives struct {
	log     *slog.Logger
	created []*simProjectile
}

func newSimNatives(logger *slog.Logger) *simNatives {
	return &simNatives{log: logger}
}

func (n *simNatives) create(designer string, position, angle, velocity core.Vector3, discriminator int32) *simProjectile {
	p := &simProjectile{designer: designer, position: position, angle: angle, velocity: velocity}
	n.created = append(n.created, p)
	n.log.Debug("Native projectile created",
		"designer", designer, "position", position.String(), "discriminator", discriminator)
	return p
}

func (n *simNatives) CreateSmokeProjectile(position, angle, velocity core.Vector3, team int32) (engine.Projectile, error) {
	p := n.create(engine.SmokeProjectileName, position, angle, velocity, team)
	p.team = uint8(team)
	return p, nil
}

func (n *simNatives) CreateMolotovProjectile(position, angle, velocity core.Vector3, itemDef int32) (engine.Projectile, error) {
	return n.create(engine.MolotovProjectileName, position, angle, velocity, itemDef), nil
}

func (n *simNatives) CreateHEGrenadeProjectile(position, angle, velocity core.Vector3, itemDef int32) (engine.Projectile, error) {
	return n.create(engine.HEProjectileName, position, angle, velocity, itemDef), nil
}

func (n *simNatives) CreateDecoyProjectile(position, angle, velocity core.Vector3, itemDef int32) (engine.Projectile, error) {
	return n.create(engine.DecoyProjectileName, position, angle, velocity, itemDef), nil
}

func (n *simNatives) CreateEntityByName(name string) (engine.Spawnable, error) {
	return n.create(name, core.Vector3{}, core.Vector3{}, core.Vector3{}, 0), nil
}

var _ engine.Natives = (*simNatives)(nil)
