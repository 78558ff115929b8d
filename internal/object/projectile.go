package object

import (
	"github.com/tomz197/figs-in-space/internal/physics"
)

// Owner identifies who fired a projectile.
type Owner uint8

const (
	OwnerPlayer Owner = iota
	OwnerEnemy
)

// Projectile is a laser bolt. Projectiles never wrap: they expire when their
// lifespan runs out or they leave the field by more than Margin.
type Projectile struct {
	Owner    Owner
	Pos      physics.Vec2
	Vel      physics.Vec2 // px/ms
	Rotation float64
	Lifespan float64 // ms remaining
	Margin   float64
	Expired  bool
}

// NewProjectile creates a projectile at pos travelling along angle.
func NewProjectile(owner Owner, pos physics.Vec2, angle, speed, lifespan, margin float64) *Projectile {
	return &Projectile{
		Owner:    owner,
		Pos:      pos,
		Vel:      physics.AngleToVector(angle, speed),
		Rotation: angle,
		Lifespan: lifespan,
		Margin:   margin,
	}
}

// Update moves the projectile and marks it expired when its time or the field runs out.
func (p *Projectile) Update(dt float64, w World) {
	p.Pos = physics.Add(p.Pos, physics.Scale(p.Vel, dt))
	p.Lifespan -= dt
	if p.Lifespan <= 0 || w.Outside(p.Pos, p.Margin) {
		p.Expired = true
	}
}

// Sprite returns the render view of the projectile.
func (p *Projectile) Sprite() Sprite {
	kind := KindLaser
	if p.Owner == OwnerEnemy {
		kind = KindEnemyLaser
	}
	return Sprite{
		Kind:     kind,
		Pos:      p.Pos,
		Rotation: p.Rotation,
		Opacity:  1,
		Visible:  true,
	}
}
