// Package object holds the plain simulation records for every entity kind and
// the per-kind motion and expiry rules. Nothing here draws.
package object

import (
	"slices"

	"github.com/tomz197/figs-in-space/internal/physics"
)

// Kind tags an entity for the rendering adapter.
type Kind uint8

const (
	KindShip Kind = iota
	KindHazard
	KindLaser
	KindEnemyLaser
	KindSaucer
	KindWell
	KindExplosion
)

var kindNames = [...]string{"ship", "hazard", "laser", "enemy-laser", "saucer", "well", "explosion"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Sprite is the read-only render view of one entity.
type Sprite struct {
	Kind     Kind
	Pos      physics.Vec2
	Rotation float64
	Radius   float64
	Opacity  float64 // 0..1; the ship fades in after respawn
	Progress float64 // 0..1 for timed effects
	Visible  bool
	Shape    []float64 // outline radii multipliers (hazards) or spark headings (explosions)
}

// World is the toroidal play field.
type World struct {
	Width, Height float64
}

// Wrap maps p back into the field.
func (w World) Wrap(p physics.Vec2) physics.Vec2 {
	return physics.WrapVec(p, w.Width, w.Height)
}

// Center is the middle of the field.
func (w World) Center() physics.Vec2 {
	return physics.Vec2{X: w.Width / 2, Y: w.Height / 2}
}

// Outside reports whether p lies beyond margin past any edge.
func (w World) Outside(p physics.Vec2, margin float64) bool {
	return p.X < -margin || p.X > w.Width+margin || p.Y < -margin || p.Y > w.Height+margin
}

// Compact removes, in place and in order, every item for which dead returns true.
func Compact[T any](items []T, dead func(T) bool) []T {
	return slices.DeleteFunc(items, dead)
}
