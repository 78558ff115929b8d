package object

import (
	"math"

	"github.com/tomz197/figs-in-space/internal/physics"
)

// Well is a black hole. It pulls the ship and hazards toward its center and
// destroys whatever enters its radius. Wells are only added or removed by level rules.
type Well struct {
	Pos    physics.Vec2
	Radius float64
	Pull   float64
}

// Attract returns vel after one tick of pull toward the well.
// The acceleration is Pull / max(distance, 1) along the unit vector to the center.
func (w *Well) Attract(pos, vel physics.Vec2) physics.Vec2 {
	d := physics.Sub(w.Pos, pos)
	dist := d.Len()
	if dist == 0 {
		return vel
	}
	strength := w.Pull / math.Max(dist, 1)
	return physics.Add(vel, physics.Scale(d, strength/dist))
}

// Contains reports whether pos lies inside the lethal radius.
func (w *Well) Contains(pos physics.Vec2) bool {
	return physics.PointInCircle(pos, w.Pos, w.Radius)
}

// Sprite returns the render view of the well.
func (w *Well) Sprite() Sprite {
	return Sprite{
		Kind:    KindWell,
		Pos:     w.Pos,
		Radius:  w.Radius,
		Opacity: 1,
		Visible: true,
	}
}
