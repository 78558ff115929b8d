package object

import (
	"math"
	"math/rand"

	"github.com/tomz197/figs-in-space/internal/physics"
)

// hazardVertices is the number of points on a hazard outline.
const hazardVertices = 10

// Hazard is a drifting fig. Its radius sets collision size, drawn size and score.
type Hazard struct {
	Pos       physics.Vec2
	Vel       physics.Vec2 // px/ms
	Radius    float64
	Rotation  float64
	Shape     []float64 // per-vertex radius multipliers for the lumpy outline
	Destroyed bool
}

// NewHazard creates a hazard moving along heading at speed px/ms.
func NewHazard(rng *rand.Rand, pos physics.Vec2, radius, heading, speed float64) *Hazard {
	// Vary radius by ±20% per vertex for an irregular shape
	shape := make([]float64, hazardVertices)
	for i := range shape {
		shape[i] = 0.8 + rng.Float64()*0.4
	}

	return &Hazard{
		Pos:      pos,
		Vel:      physics.AngleToVector(heading, speed),
		Radius:   radius,
		Rotation: rng.Float64() * 2 * math.Pi,
		Shape:    shape,
	}
}

// EdgePosition returns a random point on one of the four field edges.
func EdgePosition(rng *rand.Rand, w World) physics.Vec2 {
	switch rng.Intn(4) {
	case 0: // Top
		return physics.Vec2{X: float64(rng.Intn(int(w.Width) + 1)), Y: 0}
	case 1: // Right
		return physics.Vec2{X: w.Width, Y: float64(rng.Intn(int(w.Height) + 1))}
	case 2: // Bottom
		return physics.Vec2{X: float64(rng.Intn(int(w.Width) + 1)), Y: w.Height}
	default: // Left
		return physics.Vec2{X: 0, Y: float64(rng.Intn(int(w.Height) + 1))}
	}
}

// Update moves and spins the hazard, wrapping it around the field.
// Hazards never expire on their own.
func (h *Hazard) Update(dt, spin float64, w World) {
	h.Pos = w.Wrap(physics.Add(h.Pos, physics.Scale(h.Vel, dt)))
	h.Rotation += spin * dt
}

// Sprite returns the render view of the hazard.
func (h *Hazard) Sprite() Sprite {
	return Sprite{
		Kind:     KindHazard,
		Pos:      h.Pos,
		Rotation: h.Rotation,
		Radius:   h.Radius,
		Opacity:  1,
		Visible:  true,
		Shape:    h.Shape,
	}
}
