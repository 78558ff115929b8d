package object

import (
	"math"
	"math/rand"

	"github.com/tomz197/figs-in-space/internal/physics"
)

// Explosion is a short-lived destruction effect: a burst of sparks flying out
// from Pos. It has no gameplay effect.
type Explosion struct {
	Pos      physics.Vec2
	Radius   float64   // final spread of the sparks
	Age      float64   // ms
	Duration float64   // ms
	Sparks   []float64 // spark headings in radians
}

// NewExplosion creates a burst of sparks with random headings.
func NewExplosion(rng *rand.Rand, pos physics.Vec2, radius, duration float64) *Explosion {
	// Random number of sparks (8 to 12)
	sparks := make([]float64, 8+rng.Intn(5))
	for i := range sparks {
		sparks[i] = rng.Float64() * 2 * math.Pi
	}
	return &Explosion{
		Pos:      pos,
		Radius:   radius,
		Duration: duration,
		Sparks:   sparks,
	}
}

// Update ages the effect.
func (e *Explosion) Update(dt float64) {
	e.Age += dt
}

// Expired reports whether the effect has finished.
func (e *Explosion) Expired() bool {
	return e.Age >= e.Duration
}

// Progress is how far through its life the effect is, in [0, 1].
func (e *Explosion) Progress() float64 {
	if e.Duration <= 0 {
		return 1
	}
	return math.Min(e.Age/e.Duration, 1)
}

// Sprite returns the render view of the effect.
func (e *Explosion) Sprite() Sprite {
	return Sprite{
		Kind:     KindExplosion,
		Pos:      e.Pos,
		Radius:   e.Radius,
		Opacity:  1 - e.Progress(),
		Progress: e.Progress(),
		Visible:  true,
		Shape:    e.Sparks,
	}
}
