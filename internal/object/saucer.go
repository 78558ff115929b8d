package object

import (
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/figs-in-space/internal/config"
	"github.com/tomz197/figs-in-space/internal/physics"
)

// Saucer is an enemy craft that crosses the field horizontally, bobbing up and
// down, and fires at the player on a fixed interval.
type Saucer struct {
	Pos          physics.Vec2
	Dir          float64 // +1 moves right, -1 moves left
	Speed        float64 // px/ms
	FireInterval float64 // ms
	LastShotAt   float64 // ms, session clock
	Phase        float64 // wobble phase offset
	Destroyed    bool
}

// NewSaucer creates a saucer for the given level, entering from a random side.
func NewSaucer(rng *rand.Rand, level int, t config.EnemyTuning, w World) *Saucer {
	dir := 1.0
	x := -t.SpawnOffset
	if rng.Intn(2) == 1 {
		dir = -1
		x = w.Width + t.SpawnOffset
	}

	minY := int(t.EdgeMargin)
	maxY := int(w.Height - t.EdgeMargin)
	y := float64(minY + rng.Intn(maxY-minY+1))

	interval := t.BaseFireInterval - t.FireIntervalPerLevel*time.Duration(level)
	if interval < t.MinFireInterval {
		interval = t.MinFireInterval
	}

	return &Saucer{
		Pos:          physics.Vec2{X: x, Y: y},
		Dir:          dir,
		Speed:        t.BaseSpeed + t.SpeedPerLevel*float64(level),
		FireInterval: float64(interval.Milliseconds()),
		Phase:        rng.Float64() * 2 * math.Pi,
	}
}

// Update moves the saucer and returns a laser aimed at target when its fire
// interval has elapsed, or nil. now and dt are in milliseconds.
func (s *Saucer) Update(now, dt float64, target physics.Vec2, t config.EnemyTuning, w World) *Projectile {
	wobble := math.Sin(s.Phase+now*t.WobbleFrequency) * t.WobbleAmplitude * dt
	s.Pos.X += s.Speed * s.Dir * dt
	s.Pos.Y += wobble

	switch t.Offscreen {
	case config.EnemyDespawn:
		if w.Outside(s.Pos, t.DespawnMargin) {
			s.Destroyed = true
			return nil
		}
	default:
		s.Pos = w.Wrap(s.Pos)
	}

	if now-s.LastShotAt < s.FireInterval {
		return nil
	}
	s.LastShotAt = now
	angle := physics.AngleBetween(s.Pos, target)
	lifespan := float64(t.LaserLifespan.Milliseconds())
	return NewProjectile(OwnerEnemy, s.Pos, angle, t.LaserSpeed, lifespan, t.LaserMargin)
}

// Sprite returns the render view of the saucer.
func (s *Saucer) Sprite(radius float64) Sprite {
	return Sprite{
		Kind:    KindSaucer,
		Pos:     s.Pos,
		Radius:  radius,
		Opacity: 1,
		Visible: true,
	}
}
