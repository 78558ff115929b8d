package object

import (
	"time"

	"github.com/tomz197/figs-in-space/internal/config"
	"github.com/tomz197/figs-in-space/internal/input"
	"github.com/tomz197/figs-in-space/internal/physics"
)

// Ship is the player-controlled craft. It is created once per session and
// repositioned, never recreated, on respawn.
type Ship struct {
	Pos      physics.Vec2
	Vel      physics.Vec2 // px/ms
	Rotation float64      // radians, 0 = pointing right, unbounded
	Visible  bool

	// Fade-in after respawn.
	RespawnAt  time.Duration
	FadeFor    time.Duration
	MinOpacity float64
}

// NewShip creates a visible, stationary ship at pos facing right.
func NewShip(pos physics.Vec2) *Ship {
	return &Ship{Pos: pos, Visible: true}
}

// Steer applies rotation and thrust for one tick. dt is in milliseconds.
func (s *Ship) Steer(keys input.KeySet, dt float64, p config.PlayerTuning) {
	// Rotation: left and right cancel out when both are held
	turn := p.RotationRate * dt
	if keys.Has(input.KeyLeft) {
		s.Rotation -= turn
	}
	if keys.Has(input.KeyRight) {
		s.Rotation += turn
	}

	// Forward thrust adds velocity along the facing direction
	if keys.Has(input.KeyUp) {
		thrust := physics.AngleToVector(s.Rotation, p.Thrust*dt)
		s.Vel = physics.LimitMagnitude(physics.Add(s.Vel, thrust), p.MaxSpeed)
	}

	// Reverse thrust
	if keys.Has(input.KeyDown) {
		thrust := physics.AngleToVector(s.Rotation, p.Thrust*dt)
		s.Vel = physics.LimitMagnitude(physics.Sub(s.Vel, thrust), p.MaxSpeed)
	}
}

// Drift applies drag, moves the ship and wraps it around the field.
func (s *Ship) Drift(dt float64, p config.PlayerTuning, w World) {
	s.Vel = physics.Scale(s.Vel, p.Drag)
	s.Pos = w.Wrap(physics.Add(s.Pos, physics.Scale(s.Vel, dt)))
}

// Nose returns the point offset units ahead of the ship along its heading.
func (s *Ship) Nose(offset float64) physics.Vec2 {
	return physics.Add(s.Pos, physics.AngleToVector(s.Rotation, offset))
}

// Disable stops and hides the ship.
func (s *Ship) Disable() {
	s.Vel = physics.Vec2{}
	s.Visible = false
}

// Respawn places the ship at pos, facing right and at rest, and starts the fade-in.
func (s *Ship) Respawn(pos physics.Vec2, at, fadeFor time.Duration, minOpacity float64) {
	s.Pos = pos
	s.Vel = physics.Vec2{}
	s.Rotation = 0
	s.Visible = true
	s.RespawnAt = at
	s.FadeFor = fadeFor
	s.MinOpacity = minOpacity
}

// Opacity rises linearly from MinOpacity to 1 over FadeFor after RespawnAt.
func (s *Ship) Opacity(now time.Duration) float64 {
	if s.FadeFor <= 0 || now >= s.RespawnAt+s.FadeFor {
		return 1
	}
	if now <= s.RespawnAt {
		return s.MinOpacity
	}
	progress := float64(now-s.RespawnAt) / float64(s.FadeFor)
	return s.MinOpacity + (1-s.MinOpacity)*progress
}

// Sprite returns the render view of the ship.
func (s *Ship) Sprite(now time.Duration, radius float64) Sprite {
	return Sprite{
		Kind:     KindShip,
		Pos:      s.Pos,
		Rotation: s.Rotation,
		Radius:   radius,
		Opacity:  s.Opacity(now),
		Visible:  s.Visible,
	}
}
