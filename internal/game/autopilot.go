package game

import (
	"math"
	"math/rand"

	"github.com/tomz197/figs-in-space/internal/input"
	"github.com/tomz197/figs-in-space/internal/physics"
)

// Autopilot flies the ship in demo sessions: chase the nearest target, shoot
// when lined up, veer off when something gets close.
type Autopilot struct {
	rng *rand.Rand

	SaucerBias   float64 // a saucer wins when closer than this fraction of the best hazard
	AimWindow    float64 // radians either side of the target that count as lined up
	FireChance   float64 // per tick, when lined up
	EvadeRange   float64
	CoastRange   float64
	TurnDeadband float64 // no correction inside this many radians
	RoamChance   float64 // per tick, with nothing to chase
}

// NewAutopilot creates an autopilot with the arcade cabinet's temperament.
func NewAutopilot(rng *rand.Rand) *Autopilot {
	return &Autopilot{
		rng:          rng,
		SaucerBias:   0.8,
		AimWindow:    0.5,
		FireChance:   0.3,
		EvadeRange:   120,
		CoastRange:   250,
		TurnDeadband: 0.1,
		RoamChance:   0.05,
	}
}

// Decide returns the keys to hold this tick.
func (a *Autopilot) Decide(s *Session) input.KeySet {
	if !s.alive || s.ship == nil {
		return 0
	}
	pos := s.ship.Pos

	var target physics.Vec2
	found := false
	best := math.MaxFloat64
	for _, h := range s.hazards {
		if d := physics.Distance(pos, h.Pos); d < best {
			best, target, found = d, h.Pos, true
		}
	}
	for _, sc := range s.saucers {
		if d := physics.Distance(pos, sc.Pos); d < best*a.SaucerBias {
			best, target, found = d, sc.Pos, true
		}
	}

	keys := input.Keys(input.KeyUp)
	if !found {
		if a.rng.Float64() < a.RoamChance {
			if a.rng.Float64() > 0.5 {
				keys = keys.With(input.KeyRight)
			} else {
				keys = keys.With(input.KeyLeft)
			}
		}
		return keys
	}

	diff := physics.WrapAngle(physics.AngleBetween(pos, target) - s.ship.Rotation)
	absDiff := math.Abs(diff)

	if absDiff < a.AimWindow && a.rng.Float64() < a.FireChance {
		keys = keys.With(input.KeyFire)
	}

	if best < a.EvadeRange {
		if diff > 0 {
			keys = keys.With(input.KeyLeft)
		} else {
			keys = keys.With(input.KeyRight)
		}
		return keys.With(input.KeyFire)
	}

	if absDiff > a.TurnDeadband {
		if diff > 0 {
			keys = keys.With(input.KeyRight)
		} else {
			keys = keys.With(input.KeyLeft)
		}
	}
	if best < a.CoastRange && absDiff < a.AimWindow {
		keys = keys.Without(input.KeyUp)
	}
	return keys
}
