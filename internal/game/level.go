package game

import (
	"math"

	"github.com/tomz197/figs-in-space/internal/object"
	"github.com/tomz197/figs-in-space/internal/physics"
)

// LevelPlan is what a level spawns.
type LevelPlan struct {
	Level      int
	Multiplier float64
	Hazards    int
	SpeedScale float64
	Wells      int
	Saucers    int
}

// PlanLevel computes the scaling for level n.
func (s *Session) PlanLevel(n int) LevelPlan {
	lt := s.t.Levels
	capped := min(n, lt.CapLevel)
	plan := LevelPlan{
		Level:      n,
		Multiplier: 1 + float64(n-1)*lt.MultiplierStep,
		Hazards:    lt.BaseHazards + capped - 1,
		SpeedScale: 1 + float64(capped-1)*lt.SpeedStep,
	}
	if wt := s.t.Wells; n >= wt.FromLevel {
		plan.Wells = 1 + (n-wt.FromLevel)/wt.LevelsPerExtra
	}
	if et := s.t.Enemies; n >= et.FromLevel {
		plan.Saucers = 1 + (n-et.FromLevel)/et.LevelsPerExtra
	}
	return plan
}

// StartLevel sets the level and spawns its hazards, wells and saucers.
// Hazards, lasers and saucers already in play are kept.
func (s *Session) StartLevel(n int) {
	plan := s.PlanLevel(n)
	s.level = n
	s.multiplier = plan.Multiplier

	ht := s.t.Hazards
	for range plan.Hazards {
		pos := object.EdgePosition(s.rng, s.world)
		radius := float64(between(s.rng, ht.MinRadius, ht.MaxRadius))
		heading := floatBetween(s.rng, 0, 2*math.Pi)
		speed := floatBetween(s.rng, ht.MinSpeed, ht.MaxSpeed) * plan.SpeedScale
		s.hazards = append(s.hazards, object.NewHazard(s.rng, pos, radius, heading, speed))
	}

	s.placeWells(plan.Wells)

	for range plan.Saucers {
		s.saucers = append(s.saucers, object.NewSaucer(s.rng, n, s.t.Enemies, s.world))
	}

	s.logger.Info("level started",
		"level", n,
		"hazards", plan.Hazards,
		"wells", len(s.wells),
		"saucers", plan.Saucers,
		"multiplier", plan.Multiplier,
	)
}

// placeWells trims or tops up the wells to count. Kept wells stay in place.
func (s *Session) placeWells(count int) {
	if len(s.wells) > count {
		s.wells = s.wells[:count]
		return
	}
	wt := s.t.Wells
	margin := int(wt.EdgeMargin)
	for len(s.wells) < count {
		pos := physics.Vec2{
			X: float64(between(s.rng, margin, int(s.t.World.Width)-margin)),
			Y: float64(between(s.rng, margin, int(s.t.World.Height)-margin)),
		}
		s.wells = append(s.wells, &object.Well{Pos: pos, Radius: wt.Radius, Pull: wt.Pull})
	}
}

// checkLevel moves to the next level once every hazard is gone.
func (s *Session) checkLevel() {
	if s.gameOver || len(s.hazards) > 0 {
		return
	}
	s.saucers = s.saucers[:0]
	s.enemyLasers = s.enemyLasers[:0]
	s.StartLevel(s.level + 1)
}
