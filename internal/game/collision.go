package game

import (
	"math"
	"time"

	"github.com/tomz197/figs-in-space/internal/object"
	"github.com/tomz197/figs-in-space/internal/physics"
)

// minBounceDistance keeps the collision normal finite for coincident hazards.
const minBounceDistance = 0.0001

// collide resolves every contact for this tick. Fragments spawned by a pass
// join the hazards after that pass.
func (s *Session) collide(now time.Duration) {
	s.bounceHazards()
	s.laserHits()
	s.saucerHits()
	s.wellHits()
	s.playerHits(now)
}

// bounceHazards bounces overlapping hazards off each other. Large hazards
// involved in a bounce break apart without scoring.
func (s *Session) bounceHazards() {
	s.grid.Clear()
	for i, h := range s.hazards {
		s.grid.Insert(h.Pos, i)
	}

	s.splits = s.splits[:0]
	for range s.hazards {
		s.splits = append(s.splits, false)
	}

	large := s.t.Hazards.LargeRadius
	for i, a := range s.hazards {
		// A bounce moves a, so candidates past the contact are looked up
		// again around its new position.
		next := i + 1
		for moved := true; moved; {
			moved = false
			s.neighbors = s.grid.Neighbors(a.Pos, next-1, s.neighbors[:0])
			for _, j := range s.neighbors {
				next = j + 1
				b := s.hazards[j]
				if !physics.CirclesOverlap(a.Pos, a.Radius, b.Pos, b.Radius) {
					continue
				}
				s.bounce(a, b)
				s.grid.Insert(a.Pos, i)
				s.grid.Insert(b.Pos, j)
				if a.Radius > large {
					s.splits[i] = true
				}
				if b.Radius > large {
					s.splits[j] = true
				}
				moved = true
				break
			}
		}
	}

	s.spawned = s.spawned[:0]
	for i := len(s.hazards) - 1; i >= 0; i-- {
		if s.splits[i] {
			s.split(s.hazards[i], false)
		}
	}
	s.hazards = append(s.hazards, s.spawned...)
}

// bounce exchanges momentum along the contact normal and pushes the pair apart.
func (s *Session) bounce(a, b *object.Hazard) {
	d := physics.Sub(b.Pos, a.Pos)
	dist := math.Max(d.Len(), minBounceDistance)
	n := physics.Scale(d, 1/dist)

	p := 2 * (physics.Dot(a.Vel, n) - physics.Dot(b.Vel, n)) / (a.Radius + b.Radius)
	a.Vel = physics.Sub(a.Vel, physics.Scale(n, p*b.Radius))
	b.Vel = physics.Add(b.Vel, physics.Scale(n, p*a.Radius))

	push := (a.Radius + b.Radius - dist + s.t.Hazards.SeparationSlop) / 2
	a.Pos = physics.Sub(a.Pos, physics.Scale(n, push))
	b.Pos = physics.Add(b.Pos, physics.Scale(n, push))
}

// split destroys h and queues its fragments in s.spawned. Weapon kills score.
func (s *Session) split(h *object.Hazard, scored bool) {
	if h.Destroyed {
		return
	}
	h.Destroyed = true
	ht := s.t.Hazards

	if scored {
		base := math.Max(float64(ht.MinScore), math.Round(h.Radius))
		s.score += int(math.Round(base * s.multiplier))
		s.addExplosion(h.Pos, h.Radius)
	}

	if h.Radius <= ht.MinSplitRadius {
		return
	}
	n := between(s.rng, ht.MinFragments, ht.MaxFragments)
	for range n {
		heading := floatBetween(s.rng, 0, 2*math.Pi)
		speed := floatBetween(s.rng, ht.MinSpeed, ht.MaxSpeed)
		s.spawned = append(s.spawned, object.NewHazard(s.rng, h.Pos, h.Radius*ht.FragmentScale, heading, speed))
	}
}

// laserHits lets each player laser destroy at most one hazard.
func (s *Session) laserHits() {
	buffer := s.t.Weapons.HitBuffer
	s.spawned = s.spawned[:0]
	for i := len(s.lasers) - 1; i >= 0; i-- {
		l := s.lasers[i]
		if l.Expired {
			continue
		}
		for j := len(s.hazards) - 1; j >= 0; j-- {
			h := s.hazards[j]
			if h.Destroyed {
				continue
			}
			if physics.PointInCircle(l.Pos, h.Pos, h.Radius+buffer) {
				s.split(h, true)
				l.Expired = true
				break
			}
		}
	}
	s.hazards = append(s.hazards, s.spawned...)
}

// saucerHits lets each player laser destroy at most one saucer.
func (s *Session) saucerHits() {
	et := s.t.Enemies
	for i := len(s.lasers) - 1; i >= 0; i-- {
		l := s.lasers[i]
		if l.Expired {
			continue
		}
		for j := len(s.saucers) - 1; j >= 0; j-- {
			sc := s.saucers[j]
			if sc.Destroyed || !physics.PointInCircle(l.Pos, sc.Pos, et.HitRadius) {
				continue
			}
			sc.Destroyed = true
			l.Expired = true
			s.score += int(math.Round(float64(et.Score) * s.multiplier))
			s.addExplosion(sc.Pos, s.t.Effects.ExplosionRadius)
			break
		}
	}
}

// wellHits consumes hazards that fall into a well.
func (s *Session) wellHits() {
	for _, w := range s.wells {
		for _, h := range s.hazards {
			if !h.Destroyed && w.Contains(h.Pos) {
				h.Destroyed = true
			}
		}
	}
}

// playerHits checks every lethal contact with the ship. Scanning stops at the
// first contact that costs a life.
func (s *Session) playerHits(now time.Duration) {
	if !s.alive {
		return
	}
	pos := s.ship.Pos
	for _, h := range s.hazards {
		if !h.Destroyed && physics.PointInCircle(pos, h.Pos, h.Radius+s.t.Player.Radius) && s.HitPlayer(now) {
			return
		}
	}
	for _, sc := range s.saucers {
		if !sc.Destroyed && physics.PointInCircle(pos, sc.Pos, s.t.Enemies.PlayerHitRadius) && s.HitPlayer(now) {
			return
		}
	}
	for _, l := range s.enemyLasers {
		if !l.Expired && physics.PointInCircle(pos, l.Pos, s.t.Enemies.LaserHitRadius) {
			l.Expired = true
			if s.HitPlayer(now) {
				return
			}
		}
	}
	for _, w := range s.wells {
		if w.Contains(pos) && s.HitPlayer(now) {
			return
		}
	}
}
