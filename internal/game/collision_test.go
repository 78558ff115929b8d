package game

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/figs-in-space/internal/object"
	"github.com/tomz197/figs-in-space/internal/physics"
)

func hazardAt(x, y, r float64) *object.Hazard {
	return &object.Hazard{Pos: physics.Vec2{X: x, Y: y}, Radius: r}
}

func laserAt(x, y float64) *object.Projectile {
	return &object.Projectile{Owner: object.OwnerPlayer, Pos: physics.Vec2{X: x, Y: y}, Lifespan: 600}
}

// emptySession is a started session with nothing in play.
func emptySession(t *testing.T) *Session {
	t.Helper()
	s, _, _ := newSession(t)
	s.StartSession(ModeNormal, 0)
	s.hazards = nil
	return s
}

func TestLaserSplitsLargeHazard(t *testing.T) {
	s := emptySession(t)
	s.hazards = []*object.Hazard{hazardAt(200, 200, 40)}
	s.lasers = []*object.Projectile{laserAt(200, 250), laserAt(200, 255)}

	s.laserHits()

	assert.Equal(t, 40, s.Score())
	assert.True(t, s.hazards[0].Destroyed)
	assert.True(t, s.lasers[1].Expired, "the later laser is scanned first")
	assert.False(t, s.lasers[0].Expired, "fragments join after the pass")

	fragments := s.hazards[1:]
	require.GreaterOrEqual(t, len(fragments), 2)
	require.LessOrEqual(t, len(fragments), 3)
	for _, f := range fragments {
		assert.InDelta(t, 24, f.Radius, 1e-9)
		assert.Equal(t, physics.Vec2{X: 200, Y: 200}, f.Pos)
		assert.False(t, f.Destroyed)
	}

	s.compact()
	assert.Len(t, s.hazards, len(fragments))
}

func TestLaserHitThresholdIsInclusive(t *testing.T) {
	s := emptySession(t)
	s.multiplier = 1.5
	s.hazards = []*object.Hazard{hazardAt(100, 100, 20)}
	s.lasers = []*object.Projectile{laserAt(136, 100), laserAt(100, 137)}

	s.laserHits()
	assert.True(t, s.hazards[0].Destroyed, "dist == r + 16 hits")
	assert.Len(t, s.hazards, 1, "small hazards leave no fragments")
	assert.Equal(t, 30, s.Score(), "round(max(10, 20) * 1.5)")
	assert.False(t, s.lasers[1].Expired, "dist 37 misses")
}

func TestMinimumHazardScore(t *testing.T) {
	s := emptySession(t)
	s.multiplier = 1.25
	s.hazards = []*object.Hazard{hazardAt(100, 100, 4)}
	s.lasers = []*object.Projectile{laserAt(100, 100)}
	s.laserHits()
	assert.Equal(t, 13, s.Score(), "round(10 * 1.25)")
}

func TestSmallHazardsBounce(t *testing.T) {
	s := emptySession(t)
	a, b := hazardAt(100, 100, 20), hazardAt(130, 100, 20)
	a.Vel = physics.Vec2{X: 0.05}
	b.Vel = physics.Vec2{X: -0.05}
	s.hazards = []*object.Hazard{a, b}

	s.bounceHazards()

	require.Len(t, s.hazards, 2)
	assert.InDelta(t, -0.05, a.Vel.X, 1e-9)
	assert.InDelta(t, 0.05, b.Vel.X, 1e-9)
	assert.InDelta(t, 94.95, a.Pos.X, 1e-9)
	assert.InDelta(t, 135.05, b.Pos.X, 1e-9)
	assert.Greater(t, physics.Distance(a.Pos, b.Pos), a.Radius+b.Radius)
	assert.False(t, a.Destroyed || b.Destroyed)
	assert.Zero(t, s.Score())
}

func TestLargeHazardsBreakWithoutScore(t *testing.T) {
	s := emptySession(t)
	big, small := hazardAt(300, 300, 40), hazardAt(340, 300, 20)
	far := hazardAt(800, 600, 50)
	s.hazards = []*object.Hazard{big, small, far}

	s.bounceHazards()

	assert.True(t, big.Destroyed)
	assert.False(t, small.Destroyed)
	assert.False(t, far.Destroyed)
	assert.Zero(t, s.Score())
	fragments := s.hazards[3:]
	assert.GreaterOrEqual(t, len(fragments), 2)
	for _, f := range fragments {
		assert.InDelta(t, 24, f.Radius, 1e-9)
	}
}

func TestCoincidentHazardsStayFinite(t *testing.T) {
	s := emptySession(t)
	a, b := hazardAt(100, 100, 10), hazardAt(100, 100, 10)
	s.hazards = []*object.Hazard{a, b}
	s.bounceHazards()
	for _, h := range []*object.Hazard{a, b} {
		assert.False(t, math.IsNaN(h.Pos.X) || math.IsNaN(h.Pos.Y), "position stays finite")
		assert.False(t, math.IsNaN(h.Vel.X) || math.IsNaN(h.Vel.Y), "velocity stays finite")
	}
}

func TestLaserDestroysSaucer(t *testing.T) {
	s := emptySession(t)
	s.multiplier = 2
	s.saucers = []*object.Saucer{{Pos: physics.Vec2{X: 400, Y: 100}}}
	s.lasers = []*object.Projectile{laserAt(420, 100)}

	s.saucerHits()
	assert.True(t, s.saucers[0].Destroyed)
	assert.True(t, s.lasers[0].Expired)
	assert.Equal(t, 500, s.Score())
	assert.Len(t, s.explosions, 1)
}

func TestWellConsumesHazards(t *testing.T) {
	s := emptySession(t)
	s.wells = []*object.Well{{Pos: physics.Vec2{X: 200, Y: 200}, Radius: 60}}
	inside, outside := hazardAt(250, 200, 40), hazardAt(300, 200, 40)
	s.hazards = []*object.Hazard{inside, outside}

	s.wellHits()
	assert.True(t, inside.Destroyed)
	assert.False(t, outside.Destroyed)
	assert.Zero(t, s.Score())
	assert.Len(t, s.hazards, 2, "no fragments")
}

func TestPlayerContacts(t *testing.T) {
	center := physics.Vec2{X: 480, Y: 360}
	cases := []struct {
		name  string
		setup func(s *Session)
		hit   bool
	}{
		{"hazard at reach", func(s *Session) { s.hazards = []*object.Hazard{hazardAt(480+64, 360, 40)} }, true},
		{"hazard beyond reach", func(s *Session) { s.hazards = []*object.Hazard{hazardAt(480+65, 360, 40)} }, false},
		{"saucer", func(s *Session) { s.saucers = []*object.Saucer{{Pos: physics.Vec2{X: 480, Y: 386}}} }, true},
		{"saucer beyond reach", func(s *Session) { s.saucers = []*object.Saucer{{Pos: physics.Vec2{X: 480, Y: 387}}} }, false},
		{"enemy laser", func(s *Session) {
			s.enemyLasers = []*object.Projectile{{Owner: object.OwnerEnemy, Pos: physics.Vec2{X: 498, Y: 360}, Lifespan: 100}}
		}, true},
		{"well", func(s *Session) { s.wells = []*object.Well{{Pos: physics.Vec2{X: 500, Y: 360}, Radius: 60}} }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := emptySession(t)
			require.Equal(t, center, s.Ship().Pos)
			tc.setup(s)
			s.playerHits(0)
			assert.Equal(t, tc.hit, !s.Alive())
			if tc.hit {
				assert.Equal(t, 9, s.Lives())
			}
			for _, l := range s.enemyLasers {
				assert.True(t, l.Expired)
			}
		})
	}
}

func TestDeadPlayerIsNotHit(t *testing.T) {
	s := emptySession(t)
	s.HitPlayer(0)
	s.hazards = []*object.Hazard{hazardAt(480, 360, 40)}
	s.enemyLasers = []*object.Projectile{{Owner: object.OwnerEnemy, Pos: physics.Vec2{X: 480, Y: 360}, Lifespan: 100}}
	s.playerHits(10 * ms)
	assert.Equal(t, 9, s.Lives())
	assert.False(t, s.enemyLasers[0].Expired)
}

func TestSimultaneousContactsCostOneLife(t *testing.T) {
	s := emptySession(t)
	s.hazards = []*object.Hazard{hazardAt(500, 360, 40), hazardAt(460, 360, 40)}
	s.saucers = []*object.Saucer{{Pos: physics.Vec2{X: 480, Y: 380}}}
	shot := &object.Projectile{Owner: object.OwnerEnemy, Pos: physics.Vec2{X: 490, Y: 360}, Lifespan: 100}
	s.enemyLasers = []*object.Projectile{shot}
	s.wells = []*object.Well{{Pos: physics.Vec2{X: 500, Y: 360}, Radius: 60}}

	s.playerHits(0)

	assert.False(t, s.Alive())
	assert.Equal(t, 9, s.Lives())
	assert.False(t, shot.Expired, "the hazard landed first, the shot flies on")

	s.playerHits(ms)
	assert.Equal(t, 9, s.Lives())
}

func TestInvulnerableShipAbsorbsEnemyShot(t *testing.T) {
	s := emptySession(t)
	s.invulnerableUntil = time.Second
	shot := &object.Projectile{Owner: object.OwnerEnemy, Pos: physics.Vec2{X: 490, Y: 360}, Lifespan: 100}
	s.enemyLasers = []*object.Projectile{shot}

	s.playerHits(0)

	assert.True(t, s.Alive())
	assert.Equal(t, 10, s.Lives())
	assert.True(t, shot.Expired)
}

func TestBouncePassMatchesAllPairsScan(t *testing.T) {
	s := emptySession(t)
	s.t.Hazards.LargeRadius = math.Inf(1)
	rng := rand.New(rand.NewSource(11))

	var viaGrid, brute []*object.Hazard
	for range 90 {
		h := hazardAt(rng.Float64()*s.world.Width, rng.Float64()*s.world.Height, 10+rng.Float64()*50)
		h.Vel = physics.Vec2{X: rng.Float64() - 0.5, Y: rng.Float64() - 0.5}
		viaGrid = append(viaGrid, h)
		c := *h
		brute = append(brute, &c)
	}

	contacts := 0
	for i, a := range brute {
		for _, b := range brute[i+1:] {
			if physics.CirclesOverlap(a.Pos, a.Radius, b.Pos, b.Radius) {
				s.bounce(a, b)
				contacts++
			}
		}
	}
	require.Positive(t, contacts)

	s.hazards = viaGrid
	s.bounceHazards()

	require.Len(t, s.hazards, len(brute))
	for i := range brute {
		assert.Equal(t, brute[i].Pos, s.hazards[i].Pos, "hazard %d", i)
		assert.Equal(t, brute[i].Vel, s.hazards[i].Vel, "hazard %d", i)
	}
}
