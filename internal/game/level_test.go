package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/figs-in-space/internal/object"
	"github.com/tomz197/figs-in-space/internal/physics"
)

func TestPlanLevel(t *testing.T) {
	s, _, _ := newSession(t)
	tests := []struct {
		level int
		want  LevelPlan
	}{
		{1, LevelPlan{Level: 1, Multiplier: 1, Hazards: 5, SpeedScale: 1}},
		{3, LevelPlan{Level: 3, Multiplier: 1.5, Hazards: 7, SpeedScale: 1.1, Saucers: 1}},
		{9, LevelPlan{Level: 9, Multiplier: 3, Hazards: 13, SpeedScale: 1.4, Wells: 1, Saucers: 4}},
		{12, LevelPlan{Level: 12, Multiplier: 3.75, Hazards: 13, SpeedScale: 1.4, Wells: 1, Saucers: 5}},
		{13, LevelPlan{Level: 13, Multiplier: 4, Hazards: 13, SpeedScale: 1.4, Wells: 2, Saucers: 6}},
	}
	for _, tc := range tests {
		got := s.PlanLevel(tc.level)
		assert.Equal(t, tc.want.Level, got.Level)
		assert.InDelta(t, tc.want.Multiplier, got.Multiplier, 1e-9, "level %d", tc.level)
		assert.Equal(t, tc.want.Hazards, got.Hazards, "level %d", tc.level)
		assert.InDelta(t, tc.want.SpeedScale, got.SpeedScale, 1e-9, "level %d", tc.level)
		assert.Equal(t, tc.want.Wells, got.Wells, "level %d", tc.level)
		assert.Equal(t, tc.want.Saucers, got.Saucers, "level %d", tc.level)
	}
}

func TestStartLevelSpawns(t *testing.T) {
	s := emptySession(t)
	s.StartLevel(13)

	assert.Equal(t, 13, s.Level())
	assert.InDelta(t, 4, s.Multiplier(), 1e-9)
	hazards, _, saucers, wells := s.Counts()
	assert.Equal(t, 13, hazards)
	assert.Equal(t, 6, saucers)
	assert.Equal(t, 2, wells)

	w := s.World()
	for _, h := range s.hazards {
		onEdge := h.Pos.X == 0 || h.Pos.X == w.Width || h.Pos.Y == 0 || h.Pos.Y == w.Height
		assert.True(t, onEdge)
		assert.GreaterOrEqual(t, h.Radius, 35.0)
		assert.LessOrEqual(t, h.Radius, 60.0)
		speed := h.Vel.Len()
		assert.GreaterOrEqual(t, speed, 0.02*1.4-1e-9)
		assert.LessOrEqual(t, speed, 0.08*1.4+1e-9)
	}
	for _, well := range s.wells {
		assert.GreaterOrEqual(t, well.Pos.X, 120.0)
		assert.LessOrEqual(t, well.Pos.X, w.Width-120)
		assert.GreaterOrEqual(t, well.Pos.Y, 120.0)
		assert.LessOrEqual(t, well.Pos.Y, w.Height-120)
	}
}

func TestWellsTrimBelowThreshold(t *testing.T) {
	s := emptySession(t)
	s.StartLevel(13)
	kept := s.wells[0]

	s.StartLevel(9)
	require.Len(t, s.wells, 1)
	assert.Same(t, kept, s.wells[0], "surviving wells stay in place")

	s.StartLevel(2)
	assert.Empty(t, s.wells)
}

func TestLevelAdvancesOnceWhenCleared(t *testing.T) {
	s := emptySession(t)
	s.saucers = []*object.Saucer{{Pos: physics.Vec2{X: 100, Y: 100}, FireInterval: 1e9}}
	s.enemyLasers = []*object.Projectile{{Owner: object.OwnerEnemy, Pos: physics.Vec2{X: 10, Y: 10}, Lifespan: 1e6}}

	s.Tick(16*ms, 16*ms)
	assert.Equal(t, 2, s.Level())
	assert.InDelta(t, 1.25, s.Multiplier(), 1e-9)
	hazards, _, saucers, _ := s.Counts()
	assert.Equal(t, 6, hazards)
	assert.Zero(t, saucers, "old saucers are cleared")
	assert.Empty(t, s.enemyLasers)

	s.Tick(32*ms, 16*ms)
	assert.Equal(t, 2, s.Level())
}

func TestFreshSaucersFireOnFirstUpdate(t *testing.T) {
	s := emptySession(t)
	s.now = 5 * time.Second
	s.StartLevel(3)
	_, _, saucers, _ := s.Counts()
	require.Equal(t, 1, saucers)
	assert.Zero(t, s.saucers[0].LastShotAt)

	sc := s.saucers[0]
	s.Tick(5016*ms, 16*ms)
	require.Len(t, s.enemyLasers, 1)
	assert.InDelta(t, 5016, sc.LastShotAt, 1e-9)

	s.Tick(5032*ms, 16*ms)
	assert.InDelta(t, 5016, sc.LastShotAt, 1e-9, "the next shot waits a full interval")
}

func TestNoAdvanceAfterGameOver(t *testing.T) {
	s := emptySession(t)
	s.gameOver = true
	s.checkLevel()
	assert.Equal(t, 1, s.Level())
}
