package physics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCircleTests(t *testing.T) {
	assert.True(t, CirclesOverlap(Vec2{}, 5, Vec2{X: 10}, 5), "touching counts")
	assert.False(t, CirclesOverlap(Vec2{}, 5, Vec2{X: 10.01}, 5))
	assert.True(t, PointInCircle(Vec2{X: 3, Y: 4}, Vec2{}, 5))
	assert.False(t, PointInCircle(Vec2{X: 3, Y: 4.1}, Vec2{}, 5))
	assert.InDelta(t, 5, Distance(Vec2{}, Vec2{X: 3, Y: 4}), 1e-9)
	assert.InDelta(t, 25, DistanceSquared(Vec2{}, Vec2{X: 3, Y: 4}), 1e-9)
}

func TestGridNeighborsMatchAllPairs(t *testing.T) {
	const w, h, maxR = 960.0, 720.0, 60.0
	rng := rand.New(rand.NewSource(7))

	pos := make([]Vec2, 80)
	radius := make([]float64, len(pos))
	for i := range pos {
		pos[i] = Vec2{X: rng.Float64() * w, Y: rng.Float64() * h}
		radius[i] = 10 + rng.Float64()*(maxR-10)
	}

	type pair struct{ i, j int }
	var brute []pair
	for i := range pos {
		for j := i + 1; j < len(pos); j++ {
			if CirclesOverlap(pos[i], radius[i], pos[j], radius[j]) {
				brute = append(brute, pair{i, j})
			}
		}
	}

	g := NewSpatialGrid(w, h, 2*maxR)
	for i, p := range pos {
		g.Insert(p, i)
	}
	var fromGrid []pair
	var buf []int
	for i := range pos {
		buf = g.Neighbors(pos[i], i, buf)
		for _, j := range buf {
			if CirclesOverlap(pos[i], radius[i], pos[j], radius[j]) {
				fromGrid = append(fromGrid, pair{i, j})
			}
		}
	}

	assert.Equal(t, brute, fromGrid)
}

func TestGridNeighborsReportMovedItemsOnce(t *testing.T) {
	g := NewSpatialGrid(960, 720, 120)
	g.Insert(Vec2{X: 100, Y: 100}, 0)
	g.Insert(Vec2{X: 150, Y: 100}, 1)
	g.Insert(Vec2{X: 200, Y: 100}, 1)
	g.Insert(Vec2{X: 130, Y: 140}, 2)
	g.Insert(Vec2{X: 500, Y: 500}, 2)

	assert.Equal(t, []int{1, 2}, g.Neighbors(Vec2{X: 100, Y: 100}, 0, nil))
	assert.Equal(t, []int{2}, g.Neighbors(Vec2{X: 500, Y: 500}, 0, nil))
}

func TestGridVisitsEachCellOnceOnTinyWorlds(t *testing.T) {
	g := NewSpatialGrid(100, 100, 60) // 2x2 cells
	g.Insert(Vec2{X: 10, Y: 10}, 0)
	g.Insert(Vec2{X: 90, Y: 90}, 1)

	seen := map[int]int{}
	g.QueryAround(Vec2{X: 10, Y: 10}, func(i int) bool {
		seen[i]++
		return false
	})
	assert.Equal(t, map[int]int{0: 1, 1: 1}, seen)

	g.Clear()
	count := 0
	g.QueryAround(Vec2{}, func(int) bool { count++; return false })
	assert.Zero(t, count)
}
