package physics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		limit float64
		want  float64
	}{
		{"negative", -5, 960, 955},
		{"past edge", 970, 960, 10},
		{"inside", 480, 960, 480},
		{"zero", 0, 720, 0},
		{"exact limit", 720, 720, 0},
		{"many laps", -2*960 - 1, 960, 959},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Wrap(tt.value, tt.limit)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestWrapAlwaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	for i := 0; i < 10000; i++ {
		limit := 1 + rng.Float64()*2000
		v := (rng.Float64() - 0.5) * 1e6
		if i%100 == 0 {
			v = -1e-17
		}
		got, err := Wrap(v, limit)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.Less(t, got, limit)
	}
}

func TestWrapRejectsNonPositiveLimit(t *testing.T) {
	for _, limit := range []float64{0, -1, math.NaN()} {
		_, err := Wrap(10, limit)
		assert.ErrorIs(t, err, ErrNonPositiveLimit)
	}
	assert.Panics(t, func() { MustWrap(1, 0) })
}

func TestLimitMagnitude(t *testing.T) {
	got := LimitMagnitude(Vec2{X: 6, Y: 8}, 5)
	assert.InDelta(t, 3, got.X, 1e-9)
	assert.InDelta(t, 4, got.Y, 1e-9)
	assert.InDelta(t, 5, got.Len(), 1e-9)

	assert.Equal(t, Vec2{}, LimitMagnitude(Vec2{}, 5))
	assert.Equal(t, Vec2{X: 1, Y: 1}, LimitMagnitude(Vec2{X: 1, Y: 1}, 5))
}

func TestAngleToVector(t *testing.T) {
	v := AngleToVector(0, 2)
	assert.InDelta(t, 2, v.X, 1e-9)
	assert.InDelta(t, 0, v.Y, 1e-9)

	v = AngleToVector(math.Pi/2, 1)
	assert.InDelta(t, 0, v.X, 1e-9)
	assert.InDelta(t, 1, v.Y, 1e-9)
}

func TestWrapAngle(t *testing.T) {
	assert.InDelta(t, 0.5, WrapAngle(0.5+4*math.Pi), 1e-9)
	assert.InDelta(t, -0.5, WrapAngle(-0.5-2*math.Pi), 1e-9)
	assert.InDelta(t, -math.Pi+0.1, WrapAngle(math.Pi+0.1), 1e-9)
}

func TestVectorArithmetic(t *testing.T) {
	a := Vec2{X: 1, Y: 2}
	b := Vec2{X: 3, Y: -4}
	assert.Equal(t, Vec2{X: 4, Y: -2}, Add(a, b))
	assert.Equal(t, Vec2{X: -2, Y: 6}, Sub(a, b))
	assert.Equal(t, Vec2{X: 2, Y: 4}, Scale(a, 2))
	assert.InDelta(t, -5, Dot(a, b), 1e-9)
	assert.InDelta(t, 0, AngleBetween(Vec2{}, Vec2{X: 10}), 1e-9)
}
