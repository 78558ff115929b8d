package physics

import (
	"errors"
	"fmt"
	"math"
)

// ErrNonPositiveLimit is returned by Wrap when the wrap limit is zero or negative.
var ErrNonPositiveLimit = errors.New("physics: wrap limit must be > 0")

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X, Y float64
}

// Add returns a + b.
func Add(a, b Vec2) Vec2 {
	return Vec2{X: a.X + b.X, Y: a.Y + b.Y}
}

// Sub returns a - b.
func Sub(a, b Vec2) Vec2 {
	return Vec2{X: a.X - b.X, Y: a.Y - b.Y}
}

// Scale returns v multiplied by s.
func Scale(v Vec2, s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Dot returns the dot product of a and b.
func Dot(a, b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Len returns the Euclidean norm of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// LimitMagnitude returns v scaled down to max if its norm exceeds max.
// Zero vectors and vectors already within max are returned unchanged.
func LimitMagnitude(v Vec2, max float64) Vec2 {
	length := v.Len()
	if length == 0 || length <= max {
		return v
	}
	return Scale(v, max/length)
}

// AngleToVector returns the vector of the given magnitude pointing along angle (radians).
func AngleToVector(angle, magnitude float64) Vec2 {
	return Vec2{X: math.Cos(angle) * magnitude, Y: math.Sin(angle) * magnitude}
}

// AngleBetween returns the heading in radians from a towards b.
func AngleBetween(a, b Vec2) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// WrapAngle normalizes an angle into [-π, π).
func WrapAngle(angle float64) float64 {
	a := math.Mod(angle+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// Wrap maps value into [0, limit) so that leaving one edge re-enters the opposite one.
func Wrap(value, limit float64) (float64, error) {
	if !(limit > 0) {
		return 0, fmt.Errorf("%w: got %v", ErrNonPositiveLimit, limit)
	}
	w := math.Mod(value, limit)
	if w < 0 {
		w += limit
	}
	// math.Mod of a tiny negative value can round up to exactly limit.
	if w >= limit {
		w = 0
	}
	return w, nil
}

// MustWrap is like Wrap but panics on a non-positive limit.
// Use it where the limit comes from validated configuration.
func MustWrap(value, limit float64) float64 {
	w, err := Wrap(value, limit)
	if err != nil {
		panic(err)
	}
	return w
}

// WrapVec wraps both components of p into the width x height torus.
func WrapVec(p Vec2, width, height float64) Vec2 {
	return Vec2{X: MustWrap(p.X, width), Y: MustWrap(p.Y, height)}
}
