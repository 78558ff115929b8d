package draw

import (
	"math"

	"github.com/tomz197/figs-in-space/internal/object"
	"github.com/tomz197/figs-in-space/internal/physics"
)

// Renderer draws sprites onto a canvas. It holds no per-frame state, so one
// value can serve every connection.
type Renderer struct {
	LaserLength float64 // world units behind the laser head
	BlinkSteps  float64 // blink toggles over a full fade-in
}

// NewRenderer returns a renderer with the default look.
func NewRenderer() Renderer {
	return Renderer{LaserLength: 10, BlinkSteps: 20}
}

// Draw paints every visible sprite. Sprites near an edge are repeated on the
// opposite side, matching the wrapping world.
func (r Renderer) Draw(c *Canvas, sprites []object.Sprite) {
	w, h := c.LogicalWidth(), c.LogicalHeight()
	for _, sp := range sprites {
		if !sp.Visible || !r.lit(sp) {
			continue
		}
		reach := sp.Radius + r.LaserLength
		for _, dx := range wrapOffsets(sp.Pos.X, reach, w) {
			for _, dy := range wrapOffsets(sp.Pos.Y, reach, h) {
				moved := sp
				moved.Pos = physics.Vec2{X: sp.Pos.X + dx, Y: sp.Pos.Y + dy}
				r.drawOne(c, moved)
			}
		}
	}
}

// lit reports whether a fading ship shows this frame. Blinking is derived from
// opacity alone, so it needs no clock.
func (r Renderer) lit(sp object.Sprite) bool {
	if sp.Kind != object.KindShip || sp.Opacity >= 1 {
		return true
	}
	return int(sp.Opacity*r.BlinkSteps)%2 == 0
}

func wrapOffsets(v, reach, limit float64) []float64 {
	switch {
	case v-reach < 0:
		return []float64{0, limit}
	case v+reach > limit:
		return []float64{0, -limit}
	default:
		return []float64{0}
	}
}

func (r Renderer) drawOne(c *Canvas, sp object.Sprite) {
	switch sp.Kind {
	case object.KindShip:
		r.drawShip(c, sp)
	case object.KindHazard:
		r.drawHazard(c, sp)
	case object.KindLaser:
		tail := physics.Sub(sp.Pos, physics.AngleToVector(sp.Rotation, r.LaserLength))
		c.DrawLine(tail, sp.Pos, InkCyan)
	case object.KindEnemyLaser:
		c.SetFloat(sp.Pos.X, sp.Pos.Y, InkRed)
	case object.KindSaucer:
		r.drawSaucer(c, sp)
	case object.KindWell:
		for _, f := range []float64{1, 0.66, 0.33} {
			c.DrawCircle(sp.Pos, sp.Radius*f, InkPurple)
		}
	case object.KindExplosion:
		r.drawExplosion(c, sp)
	}
}

func (r Renderer) drawShip(c *Canvas, sp object.Sprite) {
	ink := InkWhite
	if sp.Opacity < 1 {
		ink = InkGray
	}
	pts := c.BorrowPoints(3)
	pts[0] = physics.Add(sp.Pos, physics.AngleToVector(sp.Rotation, sp.Radius))
	pts[1] = physics.Add(sp.Pos, physics.AngleToVector(sp.Rotation+2.5, sp.Radius*0.8))
	pts[2] = physics.Add(sp.Pos, physics.AngleToVector(sp.Rotation-2.5, sp.Radius*0.8))
	c.DrawPolygon(pts, ink, false)
}

func (r Renderer) drawHazard(c *Canvas, sp object.Sprite) {
	shape := sp.Shape
	n := len(shape)
	if n < 3 {
		n = 10
	}
	pts := c.BorrowPoints(n)
	for i := range n {
		k := 1.0
		if i < len(shape) {
			k = shape[i]
		}
		a := sp.Rotation + 2*math.Pi*float64(i)/float64(n)
		pts[i] = physics.Add(sp.Pos, physics.AngleToVector(a, sp.Radius*k))
	}
	c.DrawPolygon(pts, InkMagenta, false)
}

func (r Renderer) drawSaucer(c *Canvas, sp object.Sprite) {
	rad := sp.Radius
	hull := c.BorrowPoints(6)
	hull[0] = physics.Vec2{X: sp.Pos.X - rad, Y: sp.Pos.Y}
	hull[1] = physics.Vec2{X: sp.Pos.X - rad/2, Y: sp.Pos.Y - rad/4}
	hull[2] = physics.Vec2{X: sp.Pos.X + rad/2, Y: sp.Pos.Y - rad/4}
	hull[3] = physics.Vec2{X: sp.Pos.X + rad, Y: sp.Pos.Y}
	hull[4] = physics.Vec2{X: sp.Pos.X + rad/2, Y: sp.Pos.Y + rad/3}
	hull[5] = physics.Vec2{X: sp.Pos.X - rad/2, Y: sp.Pos.Y + rad/3}
	c.DrawPolygon(hull, InkGreen, false)

	dome := c.BorrowPoints(4)
	dome[0] = physics.Vec2{X: sp.Pos.X - rad/3, Y: sp.Pos.Y - rad/4}
	dome[1] = physics.Vec2{X: sp.Pos.X - rad/5, Y: sp.Pos.Y - rad/2}
	dome[2] = physics.Vec2{X: sp.Pos.X + rad/5, Y: sp.Pos.Y - rad/2}
	dome[3] = physics.Vec2{X: sp.Pos.X + rad/3, Y: sp.Pos.Y - rad/4}
	c.DrawPolygon(dome, InkGreen, true)
}

func (r Renderer) drawExplosion(c *Canvas, sp object.Sprite) {
	ink := InkYellow
	switch {
	case sp.Progress > 0.75:
		ink = InkGray
	case sp.Progress > 0.4:
		ink = InkOrange
	}
	outer := sp.Radius * math.Max(sp.Progress, 0.1)
	inner := outer * 0.5
	for _, heading := range sp.Shape {
		from := physics.Add(sp.Pos, physics.AngleToVector(heading, inner))
		to := physics.Add(sp.Pos, physics.AngleToVector(heading, outer))
		c.DrawLine(from, to, ink)
	}
}
