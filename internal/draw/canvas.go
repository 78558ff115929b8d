// Package draw renders the simulation into a terminal using half-block
// characters. The canvas works in world coordinates and scales them into
// terminal cells with twice the vertical resolution.
package draw

import (
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/tomz197/figs-in-space/internal/physics"
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
	BlockEmpty     = ' '
)

// Ink is a foreground colour for canvas pixels. The zero Ink is an unset pixel.
type Ink uint8

const (
	InkNone Ink = iota
	InkWhite
	InkGray
	InkCyan
	InkYellow
	InkOrange
	InkRed
	InkGreen
	InkPurple
	InkMagenta
)

// 256-colour palette entries, indexed by Ink.
var inkCodes = [...]string{
	InkNone:    "\033[39m",
	InkWhite:   "\033[38;5;255m",
	InkGray:    "\033[38;5;244m",
	InkCyan:    "\033[38;5;51m",
	InkYellow:  "\033[38;5;226m",
	InkOrange:  "\033[38;5;208m",
	InkRed:     "\033[38;5;196m",
	InkGreen:   "\033[38;5;46m",
	InkPurple:  "\033[38;5;135m",
	InkMagenta: "\033[38;5;205m",
}

// ColorReset restores the terminal's default attributes.
const ColorReset = "\033[0m"

// cell is what the terminal currently shows at one position.
type cell struct {
	r   rune
	ink Ink
}

// stale never matches a rendered cell, so the next Render repaints it.
var stale = cell{r: -1}

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Drawing happens in logical (world) coordinates which are scaled to terminal pixels.
// Render only emits cells that changed since the previous Render.
type Canvas struct {
	termWidth      int   // Actual terminal columns
	termHeight     int   // Actual terminal rows
	subPixelHeight int   // termHeight * 2
	pixels         []Ink // [y * termWidth + x]

	screen []cell // what the last Render left on the terminal, [row * termWidth + col]

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offsets for centering the render area.
	offsetCol int
	offsetRow int

	renderBuf       strings.Builder
	numBuf          [20]byte
	scaledBuf       []physics.Vec2
	intersectionBuf []float64
	polygonBuf      []physics.Vec2
	circleBuf       []physics.Vec2
}

// NewScaledCanvas creates a canvas that maps a logicalWidth x logicalHeight
// world onto termWidth x termHeight terminal cells.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
// A resize forces a full repaint.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)
	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]Ink, c.subPixelHeight*termWidth)
		c.screen = make([]cell, termHeight*termWidth)
		c.ForceRedraw()
	}
	c.scaleX = float64(c.termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// Clear resets all pixels in the canvas. The terminal keeps its content
// until the next Render erases what is no longer drawn.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render repaint every cell, as after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	for i := range c.screen {
		c.screen[i] = stale
	}
}

// MarkTextDirty records that text was written over a run of cells, so the
// next Render repaints them. col and row are 1-based canvas positions.
func (c *Canvas) MarkTextDirty(col, row, width int) {
	row--
	if row < 0 || row >= c.termHeight {
		return
	}
	from := max(col-1, 0)
	to := min(col-1+width, c.termWidth)
	for x := from; x < to; x++ {
		c.screen[row*c.termWidth+x] = stale
	}
}

func (c *Canvas) setPixel(x, y int, ink Ink) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = ink
	}
}

// SetFloat sets a pixel at logical coordinates.
func (c *Canvas) SetFloat(x, y float64, ink Ink) {
	c.setPixel(int(math.Round(x*c.scaleX)), int(math.Round(y*c.scaleY)), ink)
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 physics.Vec2, ink Ink) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	for {
		c.setPixel(x1, y1, ink)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a closed polygon. If filled is true, the interior is
// filled with a scanline pass first.
func (c *Canvas) DrawPolygon(points []physics.Vec2, ink Ink, filled bool) {
	if len(points) < 3 {
		return
	}
	if filled {
		c.fillPolygon(points, ink)
	}
	n := len(points)
	for i := range n {
		c.DrawLine(points[i], points[(i+1)%n], ink)
	}
}

// DrawCircle draws a circle outline as a polygon whose segment count follows
// the on-screen size.
func (c *Canvas) DrawCircle(center physics.Vec2, radius float64, ink Ink) {
	px := radius * max(c.scaleX, c.scaleY)
	n := min(max(int(px*2), 8), 48)
	if cap(c.circleBuf) < n {
		c.circleBuf = make([]physics.Vec2, n)
	}
	pts := c.circleBuf[:n]
	for i := range n {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = physics.Add(center, physics.AngleToVector(a, radius))
	}
	c.DrawPolygon(pts, ink, false)
}

// fillPolygon fills a polygon using a scanline pass in pixel space.
func (c *Canvas) fillPolygon(points []physics.Vec2, ink Ink) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]physics.Vec2, len(points))
	}
	scaled := c.scaledBuf[:len(points)]
	for i, p := range points {
		scaled[i] = physics.Vec2{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	n := len(scaled)
	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		scanY := float64(y) + 0.5
		intersections := c.intersectionBuf[:0]
		for i := range n {
			p1, p2 := scaled[i], scaled[(i+1)%n]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections
		slices.Sort(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			for x := int(math.Ceil(intersections[i])); x <= int(math.Floor(intersections[i+1])); x++ {
				c.setPixel(x, y, ink)
			}
		}
	}
}

// glyph combines the two sub-pixels of a terminal cell. The upper pixel's
// ink wins when both are set.
func (c *Canvas) glyph(row, col int) cell {
	top := c.pixels[row*2*c.termWidth+col]
	bottom := c.pixels[(row*2+1)*c.termWidth+col]
	switch {
	case top != InkNone && bottom != InkNone:
		return cell{r: BlockFull, ink: top}
	case top != InkNone:
		return cell{r: BlockUpperHalf, ink: top}
	case bottom != InkNone:
		return cell{r: BlockLowerHalf, ink: bottom}
	default:
		return cell{r: BlockEmpty}
	}
}

// Render writes the cells that differ from the previous Render to w.
// It returns the number of cells written.
func (c *Canvas) Render(w io.Writer) int {
	c.renderBuf.Reset()
	written := 0
	ink := InkNone
	cursorRow, cursorCol := -1, -1

	for row := range c.termHeight {
		for col := range c.termWidth {
			g := c.glyph(row, col)
			i := row*c.termWidth + col
			if c.screen[i] == g {
				continue
			}
			c.screen[i] = g
			written++

			if row != cursorRow || col != cursorCol {
				c.moveCursor(row+1+c.offsetRow, col+1+c.offsetCol)
			}
			if g.r != BlockEmpty && g.ink != ink {
				c.renderBuf.WriteString(inkCodes[g.ink])
				ink = g.ink
			}
			c.renderBuf.WriteRune(g.r)
			cursorRow, cursorCol = row, col+1
		}
	}
	if ink != InkNone {
		c.renderBuf.WriteString(ColorReset)
	}
	if c.renderBuf.Len() > 0 {
		io.WriteString(w, c.renderBuf.String())
	}
	return written
}

func (c *Canvas) moveCursor(row, col int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // room for left/right bars
	hasV := c.offsetRow >= 1 // room for top/bottom bars
	if !hasH && !hasV {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	line := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	if hasV {
		if hasH {
			buf.WriteString(cursorTo(top, left) + "┌" + line + "┐")
			buf.WriteString(cursorTo(bottom, left) + "└" + line + "┘")
		} else {
			buf.WriteString(cursorTo(top, c.offsetCol+1) + line)
			buf.WriteString(cursorTo(bottom, c.offsetCol+1) + line)
		}
	}
	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			buf.WriteString(cursorTo(row, left) + "│" + cursorTo(row, right) + "│")
		}
	}
	io.WriteString(w, buf.String())
}

func cursorTo(row, col int) string {
	return "\033[" + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "H"
}

// LogicalWidth returns the width of the world being drawn.
func (c *Canvas) LogicalWidth() float64 { return c.logicalWidth }

// LogicalHeight returns the height of the world being drawn.
func (c *Canvas) LogicalHeight() float64 { return c.logicalHeight }

// TerminalWidth returns the canvas width in terminal columns.
func (c *Canvas) TerminalWidth() int { return c.termWidth }

// TerminalHeight returns the canvas height in terminal rows.
func (c *Canvas) TerminalHeight() int { return c.termHeight }

// LogicalToTerminal converts logical coordinates to a 1-based canvas position (col, row).
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}

// BorrowPoints returns a reusable slice of n points, valid until the next call.
func (c *Canvas) BorrowPoints(n int) []physics.Vec2 {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]physics.Vec2, n)
	}
	return c.polygonBuf[:n]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
