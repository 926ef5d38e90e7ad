package viz

import (
	"math"
	"strings"

	"github.com/san-kum/throwsim/internal/geom"
)

// Braille patterns: 2x4 dots per character cell.
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int // character cells
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
	return c
}

// SubW and SubH are the canvas dimensions in braille dots.
func (c *Canvas) SubW() int { return c.Width * 2 }
func (c *Canvas) SubH() int { return c.Height * 4 }

// Set lights the dot at (x, y) in dot coordinates. Out-of-range dots are
// ignored so callers can draw partially visible shapes.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Clear resets every cell to the empty braille character.
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a dot line with Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Dot lights a 3x3 blob, used for point masses and markers.
func (c *Canvas) Dot(x, y int) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c.Set(x+dx, y+dy)
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps a world rectangle onto canvas dots. Y points up in world
// space and down on screen; the mapping flips it. Scaling is uniform so a
// square stays square.
type Viewport struct {
	minX, minY float64
	scale      float64 // dots per meter
	subH       int
}

// FitViewport builds a viewport showing the world rectangle
// [minX,maxX]x[minY,maxY] plus a margin, centered on the canvas.
func FitViewport(c *Canvas, minX, minY, maxX, maxY, margin float64) Viewport {
	minX -= margin
	minY -= margin
	maxX += margin
	maxY += margin

	spanX := maxX - minX
	spanY := maxY - minY
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}

	subW, subH := c.SubW(), c.SubH()
	scale := math.Min(float64(subW-1)/spanX, float64(subH-1)/spanY)

	// Center the unused axis.
	minX -= (float64(subW-1)/scale - spanX) / 2
	minY -= (float64(subH-1)/scale - spanY) / 2

	return Viewport{minX: minX, minY: minY, scale: scale, subH: subH}
}

// ToScreen converts a world point to dot coordinates.
func (v Viewport) ToScreen(p geom.Vec2) (int, int) {
	x := (p.X - v.minX) * v.scale
	y := float64(v.subH-1) - (p.Y-v.minY)*v.scale
	return int(math.Round(x)), int(math.Round(y))
}

// Scale reports the dots-per-meter factor, for HUD annotations.
func (v Viewport) Scale() float64 { return v.scale }

// DrawSegment draws a world-space segment through the viewport.
func (c *Canvas) DrawSegment(v Viewport, s geom.Segment) {
	x0, y0 := v.ToScreen(s.A)
	x1, y1 := v.ToScreen(s.B)
	c.DrawLine(x0, y0, x1, y1)
}

// DrawMarker lights a world-space point as a single dot.
func (c *Canvas) DrawMarker(v Viewport, p geom.Vec2) {
	x, y := v.ToScreen(p)
	c.Set(x, y)
}

// DrawGround draws the horizontal world line y=h across the full canvas
// width, if it is inside the viewport.
func (c *Canvas) DrawGround(v Viewport, h float64) {
	_, y := v.ToScreen(geom.Vec2{X: v.minX, Y: h})
	if y < 0 || y >= c.SubH() {
		return
	}
	c.DrawLine(0, y, c.SubW()-1, y)
}
