package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/throwsim/internal/geom"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 4)

	c.Set(0, 0)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("top-left dot: got %x", c.Grid[0][0])
	}

	c.Set(7, 15)
	if c.Grid[3][3] != 0x2800|0x80 {
		t.Errorf("bottom-right dot: got %x", c.Grid[3][3])
	}

	// Out of range is a no-op.
	c.Set(-1, 0)
	c.Set(0, -1)
	c.Set(8, 0)
	c.Set(0, 16)
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(3, 3)
	c.Set(2, 2)
	c.Clear()

	for i, row := range c.Grid {
		for j, r := range row {
			if r != 0x2800 {
				t.Errorf("cell (%d,%d) not cleared: %x", i, j, r)
			}
		}
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(5, 2)
	s := c.String()

	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	for _, line := range lines {
		if len([]rune(line)) != 5 {
			t.Errorf("expected 5 cells per row, got %d", len([]rune(line)))
		}
	}
}

func TestDrawLineEndpoints(t *testing.T) {
	c := NewCanvas(10, 10)
	c.DrawLine(0, 0, 19, 39)

	if c.Grid[0][0] == 0x2800 {
		t.Error("line start not drawn")
	}
	if c.Grid[9][9] == 0x2800 {
		t.Error("line end not drawn")
	}
}

func TestDrawLineHorizontal(t *testing.T) {
	c := NewCanvas(10, 1)
	c.DrawLine(0, 0, 19, 0)

	for col := 0; col < 10; col++ {
		if c.Grid[0][col] == 0x2800 {
			t.Errorf("column %d empty on horizontal line", col)
		}
	}
}

func TestViewportMapping(t *testing.T) {
	c := NewCanvas(40, 20)
	// Square world region on a canvas with square dots.
	vp := FitViewport(c, 0, 0, 10, 10, 0)

	x, y := vp.ToScreen(geom.V(0, 0))
	if y != c.SubH()-1 {
		t.Errorf("world bottom should map to screen bottom, got y=%d", y)
	}
	if x < 0 || x >= c.SubW() {
		t.Errorf("x out of range: %d", x)
	}

	// Y increases upward in world space, downward on screen.
	_, yLow := vp.ToScreen(geom.V(5, 1))
	_, yHigh := vp.ToScreen(geom.V(5, 9))
	if yHigh >= yLow {
		t.Errorf("higher world point should have smaller screen y: %d vs %d", yHigh, yLow)
	}
}

func TestViewportUniformScale(t *testing.T) {
	c := NewCanvas(40, 20)
	vp := FitViewport(c, 0, 0, 20, 5, 0)

	// A unit step in x and a unit step in y cover the same dot distance.
	x0, y0 := vp.ToScreen(geom.V(0, 0))
	x1, _ := vp.ToScreen(geom.V(1, 0))
	_, y1 := vp.ToScreen(geom.V(0, 1))

	dx := x1 - x0
	dy := y0 - y1
	if absInt(dx-dy) > 1 {
		t.Errorf("scale not uniform: dx=%d dy=%d", dx, dy)
	}
}

func TestDrawSegment(t *testing.T) {
	c := NewCanvas(20, 20)
	vp := FitViewport(c, -1, -1, 1, 1, 0)

	count := func() int {
		n := 0
		for _, row := range c.Grid {
			for _, r := range row {
				if r != 0x2800 {
					n++
				}
			}
		}
		return n
	}

	c.DrawSegment(vp, geom.Segment{A: geom.V(-1, 0), B: geom.V(1, 0)})
	if count() == 0 {
		t.Fatal("segment drew nothing")
	}

	// Both endpoints lit.
	ax, ay := vp.ToScreen(geom.V(-1, 0))
	bx, by := vp.ToScreen(geom.V(1, 0))
	if c.Grid[ay/4][ax/2] == 0x2800 || c.Grid[by/4][bx/2] == 0x2800 {
		t.Error("segment endpoints not drawn")
	}
}

func TestDrawGround(t *testing.T) {
	c := NewCanvas(20, 10)
	vp := FitViewport(c, 0, -1, 10, 4, 0)

	c.DrawGround(vp, 0)

	_, gy := vp.ToScreen(geom.V(0, 0))
	lit := 0
	for col := 0; col < c.Width; col++ {
		if c.Grid[gy/4][col] != 0x2800 {
			lit++
		}
	}
	if lit != c.Width {
		t.Errorf("ground line incomplete: %d of %d columns", lit, c.Width)
	}

	// A ground far outside the viewport draws nothing.
	c.Clear()
	c.DrawGround(vp, 100)
	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				t.Fatal("out-of-view ground drew dots")
			}
		}
	}
}

func TestProgressBar(t *testing.T) {
	if got := ProgressBar(0.5, 10); got != "[=====-----]" {
		t.Errorf("half bar: %q", got)
	}
	if got := ProgressBar(-1, 4); got != "[----]" {
		t.Errorf("clamped low: %q", got)
	}
	if got := ProgressBar(2, 4); got != "[====]" {
		t.Errorf("clamped high: %q", got)
	}
}
