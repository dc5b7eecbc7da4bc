package term

import (
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/phase-backdrop/internal/surface"
)

func newTestSurface(t *testing.T, cols, rows int) (*Surface, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows)

	s := New(screen)
	s.Resize(surface.NewDimensions(float64(cols*8), float64(rows*16), 1, 2))
	return s, screen
}

func upTriangle(cx, cy, size float64) surface.Triangle {
	return surface.Triangle{
		{X: cx, Y: cy - size},
		{X: cx - 0.866*size, Y: cy + size/2},
		{X: cx + 0.866*size, Y: cy + size/2},
	}
}

func TestResizeCellGrid(t *testing.T) {
	s, _ := newTestSurface(t, 40, 12)
	if cols, rows := s.Size(); cols != 40 || rows != 12 {
		t.Errorf("expected 40x12 cells, got %dx%d", cols, rows)
	}

	s.Resize(surface.NewDimensions(100, 20, 1, 2))
	if cols, rows := s.Size(); cols != 12 || rows != 1 {
		t.Errorf("expected 12x1 cells, got %dx%d", cols, rows)
	}
}

func TestTrianglePlacesGlyphAtCentroid(t *testing.T) {
	s, screen := newTestSurface(t, 20, 10)
	stroke := color.NRGBA{R: 255, G: 42, B: 42, A: 255}

	// Centroid of an equilateral triangle around (84, 40) sits at (84, 40).
	s.Triangle(upTriangle(84, 40, 6), stroke, stroke, 1, 1)
	s.Present()

	glyph, c, ok := s.Cell(10, 2)
	if !ok {
		t.Fatal("expected cell (10, 2) to exist")
	}
	if glyph != '▲' {
		t.Errorf("expected ▲, got %q", glyph)
	}
	if r, g, b := c.RGB255(); r != 255 || g != 42 || b != 42 {
		t.Errorf("expected opaque stroke color, got %d,%d,%d", r, g, b)
	}

	primary, _, _, _ := screen.GetContent(10, 2)
	if primary != '▲' {
		t.Errorf("expected screen to show ▲, got %q", primary)
	}
}

func TestTriangleZeroAlphaKeepsBackground(t *testing.T) {
	s, _ := newTestSurface(t, 20, 10)
	stroke := color.NRGBA{R: 255, A: 255}

	s.Triangle(upTriangle(84, 40, 6), stroke, stroke, 0, 1)

	_, c, _ := s.Cell(10, 2)
	if c != Background {
		t.Errorf("expected background color, got %v", c)
	}
}

func TestTriangleOffscreenIgnored(t *testing.T) {
	s, _ := newTestSurface(t, 4, 4)
	stroke := color.NRGBA{R: 255, A: 255}

	s.Triangle(upTriangle(-40, -40, 6), stroke, stroke, 1, 1)
	s.Triangle(upTriangle(1000, 1000, 6), stroke, stroke, 1, 1)

	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if glyph, _, _ := s.Cell(col, row); glyph != ' ' {
				t.Errorf("expected empty cell at (%d, %d), got %q", col, row, glyph)
			}
		}
	}
}

func TestLineDotsEveryCellOnPath(t *testing.T) {
	s, _ := newTestSurface(t, 20, 4)
	stroke := color.NRGBA{R: 63, G: 169, B: 245, A: 255}

	s.Line(4, 8, 76, 8, stroke, 0.05, 0.5)

	for col := 0; col <= 9; col++ {
		glyph, c, _ := s.Cell(col, 0)
		if glyph != '·' {
			t.Errorf("expected link dot at column %d, got %q", col, glyph)
		}
		if c == Background {
			t.Errorf("expected column %d to be tinted", col)
		}
	}
	if glyph, _, _ := s.Cell(10, 0); glyph != ' ' {
		t.Errorf("expected line to stop at column 9, got %q", glyph)
	}
}

func TestLineDoesNotOverwriteParticle(t *testing.T) {
	s, _ := newTestSurface(t, 20, 10)
	stroke := color.NRGBA{R: 255, A: 255}

	s.Triangle(upTriangle(84, 40, 6), stroke, stroke, 1, 1)
	s.Line(0, 40, 159, 40, stroke, 1, 0.5)

	if glyph, _, _ := s.Cell(10, 2); glyph != '▲' {
		t.Errorf("expected particle glyph to survive, got %q", glyph)
	}
}

func TestClearResetsCells(t *testing.T) {
	s, _ := newTestSurface(t, 10, 4)
	stroke := color.NRGBA{R: 255, A: 255}
	s.Line(0, 0, 79, 63, stroke, 1, 0.5)

	s.Clear()

	for row := 0; row < 4; row++ {
		for col := 0; col < 10; col++ {
			glyph, c, _ := s.Cell(col, row)
			if glyph != ' ' || c != Background {
				t.Fatalf("expected cleared cell at (%d, %d), got %q %v", col, row, glyph, c)
			}
		}
	}
}

func TestApexGlyph(t *testing.T) {
	tests := []struct {
		dx, dy float64
		want   rune
	}{
		{0, -1, '▲'},
		{0, 1, '▼'},
		{1, 0, '▶'},
		{-1, 0, '◀'},
		{0.3, -1, '▲'},
	}
	for _, tt := range tests {
		if got := apexGlyph(tt.dx, tt.dy); got != tt.want {
			t.Errorf("apexGlyph(%g, %g): expected %q, got %q", tt.dx, tt.dy, tt.want, got)
		}
	}
}

func TestBresenhamEndpoints(t *testing.T) {
	var got [][2]int
	bresenham(3, 1, 0, 0, func(x, y int) { got = append(got, [2]int{x, y}) })

	if len(got) != 4 {
		t.Fatalf("expected 4 cells, got %d: %v", len(got), got)
	}
	if got[0] != [2]int{3, 1} || got[3] != [2]int{0, 0} {
		t.Errorf("expected path from (3,1) to (0,0), got %v", got)
	}
}

func TestPresentDrawsStatusLine(t *testing.T) {
	s, screen := newTestSurface(t, 20, 4)
	s.SetStatus("paused")
	s.Present()

	for i, want := range "paused" {
		got, _, _, _ := screen.GetContent(i, 3)
		if got != want {
			t.Errorf("expected %q at column %d, got %q", want, i, got)
		}
	}
	if got, _, _, _ := screen.GetContent(0, 2); got != ' ' {
		t.Errorf("expected empty row above status, got %q", got)
	}
}
