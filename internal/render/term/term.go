// Package term renders the backdrop into a terminal through tcell. Each cell
// covers config.CellWidth x config.CellHeight surface units; particles become
// one glyph at their centroid and links become dotted cell runs.
package term

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/phase-backdrop/internal/config"
	"github.com/iburimskiy/phase-backdrop/internal/surface"
)

// Glyphs, by priority: a particle glyph is never overwritten by a link dot.
const (
	glyphNone = ' '
	glyphLink = '·'
)

// lineGain lifts link alpha so faint lines survive cell quantization.
const lineGain = 6.0

// Background is the color cells are blended onto.
var Background = colorful.Color{R: 10.0 / 255, G: 10.0 / 255, B: 15.0 / 255}

type cell struct {
	color colorful.Color
	glyph rune
}

// Surface implements surface.Surface on a tcell screen. Draw calls land in an
// off-screen cell buffer; Present copies it to the screen.
type Surface struct {
	screen tcell.Screen
	dims   surface.Dimensions

	cols, rows int
	cells      []cell
	status     string
}

// New wraps an initialised screen.
func New(screen tcell.Screen) *Surface {
	return &Surface{screen: screen}
}

// Resize sizes the cell buffer to cover d.
func (s *Surface) Resize(d surface.Dimensions) {
	s.dims = d
	s.cols = int(d.Width) / config.CellWidth
	s.rows = int(d.Height) / config.CellHeight
	n := s.cols * s.rows
	if cap(s.cells) >= n {
		s.cells = s.cells[:n]
	} else {
		s.cells = make([]cell, n)
	}
	s.Clear()
}

// Size returns the buffer size in cells.
func (s *Surface) Size() (cols, rows int) {
	return s.cols, s.rows
}

// Clear resets every cell to the background.
func (s *Surface) Clear() {
	for i := range s.cells {
		s.cells[i] = cell{color: Background, glyph: glyphNone}
	}
}

// Triangle blends the fill and stroke into the cell under the centroid and
// marks it with a glyph pointing the way the apex faces.
func (s *Surface) Triangle(tri surface.Triangle, fill, stroke color.NRGBA, alpha, _ float64) {
	cx := (tri[0].X + tri[1].X + tri[2].X) / 3
	cy := (tri[0].Y + tri[1].Y + tri[2].Y) / 3
	c := s.at(cellOf(cx, cy))
	if c == nil {
		return
	}
	c.color = blend(c.color, fill, alpha)
	c.color = blend(c.color, stroke, alpha)
	c.glyph = apexGlyph(tri[0].X-cx, tri[0].Y-cy)
}

// Line walks the cells between the endpoints and blends the stroke into each.
func (s *Surface) Line(x0, y0, x1, y1 float64, stroke color.NRGBA, alpha, _ float64) {
	c0, r0 := cellOf(x0, y0)
	c1, r1 := cellOf(x1, y1)
	a := alpha * lineGain
	bresenham(c0, r0, c1, r1, func(col, row int) {
		c := s.at(col, row)
		if c == nil {
			return
		}
		c.color = blend(c.color, stroke, a)
		if c.glyph == glyphNone {
			c.glyph = glyphLink
		}
	})
}

// SetStatus sets a line of text drawn over the bottom row by Present.
func (s *Surface) SetStatus(text string) {
	s.status = text
}

// Present copies the buffer and the status line to the screen and shows it.
func (s *Surface) Present() {
	if s.screen == nil {
		return
	}
	bg := toTcell(Background)
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			c := s.cells[row*s.cols+col]
			style := tcell.StyleDefault.Background(bg).Foreground(toTcell(c.color))
			s.screen.SetContent(col, row, c.glyph, nil, style)
		}
	}
	if s.status != "" && s.rows > 0 {
		style := tcell.StyleDefault.Background(bg).Foreground(tcell.ColorSilver)
		col := 0
		for _, r := range s.status {
			if col >= s.cols {
				break
			}
			s.screen.SetContent(col, s.rows-1, r, nil, style)
			col++
		}
	}
	s.screen.Show()
}

// Cell returns the glyph and color buffered for a cell.
func (s *Surface) Cell(col, row int) (rune, colorful.Color, bool) {
	c := s.at(col, row)
	if c == nil {
		return 0, colorful.Color{}, false
	}
	return c.glyph, c.color, true
}

func (s *Surface) at(col, row int) *cell {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return nil
	}
	return &s.cells[row*s.cols+col]
}

func cellOf(x, y float64) (int, int) {
	return int(math.Floor(x / config.CellWidth)), int(math.Floor(y / config.CellHeight))
}

// blend composites src over dst with src's alpha scaled by alpha.
func blend(dst colorful.Color, src color.NRGBA, alpha float64) colorful.Color {
	a := surface.EffectiveAlpha(src, alpha)
	if a <= 0 {
		return dst
	}
	over := colorful.Color{R: float64(src.R) / 255, G: float64(src.G) / 255, B: float64(src.B) / 255}
	return dst.BlendRgb(over, a).Clamped()
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// apexGlyph picks the arrow closest to the apex direction (dx, dy), with y
// growing downward.
func apexGlyph(dx, dy float64) rune {
	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			return '▶'
		}
		return '◀'
	}
	if dy > 0 {
		return '▼'
	}
	return '▲'
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
