// Package screen is the ebiten rendering backend. Draw calls are batched into
// one vertex buffer and flushed into an offscreen image sized to the backing
// buffer, which the host blits onto the window.
package screen

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/phase-backdrop/internal/surface"
)

// maxBatchVertices keeps indices within uint16.
const maxBatchVertices = math.MaxUint16 - 64

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// Surface implements surface.Surface on an ebiten image.
type Surface struct {
	image *ebiten.Image
	dims  surface.Dimensions

	vertices []ebiten.Vertex
	indices  []uint16
	op       ebiten.DrawTrianglesOptions
	stroke   vector.StrokeOptions
}

// New returns an unsized surface. It draws nothing until the first Resize.
func New() *Surface {
	return &Surface{
		vertices: make([]ebiten.Vertex, 0, 4096),
		indices:  make([]uint16, 0, 8192),
		op: ebiten.DrawTrianglesOptions{
			ColorScaleMode: ebiten.ColorScaleModeStraightAlpha,
			AntiAlias:      true,
		},
		stroke: vector.StrokeOptions{LineJoin: vector.LineJoinMiter, MiterLimit: 4},
	}
}

// Resize reallocates the backing image. A zero-area size leaves no image.
func (s *Surface) Resize(d surface.Dimensions) {
	s.dims = d
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
	if s.image != nil {
		s.image.Deallocate()
		s.image = nil
	}
	if d.BackingWidth > 0 && d.BackingHeight > 0 {
		s.image = ebiten.NewImage(d.BackingWidth, d.BackingHeight)
	}
}

// Dimensions returns the size last passed to Resize.
func (s *Surface) Dimensions() surface.Dimensions {
	return s.dims
}

// Clear drops pending geometry and clears the backing image.
func (s *Surface) Clear() {
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
	if s.image != nil {
		s.image.Clear()
	}
}

// Triangle fills and strokes tri. Both colors are scaled by alpha.
func (s *Surface) Triangle(tri surface.Triangle, fill, stroke color.NRGBA, alpha, lineWidth float64) {
	if s.image == nil {
		return
	}
	s.reserve(64)

	r := float32(s.dims.Ratio)
	if a := surface.EffectiveAlpha(fill, alpha); a > 0 {
		base := uint16(len(s.vertices))
		for _, p := range tri {
			s.vertices = append(s.vertices, vertex(float32(p.X)*r, float32(p.Y)*r, fill, a))
		}
		s.indices = append(s.indices, base, base+1, base+2)
	}

	if a := surface.EffectiveAlpha(stroke, alpha); a > 0 && lineWidth > 0 {
		var path vector.Path
		path.MoveTo(float32(tri[0].X)*r, float32(tri[0].Y)*r)
		path.LineTo(float32(tri[1].X)*r, float32(tri[1].Y)*r)
		path.LineTo(float32(tri[2].X)*r, float32(tri[2].Y)*r)
		path.Close()

		s.stroke.Width = float32(lineWidth) * r
		from := len(s.vertices)
		s.vertices, s.indices = path.AppendVerticesAndIndicesForStroke(s.vertices, s.indices, &s.stroke)
		s.tint(from, stroke, a)
	}
}

// Line strokes a segment as a quad.
func (s *Surface) Line(x0, y0, x1, y1 float64, stroke color.NRGBA, alpha, lineWidth float64) {
	if s.image == nil || lineWidth <= 0 {
		return
	}
	a := surface.EffectiveAlpha(stroke, alpha)
	if a <= 0 {
		return
	}
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	s.reserve(4)

	r := s.dims.Ratio
	// Unit normal scaled to half the line width.
	nx := -dy / length * lineWidth / 2
	ny := dx / length * lineWidth / 2

	base := uint16(len(s.vertices))
	s.vertices = append(s.vertices,
		vertex(float32((x0+nx)*r), float32((y0+ny)*r), stroke, a),
		vertex(float32((x0-nx)*r), float32((y0-ny)*r), stroke, a),
		vertex(float32((x1+nx)*r), float32((y1+ny)*r), stroke, a),
		vertex(float32((x1-nx)*r), float32((y1-ny)*r), stroke, a),
	)
	s.indices = append(s.indices, base, base+1, base+2, base+1, base+3, base+2)
}

// Flush draws the pending batch into the backing image.
func (s *Surface) Flush() {
	if s.image == nil || len(s.indices) == 0 {
		s.vertices = s.vertices[:0]
		s.indices = s.indices[:0]
		return
	}
	s.image.DrawTriangles(s.vertices, s.indices, whiteSubImage, &s.op)
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
}

// DrawTo flushes pending geometry and copies the backing image onto dst at
// the origin. The host's layout is expected to be in backing pixels.
func (s *Surface) DrawTo(dst *ebiten.Image) {
	s.Flush()
	if s.image == nil {
		return
	}
	dst.DrawImage(s.image, nil)
}

func (s *Surface) reserve(n int) {
	if len(s.vertices)+n > maxBatchVertices {
		s.Flush()
	}
}

// tint recolors the vertices appended by the vector package, which emits
// them white and opaque.
func (s *Surface) tint(from int, c color.NRGBA, a float64) {
	for i := from; i < len(s.vertices); i++ {
		v := &s.vertices[i]
		v.SrcX, v.SrcY = 1, 1
		v.ColorR = float32(c.R) / 0xff
		v.ColorG = float32(c.G) / 0xff
		v.ColorB = float32(c.B) / 0xff
		v.ColorA = float32(a)
	}
}

func vertex(x, y float32, c color.NRGBA, a float64) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   x,
		DstY:   y,
		SrcX:   1,
		SrcY:   1,
		ColorR: float32(c.R) / 0xff,
		ColorG: float32(c.G) / 0xff,
		ColorB: float32(c.B) / 0xff,
		ColorA: float32(a),
	}
}
