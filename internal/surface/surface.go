// Package surface defines the drawing target shared by the particle core and
// its rendering backends.
package surface

import (
	"image/color"
	"math"
)

// Point is a position in surface units.
type Point struct {
	X, Y float64
}

// Triangle is three vertices in surface units.
type Triangle [3]Point

// Canvas is a 2D drawing context. Colors use straight alpha; alpha is a
// global multiplier applied on top of the color's own alpha.
type Canvas interface {
	Clear()
	Triangle(tri Triangle, fill, stroke color.NRGBA, alpha, lineWidth float64)
	Line(x0, y0, x1, y1 float64, stroke color.NRGBA, alpha, lineWidth float64)
}

// Surface is a Canvas that can be resized.
type Surface interface {
	Canvas
	Resize(d Dimensions)
}

// Dimensions describes the logical size of a surface and its backing buffer.
type Dimensions struct {
	Width, Height float64
	Ratio         float64

	BackingWidth, BackingHeight int
}

// NewDimensions clamps ratio to (0, maxRatio] and sizes the backing buffer as
// floor(logical * ratio). A non-positive ratio is treated as 1.
func NewDimensions(width, height, ratio, maxRatio float64) Dimensions {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if ratio <= 0 || math.IsNaN(ratio) {
		ratio = 1
	}
	if maxRatio > 0 && ratio > maxRatio {
		ratio = maxRatio
	}
	return Dimensions{
		Width:         width,
		Height:        height,
		Ratio:         ratio,
		BackingWidth:  int(math.Floor(width * ratio)),
		BackingHeight: int(math.Floor(height * ratio)),
	}
}

// Area returns the logical area.
func (d Dimensions) Area() float64 {
	return d.Width * d.Height
}

// EffectiveAlpha combines a color's alpha with a global alpha, clamped to [0, 1].
func EffectiveAlpha(c color.NRGBA, alpha float64) float64 {
	a := float64(c.A) / 255 * alpha
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}
