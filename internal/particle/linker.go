package particle

import (
	"image/color"
	"math"

	"github.com/iburimskiy/phase-backdrop/internal/config"
	"github.com/iburimskiy/phase-backdrop/internal/surface"
)

// Linker draws faded lines between particles closer than the connect
// distance. Alpha falls off linearly from MaxAlpha at contact to 0 at the
// threshold.
type Linker struct {
	cfg  config.LinkerConfig
	grid *Grid
}

// NewLinker returns a linker. The bucket grid is only used when the pool is
// larger than cfg.GridThreshold and the threshold is positive.
func NewLinker(cfg config.LinkerConfig) *Linker {
	return &Linker{cfg: cfg}
}

// Alpha returns the line alpha for a pair at distance d and whether a line is
// drawn at all.
func (l *Linker) Alpha(d float64) (float64, bool) {
	return LinkAlpha(d, l.cfg.ConnectDistance, l.cfg.MaxAlpha)
}

// LinkAlpha is maxAlpha*(1 - d/connect) for d < connect.
func LinkAlpha(d, connect, maxAlpha float64) (float64, bool) {
	if d < 0 || d >= connect {
		return 0, false
	}
	return maxAlpha * (1 - d/connect), true
}

// Link draws every qualifying pair and returns the number of lines drawn.
func (l *Linker) Link(c surface.Canvas, ps []Particle, stroke color.NRGBA) int {
	if l.cfg.GridThreshold > 0 && len(ps) > l.cfg.GridThreshold {
		if l.grid == nil {
			l.grid = NewGrid(l.cfg.ConnectDistance)
		}
		return l.linkGrid(c, ps, stroke)
	}
	return l.linkAll(c, ps, stroke)
}

func (l *Linker) linkAll(c surface.Canvas, ps []Particle, stroke color.NRGBA) int {
	drawn := 0
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			if l.pair(c, &ps[i], &ps[j], stroke) {
				drawn++
			}
		}
	}
	return drawn
}

func (l *Linker) linkGrid(c surface.Canvas, ps []Particle, stroke color.NRGBA) int {
	l.grid.Build(ps)
	drawn := 0
	for i := range ps {
		l.grid.ForNeighbors(ps[i].X, ps[i].Y, func(j int) {
			if j > i && l.pair(c, &ps[i], &ps[j], stroke) {
				drawn++
			}
		})
	}
	return drawn
}

func (l *Linker) pair(c surface.Canvas, a, b *Particle, stroke color.NRGBA) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	alpha, ok := l.Alpha(math.Sqrt(dx*dx + dy*dy))
	if !ok {
		return false
	}
	c.Line(a.X, a.Y, b.X, b.Y, stroke, alpha, l.cfg.LineWidth)
	return true
}
