// Package particle implements the drifting triangle sprites, the pool that
// sizes them to the viewport, and the proximity linker that joins close pairs.
package particle

import (
	"math"
	"math/rand/v2"

	"github.com/iburimskiy/phase-backdrop/internal/config"
	"github.com/iburimskiy/phase-backdrop/internal/phase"
	"github.com/iburimskiy/phase-backdrop/internal/surface"
)

// sin60 is the half-base of an equilateral triangle inscribed in radius 1.
const sin60 = 0.866

// Bounds is the logical size particles live in.
type Bounds struct {
	Width, Height float64
}

// Particle is one triangular sprite. Fields are overwritten in place on
// respawn; particles are never removed from their pool.
type Particle struct {
	X, Y     float64
	Size     float64
	Speed    float64
	Rotation float64
	Spin     float64
	Opacity  float64
	Life     float64
}

// Spawn assigns fresh random attributes. With atRandomHeight the particle is
// placed anywhere on the surface; otherwise it starts below the bottom edge.
func (p *Particle) Spawn(rng *rand.Rand, b Bounds, cfg *config.ParticleConfig, atRandomHeight bool) {
	p.X = rng.Float64() * b.Width
	if atRandomHeight {
		p.Y = rng.Float64() * b.Height
	} else {
		p.Y = b.Height + rng.Float64()*cfg.SpawnDepth
	}

	p.Size = cfg.MinSize + rng.Float64()*(cfg.MaxSize-cfg.MinSize)
	p.Speed = cfg.MinSpeed + rng.Float64()*(cfg.MaxSpeed-cfg.MinSpeed)
	p.Rotation = rng.Float64() * math.Pi * 2
	p.Spin = (rng.Float64() - 0.5) * cfg.RotationSpeed
	p.Opacity = rng.Float64()
	p.Life = 1
}

// Advance moves the particle one tick and recycles it at the bottom once it
// has faded out or drifted past the top margin.
func (p *Particle) Advance(rng *rand.Rand, b Bounds, cfg *config.ParticleConfig) {
	p.Y -= p.Speed
	p.Rotation += p.Spin
	p.Opacity -= cfg.AlphaFade

	if p.Opacity <= 0 || p.Y < -cfg.RespawnMargin {
		p.Spawn(rng, b, cfg, false)
	}
}

// Shape returns the triangle in surface space: apex at (0, -size) and base
// corners at (±0.866·size, 0.5·size), rotated then translated to (X, Y).
func (p *Particle) Shape() surface.Triangle {
	sin, cos := math.Sincos(p.Rotation)
	local := [3]surface.Point{
		{X: 0, Y: -p.Size},
		{X: p.Size * sin60, Y: p.Size * 0.5},
		{X: -p.Size * sin60, Y: p.Size * 0.5},
	}

	var tri surface.Triangle
	for i, v := range local {
		tri[i] = surface.Point{
			X: p.X + v.X*cos - v.Y*sin,
			Y: p.Y + v.X*sin + v.Y*cos,
		}
	}
	return tri
}

// Render draws the outlined, filled triangle at the particle's opacity.
func (p *Particle) Render(c surface.Canvas, colors phase.Colors) {
	c.Triangle(p.Shape(), colors.Fill, colors.Stroke, p.Opacity, 1)
}
