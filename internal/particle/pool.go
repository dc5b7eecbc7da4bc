package particle

import (
	"math"
	"math/rand/v2"

	"github.com/iburimskiy/phase-backdrop/internal/config"
	"github.com/iburimskiy/phase-backdrop/internal/phase"
	"github.com/iburimskiy/phase-backdrop/internal/surface"
)

// Pool owns every live particle. It is replaced wholesale on rebuild and
// never resized partially.
type Pool struct {
	cfg       config.ParticleConfig
	rng       *rand.Rand
	bounds    Bounds
	particles []Particle
}

// NewPool returns an empty pool. Call Rebuild before stepping.
func NewPool(cfg config.ParticleConfig, rng *rand.Rand) *Pool {
	return &Pool{
		cfg:       cfg,
		rng:       rng,
		particles: make([]Particle, 0, max(cfg.MaxParticles, 0)),
	}
}

// TargetCount is floor(width*height*density) clamped to [0, MaxParticles].
func (p *Pool) TargetCount(width, height float64) int {
	return TargetCount(width, height, &p.cfg)
}

// TargetCount computes the population for a viewport with the given tuning.
func TargetCount(width, height float64, cfg *config.ParticleConfig) int {
	area := width * height
	if area <= 0 || math.IsNaN(area) {
		return 0
	}
	n := math.Floor(area * cfg.Density)
	if n >= float64(cfg.MaxParticles) {
		return cfg.MaxParticles
	}
	if n < 0 {
		return 0
	}
	return int(n)
}

// Rebuild clears the pool and refills it for the new bounds, every particle
// spawned at a random height so the first frame already looks settled.
func (p *Pool) Rebuild(width, height float64) {
	p.bounds = Bounds{Width: width, Height: height}
	n := p.TargetCount(width, height)

	p.particles = p.particles[:0]
	for i := 0; i < n; i++ {
		p.particles = append(p.particles, Particle{})
		p.particles[i].Spawn(p.rng, p.bounds, &p.cfg, true)
	}
}

// Step advances then renders every particle in pool order.
func (p *Pool) Step(c surface.Canvas, colors phase.Colors) {
	for i := range p.particles {
		p.particles[i].Advance(p.rng, p.bounds, &p.cfg)
		p.particles[i].Render(c, colors)
	}
}

// Len returns the current population.
func (p *Pool) Len() int {
	return len(p.particles)
}

// Bounds returns the bounds of the last rebuild.
func (p *Pool) Bounds() Bounds {
	return p.bounds
}

// Particles exposes the pool for the linker. Callers must not append to it.
func (p *Pool) Particles() []Particle {
	return p.particles
}
