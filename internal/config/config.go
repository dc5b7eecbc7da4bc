// Package config loads the backdrop tuning parameters.
//
// Defaults live in the embedded defaults.yaml. A user file overlays them;
// only the keys present in that file are replaced.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Fixed layout constants for the hosts.
const (
	// CellWidth and CellHeight map one terminal cell to surface units.
	CellWidth  = 8
	CellHeight = 16

	// FrameTapSize is how many recent ticks the loop keeps for the overlay.
	FrameTapSize = 256
)

// Config holds every tunable of the backdrop.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Particles ParticleConfig  `yaml:"particles"`
	Linker    LinkerConfig    `yaml:"linker"`
	Loop      LoopConfig      `yaml:"loop"`
	Phase     PhaseConfig     `yaml:"phase"`
	Page      PageConfig      `yaml:"page"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// WindowConfig holds desktop window settings.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// ParticleConfig holds particle spawn and motion parameters.
type ParticleConfig struct {
	Density       float64 `yaml:"density"` // particles per square unit
	MinSize       float64 `yaml:"min_size"`
	MaxSize       float64 `yaml:"max_size"`
	MinSpeed      float64 `yaml:"min_speed"` // units per tick
	MaxSpeed      float64 `yaml:"max_speed"`
	RotationSpeed float64 `yaml:"rotation_speed"` // rad per tick, full spread
	AlphaFade     float64 `yaml:"alpha_fade"`     // opacity lost per tick
	MaxParticles  int     `yaml:"max_particles"`
	RespawnMargin float64 `yaml:"respawn_margin"` // recycle once y < -margin
	SpawnDepth    float64 `yaml:"spawn_depth"`    // respawn band below the bottom edge
}

// LinkerConfig holds proximity connection parameters.
type LinkerConfig struct {
	ConnectDistance float64 `yaml:"connect_distance"`
	MaxAlpha        float64 `yaml:"max_alpha"`
	LineWidth       float64 `yaml:"line_width"`
	GridThreshold   int     `yaml:"grid_threshold"` // 0 disables the bucket grid
}

// LoopConfig holds render loop parameters.
type LoopConfig struct {
	ResizeDebounce time.Duration `yaml:"resize_debounce"`
	MaxPixelRatio  float64       `yaml:"max_pixel_ratio"`
}

// PhaseConfig holds phase manager parameters.
type PhaseConfig struct {
	Threshold float64 `yaml:"threshold"`
}

// PageConfig holds the simulated page layout.
type PageConfig struct {
	SectionHeights  []float64 `yaml:"section_heights"` // multiples of the viewport height
	RevealRatio     float64   `yaml:"reveal_ratio"`
	TransitionRatio float64   `yaml:"transition_ratio"` // heading fade-in starts here
	ScrollStep      float64   `yaml:"scroll_step"`
	Easing          float64   `yaml:"easing"`
}

// TelemetryConfig holds frame statistics parameters.
type TelemetryConfig struct {
	Window int `yaml:"window"` // ticks per summary
}

// Load reads the embedded defaults and overlays path when it is not empty.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the embedded defaults. Panics if they are malformed.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Validate rejects values the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	p := c.Particles
	if p.Density < 0 {
		errs = append(errs, fmt.Errorf("particles.density must be >= 0, got %g", p.Density))
	}
	if p.MinSize <= 0 || p.MaxSize < p.MinSize {
		errs = append(errs, fmt.Errorf("particles size range [%g, %g] is invalid", p.MinSize, p.MaxSize))
	}
	if p.MinSpeed < 0 || p.MaxSpeed < p.MinSpeed {
		errs = append(errs, fmt.Errorf("particles speed range [%g, %g] is invalid", p.MinSpeed, p.MaxSpeed))
	}
	if p.MaxParticles < 0 {
		errs = append(errs, fmt.Errorf("particles.max_particles must be >= 0, got %d", p.MaxParticles))
	}
	if p.AlphaFade < 0 {
		errs = append(errs, fmt.Errorf("particles.alpha_fade must be >= 0, got %g", p.AlphaFade))
	}
	if p.RespawnMargin < 0 {
		errs = append(errs, fmt.Errorf("particles.respawn_margin must be >= 0, got %g", p.RespawnMargin))
	}
	if p.SpawnDepth < 0 {
		errs = append(errs, fmt.Errorf("particles.spawn_depth must be >= 0, got %g", p.SpawnDepth))
	}
	l := c.Linker
	if l.ConnectDistance <= 0 {
		errs = append(errs, fmt.Errorf("linker.connect_distance must be > 0, got %g", l.ConnectDistance))
	}
	if l.MaxAlpha < 0 || l.MaxAlpha > 1 {
		errs = append(errs, fmt.Errorf("linker.max_alpha must be in [0, 1], got %g", l.MaxAlpha))
	}
	if l.LineWidth < 0 {
		errs = append(errs, fmt.Errorf("linker.line_width must be >= 0, got %g", l.LineWidth))
	}
	if c.Loop.ResizeDebounce < 0 {
		errs = append(errs, fmt.Errorf("loop.resize_debounce must be >= 0, got %s", c.Loop.ResizeDebounce))
	}
	if c.Loop.MaxPixelRatio <= 0 {
		errs = append(errs, fmt.Errorf("loop.max_pixel_ratio must be > 0, got %g", c.Loop.MaxPixelRatio))
	}
	if c.Phase.Threshold <= 0 || c.Phase.Threshold > 1 {
		errs = append(errs, fmt.Errorf("phase.threshold must be in (0, 1], got %g", c.Phase.Threshold))
	}
	if len(c.Page.SectionHeights) != 3 {
		errs = append(errs, fmt.Errorf("page.section_heights needs 3 entries, got %d", len(c.Page.SectionHeights)))
	}
	if r := c.Page.TransitionRatio; r < 0 || r > 1 {
		errs = append(errs, fmt.Errorf("page.transition_ratio must be in [0, 1], got %g", r))
	}
	for i, h := range c.Page.SectionHeights {
		if h <= 0 {
			errs = append(errs, fmt.Errorf("page.section_heights[%d] must be > 0, got %g", i, h))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// WriteYAML saves the configuration to path.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
