// Package game drives the particle backdrop: one tick per display frame,
// with pause/resume, debounced resizes and phase-driven colors.
package game

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/iburimskiy/phase-backdrop/internal/config"
	"github.com/iburimskiy/phase-backdrop/internal/particle"
	"github.com/iburimskiy/phase-backdrop/internal/phase"
	"github.com/iburimskiy/phase-backdrop/internal/surface"
)

// State is the loop's run state.
type State int

const (
	Running State = iota
	Paused
)

func (s State) String() string {
	if s == Paused {
		return "paused"
	}
	return "running"
}

// TickStats describes one tick.
type TickStats struct {
	Tick      uint64
	At        time.Time
	Delta     time.Duration // since the previous tick; informational only
	Cost      time.Duration // time spent inside the tick, on the loop clock
	Particles int
	Links     int
	Phase     phase.Phase
}

// Options configures a Controller.
type Options struct {
	// Initial viewport in logical units and its device pixel ratio.
	Width, Height, Ratio float64

	// Seed for particle randomness; zero picks a time-based seed.
	Seed uint64

	Clock  TimeProvider
	Logger *slog.Logger

	// OnTick, when set, receives the stats of every tick.
	OnTick func(TickStats)
}

// Controller owns the drawing surface, the pool and the active palette.
// Signals may be pushed from any goroutine; every other method must be
// called from the goroutine that calls Pump.
//
// A nil *Controller is a valid, inert subsystem: every method is a no-op.
type Controller struct {
	cfg     *config.Config
	surface surface.Surface
	dims    surface.Dimensions

	pool    *particle.Pool
	linker  *particle.Linker
	palette *phase.Resolver

	sched   *FrameScheduler
	signals *SignalQueue
	resize  *Debouncer[Resize]
	clock   TimeProvider
	log     *slog.Logger
	onTick  func(TickStats)

	state    State
	frame    FrameID
	lastTime time.Time

	ticks    uint64
	rebuilds int
	last     TickStats
	tap      *frameTap
}

// New sizes the surface, fills the pool and schedules the first frame.
// It returns nil when there is no surface to draw on.
func New(s surface.Surface, cfg *config.Config, opts Options) *Controller {
	if s == nil {
		return nil
	}
	if cfg == nil {
		cfg = config.Default()
	}

	clock := opts.Clock
	if clock == nil {
		clock = NewMonotonicTimeProvider()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	c := &Controller{
		cfg:     cfg,
		surface: s,
		pool:    particle.NewPool(cfg.Particles, rng),
		linker:  particle.NewLinker(cfg.Linker),
		palette: phase.NewResolver(),
		sched:   NewFrameScheduler(),
		signals: NewSignalQueue(),
		resize:  NewDebouncer[Resize](cfg.Loop.ResizeDebounce),
		clock:   clock,
		log:     logger.With("component", "backdrop"),
		onTick:  opts.OnTick,
		state:   Running,
		tap:     newFrameTap(config.FrameTapSize),
	}

	c.applyResize(Resize{Width: opts.Width, Height: opts.Height, Ratio: opts.Ratio})
	c.lastTime = clock.Now()
	c.frame = c.sched.Request(c.tick)
	return c
}

// Send queues a signal for the next Pump. Safe from any goroutine.
func (c *Controller) Send(s Signal) {
	if c == nil {
		return
	}
	c.signals.Push(s)
}

// Pump is called by the host once per display refresh. It applies queued
// signals, lands a debounced resize if its quiet period has passed, then
// runs the scheduled tick if there is one.
func (c *Controller) Pump() {
	if c == nil {
		return
	}
	now := c.clock.Now()

	for _, s := range c.signals.Drain() {
		c.apply(now, s)
	}

	if r, ok := c.resize.Poll(now); ok {
		c.applyResize(r)
	}

	c.sched.Fire(now)
}

func (c *Controller) apply(now time.Time, s Signal) {
	switch sig := s.(type) {
	case Resize:
		c.resize.Trigger(now, sig)
	case VisibilityChanged:
		if sig.Visible {
			c.Resume()
		} else {
			c.Pause()
		}
	case PhaseChanged:
		c.setPhase(sig)
	}
}

func (c *Controller) setPhase(sig PhaseChanged) {
	if err := c.palette.SetKey(sig.To); err != nil {
		c.log.Warn("ignoring phase change", "from", sig.From, "to", sig.To, "error", err)
		return
	}
	c.log.Debug("phase changed", "from", sig.From, "to", sig.To)
}

func (c *Controller) applyResize(r Resize) {
	c.dims = surface.NewDimensions(r.Width, r.Height, r.Ratio, c.cfg.Loop.MaxPixelRatio)
	c.surface.Resize(c.dims)
	c.pool.Rebuild(c.dims.Width, c.dims.Height)
	c.rebuilds++

	c.log.Info("pool rebuilt",
		"particles", c.pool.Len(),
		"width", c.dims.Width,
		"height", c.dims.Height,
		"ratio", c.dims.Ratio,
	)
}

func (c *Controller) tick(now time.Time) {
	c.frame = 0
	if c.state != Running {
		return
	}
	start := c.clock.Now()

	delta := now.Sub(c.lastTime)
	c.lastTime = now

	colors := c.palette.Colors()
	c.surface.Clear()
	c.pool.Step(c.surface, colors)
	links := c.linker.Link(c.surface, c.pool.Particles(), colors.Stroke)

	c.ticks++
	c.last = TickStats{
		Tick:      c.ticks,
		At:        now,
		Delta:     delta,
		Cost:      c.clock.Now().Sub(start),
		Particles: c.pool.Len(),
		Links:     links,
		Phase:     c.palette.Current(),
	}
	c.tap.record(c.last)
	if c.onTick != nil {
		c.onTick(c.last)
	}

	c.frame = c.sched.Request(c.tick)
}

// Pause stops drawing and cancels the pending frame. No-op when paused.
func (c *Controller) Pause() {
	if c == nil || c.state == Paused {
		return
	}
	c.state = Paused
	c.sched.Cancel(c.frame)
	c.frame = 0
	c.log.Debug("loop paused", "ticks", c.ticks)
}

// Resume restarts the schedule with the timing reference reset to now so the
// first resumed tick does not see the paused span. No-op when running.
func (c *Controller) Resume() {
	if c == nil || c.state == Running {
		return
	}
	c.state = Running
	c.lastTime = c.clock.Now()
	c.frame = c.sched.Request(c.tick)
	c.log.Debug("loop resumed", "ticks", c.ticks)
}

// Toggle flips between running and paused.
func (c *Controller) Toggle() {
	if c == nil {
		return
	}
	if c.state == Paused {
		c.Resume()
	} else {
		c.Pause()
	}
}

// Count returns the current particle population.
func (c *Controller) Count() int {
	if c == nil {
		return 0
	}
	return c.pool.Len()
}

// State returns the run state.
func (c *Controller) State() State {
	if c == nil {
		return Paused
	}
	return c.state
}

// Phase returns the phase used for the next tick.
func (c *Controller) Phase() phase.Phase {
	if c == nil {
		return phase.Designer
	}
	return c.palette.Current()
}

// Dimensions returns the current surface dimensions.
func (c *Controller) Dimensions() surface.Dimensions {
	if c == nil {
		return surface.Dimensions{}
	}
	return c.dims
}

// Stats returns the most recent tick.
func (c *Controller) Stats() TickStats {
	if c == nil {
		return TickStats{}
	}
	return c.last
}

// Recent returns up to n of the latest ticks, oldest first.
func (c *Controller) Recent(n int) []TickStats {
	if c == nil {
		return nil
	}
	return c.tap.snapshot(n)
}

// Rebuilds returns how many times the pool has been rebuilt, startup included.
func (c *Controller) Rebuilds() int {
	if c == nil {
		return 0
	}
	return c.rebuilds
}
