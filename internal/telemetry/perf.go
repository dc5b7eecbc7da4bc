// Package telemetry summarises tick statistics over fixed windows and writes
// them out as CSV.
package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/iburimskiy/phase-backdrop/internal/game"
)

// WindowStats summarises one window of ticks.
type WindowStats struct {
	WindowEnd     uint64  `csv:"window_end"`
	Ticks         int     `csv:"ticks"`
	Phase         string  `csv:"phase"`
	MeanCostUS    float64 `csv:"mean_cost_us"`
	StdCostUS     float64 `csv:"std_cost_us"`
	P95CostUS     float64 `csv:"p95_cost_us"`
	MeanDeltaMS   float64 `csv:"mean_delta_ms"`
	FPS           float64 `csv:"fps"`
	MeanParticles float64 `csv:"mean_particles"`
	MeanLinks     float64 `csv:"mean_links"`
}

// PerfCollector accumulates tick stats until a window is full.
type PerfCollector struct {
	windowSize int

	costs     []float64
	deltas    []float64
	particles []float64
	links     []float64
	sorted    []float64

	last game.TickStats
}

// NewPerfCollector creates a collector. windowSize below 1 falls back to 120.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 120
	}
	return &PerfCollector{
		windowSize: windowSize,
		costs:      make([]float64, 0, windowSize),
		deltas:     make([]float64, 0, windowSize),
		particles:  make([]float64, 0, windowSize),
		links:      make([]float64, 0, windowSize),
		sorted:     make([]float64, 0, windowSize),
	}
}

// Record adds one tick. When the window fills it returns the summary and
// starts a new window.
func (p *PerfCollector) Record(s game.TickStats) (WindowStats, bool) {
	p.costs = append(p.costs, float64(s.Cost)/float64(time.Microsecond))
	p.particles = append(p.particles, float64(s.Particles))
	p.links = append(p.links, float64(s.Links))
	// The first tick after startup or resume has no meaningful delta.
	if s.Delta > 0 {
		p.deltas = append(p.deltas, float64(s.Delta)/float64(time.Millisecond))
	}
	p.last = s

	if len(p.costs) < p.windowSize {
		return WindowStats{}, false
	}
	return p.Flush(), true
}

// Len returns the number of ticks in the open window.
func (p *PerfCollector) Len() int {
	return len(p.costs)
}

// Flush summarises the open window, possibly partial, and resets it.
// An empty window yields a zero WindowStats.
func (p *PerfCollector) Flush() WindowStats {
	if len(p.costs) == 0 {
		return WindowStats{}
	}

	p.sorted = append(p.sorted[:0], p.costs...)
	sort.Float64s(p.sorted)

	ws := WindowStats{
		WindowEnd:     p.last.Tick,
		Ticks:         len(p.costs),
		Phase:         p.last.Phase.String(),
		MeanCostUS:    stat.Mean(p.costs, nil),
		P95CostUS:     stat.Quantile(0.95, stat.Empirical, p.sorted, nil),
		MeanParticles: stat.Mean(p.particles, nil),
		MeanLinks:     stat.Mean(p.links, nil),
	}
	if len(p.costs) > 1 {
		ws.StdCostUS = stat.StdDev(p.costs, nil)
	}
	if len(p.deltas) > 0 {
		ws.MeanDeltaMS = stat.Mean(p.deltas, nil)
		if ws.MeanDeltaMS > 0 {
			ws.FPS = 1000 / ws.MeanDeltaMS
		}
	}

	p.costs = p.costs[:0]
	p.deltas = p.deltas[:0]
	p.particles = p.particles[:0]
	p.links = p.links[:0]
	return ws
}

// LogStats logs the summary at debug level.
func (s WindowStats) LogStats(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("frame window",
		"window_end", s.WindowEnd,
		"ticks", s.Ticks,
		"phase", s.Phase,
		"mean_cost_us", int(s.MeanCostUS),
		"p95_cost_us", int(s.P95CostUS),
		"fps", int(s.FPS),
		"particles", int(s.MeanParticles),
		"links", int(s.MeanLinks),
	)
}
