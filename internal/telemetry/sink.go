package telemetry

import (
	"errors"
	"log/slog"

	"github.com/iburimskiy/phase-backdrop/internal/game"
)

// Sink feeds ticks to a PerfCollector and ships every closed window to the
// log and, when set, the OutputManager. A nil *Sink discards everything.
type Sink struct {
	perf   *PerfCollector
	out    *OutputManager
	logger *slog.Logger

	windows int
}

// NewSink creates a sink. out may be nil.
func NewSink(window int, out *OutputManager, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{
		perf:   NewPerfCollector(window),
		out:    out,
		logger: logger.With("component", "telemetry"),
	}
}

// Observe records one tick. It only fails when a closed window cannot be
// written.
func (s *Sink) Observe(ts game.TickStats) error {
	if s == nil {
		return nil
	}
	ws, ok := s.perf.Record(ts)
	if !ok {
		return nil
	}
	return s.emit(ws)
}

// Windows returns how many windows have been emitted.
func (s *Sink) Windows() int {
	if s == nil {
		return 0
	}
	return s.windows
}

// Close emits the partial window, if any, and closes the output.
func (s *Sink) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.perf.Len() > 0 {
		errs = append(errs, s.emit(s.perf.Flush()))
	}
	errs = append(errs, s.out.Close())
	return errors.Join(errs...)
}

func (s *Sink) emit(ws WindowStats) error {
	s.windows++
	ws.LogStats(s.logger)
	return s.out.WriteWindow(ws)
}
