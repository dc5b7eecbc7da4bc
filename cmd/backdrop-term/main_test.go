package main

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/phase-backdrop/internal/config"
	"github.com/iburimskiy/phase-backdrop/internal/game"
	"github.com/iburimskiy/phase-backdrop/internal/phase"
	"github.com/iburimskiy/phase-backdrop/internal/telemetry"
)

func newTestRunner(t *testing.T) (*runner, *game.MockTimeProvider) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(headlessCols, headlessRows)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := game.NewMockTimeProvider(time.Unix(0, 0))
	sink := telemetry.NewSink(60, nil, logger)
	r := newRunner(screen, config.Default(), game.Options{Seed: 7, Clock: clock}, sink, logger)
	return r, clock
}

func TestHeadlessRunVisitsEveryPhase(t *testing.T) {
	r, clock := newTestRunner(t)

	var seen []phase.Phase
	r.phases.Subscribe(func(ch phase.Change) { seen = append(seen, ch.To) })

	r.runHeadless(clock, 300)

	if got := r.ctrl.Stats().Tick; got != 300 {
		t.Errorf("expected 300 ticks, got %d", got)
	}
	if got := r.ctrl.Count(); got != 73 {
		t.Errorf("expected 73 particles for 960x640, got %d", got)
	}
	if r.ctrl.Phase() != phase.Gamer {
		t.Errorf("expected to end on gamer, got %s", r.ctrl.Phase())
	}
	if len(seen) != 2 || seen[0] != phase.Developer || seen[1] != phase.Gamer {
		t.Errorf("expected developer then gamer, got %v", seen)
	}
	if r.sink.Windows() != 5 {
		t.Errorf("expected 5 telemetry windows, got %d", r.sink.Windows())
	}
}

func TestHandleEventKeys(t *testing.T) {
	r, _ := newTestRunner(t)

	if !r.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone)) {
		t.Fatal("expected p to keep running")
	}
	if r.ctrl.State() != game.Paused {
		t.Errorf("expected paused after p, got %s", r.ctrl.State())
	}

	r.handleEvent(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	if got := r.page.Scroll().Y; got != r.cfg.Page.ScrollStep {
		t.Errorf("expected scroll %g, got %g", r.cfg.Page.ScrollStep, got)
	}

	r.handleEvent(tcell.NewEventKey(tcell.KeyRune, '3', tcell.ModNone))
	for r.page.Step() {
	}
	if want, got := r.page.Sections()[2].Top, r.page.Scroll().Y; got != want {
		t.Errorf("expected jump to land at %g, got %g", want, got)
	}

	if r.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("expected q to quit")
	}
	if r.handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("expected Esc to quit")
	}
}

func TestResizeAndFocusBecomeSignals(t *testing.T) {
	r, clock := newTestRunner(t)
	r.frame()

	r.handleEvent(tcell.NewEventResize(80, 20))
	if r.page.Viewport() != 320 {
		t.Errorf("expected viewport 320, got %g", r.page.Viewport())
	}

	r.handleEvent(tcell.NewEventFocus(false))
	r.frame()
	if r.ctrl.State() != game.Paused {
		t.Errorf("expected focus loss to pause, got %s", r.ctrl.State())
	}

	clock.Advance(250 * time.Millisecond)
	r.handleEvent(tcell.NewEventFocus(true))
	r.frame()

	if d := r.ctrl.Dimensions(); d.Width != 640 || d.Height != 320 {
		t.Errorf("expected debounced resize to 640x320, got %gx%g", d.Width, d.Height)
	}
	if r.ctrl.State() != game.Running {
		t.Errorf("expected focus gain to resume, got %s", r.ctrl.State())
	}
	if cols, rows := r.surf.Size(); cols != 80 || rows != 20 {
		t.Errorf("expected 80x20 cells, got %dx%d", cols, rows)
	}
}

func TestPollEventsStopsWhenRunExits(t *testing.T) {
	r, _ := newTestRunner(t)

	done := make(chan struct{})
	out := make(chan tcell.Event) // never read
	exited := make(chan struct{})
	go func() {
		r.pollEvents(done, out)
		close(exited)
	}()

	if err := r.screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone)); err != nil {
		t.Fatalf("post event: %v", err)
	}
	close(done)

	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("expected event pump to exit once done is closed")
	}
}
