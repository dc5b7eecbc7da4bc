// Command backdrop-term renders the particle backdrop in a terminal.
//
// With -headless it drives a simulated screen with a scripted scroll through
// every section, which is useful for benchmarks and CI.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/phase-backdrop/internal/config"
	"github.com/iburimskiy/phase-backdrop/internal/game"
	"github.com/iburimskiy/phase-backdrop/internal/page"
	"github.com/iburimskiy/phase-backdrop/internal/phase"
	"github.com/iburimskiy/phase-backdrop/internal/render/term"
	"github.com/iburimskiy/phase-backdrop/internal/telemetry"
)

const (
	frameInterval = 16 * time.Millisecond

	headlessCols = 120
	headlessRows = 40
)

type runner struct {
	screen tcell.Screen
	surf   *term.Surface
	ctrl   *game.Controller
	page   *page.Page
	phases *phase.Manager
	sink   *telemetry.Sink
	cfg    *config.Config
	logger *slog.Logger

	clock   game.TimeProvider
	started time.Time
}

func newRunner(screen tcell.Screen, cfg *config.Config, opts game.Options, sink *telemetry.Sink, logger *slog.Logger) *runner {
	cols, rows := screen.Size()
	w, h := float64(cols*config.CellWidth), float64(rows*config.CellHeight)

	r := &runner{
		screen: screen,
		surf:   term.New(screen),
		page:   page.New(cfg.Page, h),
		phases: phase.NewManager(cfg.Phase.Threshold),
		sink:   sink,
		cfg:    cfg,
		logger: logger,
	}
	if opts.Clock == nil {
		opts.Clock = game.NewMonotonicTimeProvider()
	}
	r.clock = opts.Clock
	r.started = opts.Clock.Now()
	opts.Width, opts.Height, opts.Ratio = w, h, 1
	opts.Logger = logger
	opts.OnTick = r.onTick
	r.ctrl = game.New(r.surf, cfg, opts)

	r.phases.Subscribe(func(ch phase.Change) {
		r.ctrl.Send(game.PhaseChanged{From: ch.From.String(), To: ch.To.String()})
		r.logger.Info("section entered", "from", ch.From, "to", ch.To)
	})
	return r
}

func (r *runner) onTick(s game.TickStats) {
	if err := r.sink.Observe(s); err != nil {
		r.logger.Error("telemetry write failed", "error", err)
	}
}

// handleEvent applies one terminal event. It returns false on quit.
func (r *runner) handleEvent(ev tcell.Event) bool {
	step := r.cfg.Page.ScrollStep
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyDown:
			r.page.ScrollBy(step)
		case tcell.KeyUp:
			r.page.ScrollBy(-step)
		case tcell.KeyPgDn:
			r.page.ScrollBy(r.page.Viewport() * 0.9)
		case tcell.KeyPgUp:
			r.page.ScrollBy(-r.page.Viewport() * 0.9)
		case tcell.KeyHome:
			r.page.ScrollTo(0)
		case tcell.KeyEnd:
			r.page.ScrollTo(r.page.MaxScroll())
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'p', ' ':
				r.ctrl.Toggle()
			case '1', '2', '3':
				r.page.ScrollToSection(phase.All()[ev.Rune()-'1'])
			}
		}

	case *tcell.EventMouse:
		switch {
		case ev.Buttons()&tcell.WheelDown != 0:
			r.page.ScrollBy(step)
		case ev.Buttons()&tcell.WheelUp != 0:
			r.page.ScrollBy(-step)
		}

	case *tcell.EventResize:
		cols, rows := ev.Size()
		h := float64(rows * config.CellHeight)
		r.ctrl.Send(game.Resize{Width: float64(cols * config.CellWidth), Height: h, Ratio: 1})
		r.page.SetViewport(h)
		r.screen.Sync()

	case *tcell.EventFocus:
		r.ctrl.Send(game.VisibilityChanged{Visible: ev.Focused})
	}
	return true
}

// frame advances the page and the loop by one display refresh.
func (r *runner) frame() {
	r.page.Step()
	r.phases.Observe(r.page.Ratios())
	r.ctrl.Pump()

	stats := r.ctrl.Stats()
	r.surf.SetStatus(fmt.Sprintf(" %s | %s particles | %s links | %.0f fps | load %.0f%% | %s | %s | 1-3 jump  p pause  q quit ",
		strings.ToUpper(r.ctrl.Phase().String()),
		humanize.Comma(int64(r.ctrl.Count())),
		humanize.Comma(int64(stats.Links)),
		game.AverageFPS(r.ctrl.Recent(60)),
		game.LoadFactor(stats)*100,
		r.ctrl.State(),
		game.FormatDuration(r.clock.Now().Sub(r.started)),
	))
	r.surf.Present()
}

// run drives frames off a wall-clock ticker until quit or, when maxTicks is
// set, until that many ticks have run.
func (r *runner) run(maxTicks uint64) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	eventChan := make(chan tcell.Event, 100)
	go r.pollEvents(done, eventChan)

	for {
		select {
		case ev := <-eventChan:
			if !r.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			r.frame()
			if maxTicks > 0 && r.ctrl.Stats().Tick >= maxTicks {
				return
			}
		}
	}
}

// pollEvents forwards screen events to out until the screen is finalized or
// done is closed.
func (r *runner) pollEvents(done <-chan struct{}, out chan<- tcell.Event) {
	for {
		ev := r.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-done:
			return
		}
	}
}

// runHeadless scrolls through the whole page on a mock clock until maxTicks
// ticks have run.
func (r *runner) runHeadless(clock *game.MockTimeProvider, maxTicks uint64) {
	perTick := r.page.MaxScroll() / float64(maxTicks) * 1.25
	for r.ctrl.Stats().Tick < maxTicks {
		r.page.ScrollBy(perTick)
		r.frame()
		clock.Advance(frameInterval)
	}
	r.logger.Info("max ticks reached",
		"tick", r.ctrl.Stats().Tick,
		"phase", r.ctrl.Phase(),
		"rebuilds", r.ctrl.Rebuilds(),
	)
}

func openLog(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{io.Discard}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Render into a simulated screen without a TTY")
	maxTicks := flag.Uint64("max-ticks", 0, "Stop after N ticks (headless defaults to 600)")
	perfOut := flag.String("perf-out", "", "Output directory for frames.csv and a config snapshot")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = time-based)")
	logFile := flag.String("log-file", "", "Write logs to this file (the terminal is the screen)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(*logLevel))); err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %q: %v\n", *logLevel, err)
		os.Exit(2)
	}
	logOut := io.WriteCloser(nopCloser{os.Stderr})
	if !*headless || *logFile != "" {
		w, err := openLog(*logFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		logOut = w
	}
	defer logOut.Close()
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	out, err := telemetry.NewOutputManager(*perfOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open telemetry output: %v\n", err)
		os.Exit(1)
	}
	if err := out.WriteConfig(cfg); err != nil {
		slog.Warn("config snapshot not written", "error", err)
	}
	sink := telemetry.NewSink(cfg.Telemetry.Window, out, logger)
	defer func() {
		if err := sink.Close(); err != nil {
			slog.Error("closing telemetry", "error", err)
		}
	}()

	opts := game.Options{Seed: *seed}

	if *headless {
		screen := tcell.NewSimulationScreen("UTF-8")
		if err := screen.Init(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to init screen: %v\n", err)
			os.Exit(1)
		}
		defer screen.Fini()
		screen.SetSize(headlessCols, headlessRows)

		clock := game.NewMockTimeProvider(time.Unix(0, 0))
		opts.Clock = clock
		ticks := *maxTicks
		if ticks == 0 {
			ticks = 600
		}
		slog.Info("starting headless run", "seed", *seed, "max_ticks", ticks)
		newRunner(screen, cfg, opts, sink, logger).runHeadless(clock, ticks)
		return
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open terminal: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init terminal: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.EnableFocus()
	screen.HideCursor()

	newRunner(screen, cfg, opts, sink, logger).run(*maxTicks)
}
