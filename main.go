package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/phase-backdrop/internal/audio"
	"github.com/iburimskiy/phase-backdrop/internal/config"
	"github.com/iburimskiy/phase-backdrop/internal/game"
	"github.com/iburimskiy/phase-backdrop/internal/page"
	"github.com/iburimskiy/phase-backdrop/internal/phase"
	"github.com/iburimskiy/phase-backdrop/internal/render/screen"
	"github.com/iburimskiy/phase-backdrop/internal/surface"
	"github.com/iburimskiy/phase-backdrop/internal/telemetry"
)

const (
	// Pause button, in logical units.
	buttonWidth  = 96
	buttonHeight = 28
	buttonX      = 20
	buttonMargin = 20

	// Arrow keys scroll this fraction of the configured step per tick.
	arrowScrollFraction = 0.25
	// Page keys scroll this fraction of the viewport.
	pageScrollFraction = 0.9
)

type app struct {
	cfg    *config.Config
	seed   uint64
	logger *slog.Logger

	surface *screen.Surface
	ctrl    *game.Controller
	page    *page.Page
	phases  *phase.Manager
	cursor  page.Cursor
	chime   *audio.Chime
	sink    *telemetry.Sink

	// viewport
	outsideW, outsideH int
	dims               surface.Dimensions

	// input edge detection
	prevKey map[ebiten.Key]bool

	// button state
	buttonHovered bool
	buttonPressed bool

	// state
	started time.Time
	focused bool
	lastErr error
}

func newApp(cfg *config.Config, seed uint64, chime *audio.Chime, sink *telemetry.Sink, logger *slog.Logger) *app {
	a := &app{
		cfg:     cfg,
		seed:    seed,
		logger:  logger,
		surface: screen.New(),
		page:    page.New(cfg.Page, float64(cfg.Window.Height)),
		phases:  phase.NewManager(cfg.Phase.Threshold),
		cursor:  page.Cursor{Easing: cfg.Page.Easing},
		chime:   chime,
		sink:    sink,
		prevKey: map[ebiten.Key]bool{},
		started: time.Now(),
		focused: true,
	}
	a.phases.Subscribe(a.onPhaseChange)
	return a
}

func (a *app) onPhaseChange(ch phase.Change) {
	a.ctrl.Send(game.PhaseChanged{From: ch.From.String(), To: ch.To.String()})
	a.chime.Play(ch.To)
	a.logger.Info("section entered", "from", ch.From, "to", ch.To)
}

func (a *app) onTick(s game.TickStats) {
	if err := a.sink.Observe(s); err != nil {
		a.lastErr = err
	}
}

// start builds the controller on the first layout, once the real window size
// and pixel ratio are known.
func (a *app) start(d surface.Dimensions) {
	a.ctrl = game.New(a.surface, a.cfg, game.Options{
		Width:  d.Width,
		Height: d.Height,
		Ratio:  d.Ratio,
		Seed:   a.seed,
		Logger: a.logger,
		OnTick: a.onTick,
	})
}

func (a *app) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !a.prevKey[k]
		a.prevKey[k] = pressed
		return jp
	}

	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	a.updateFocus()
	a.updateButton()
	if justPressed(ebiten.KeyP) || justPressed(ebiten.KeySpace) {
		a.ctrl.Toggle()
	}

	// Scrolling
	step := a.cfg.Page.ScrollStep
	if _, dy := ebiten.Wheel(); dy != 0 {
		a.page.ScrollBy(-dy * step)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		a.page.ScrollBy(step * arrowScrollFraction)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		a.page.ScrollBy(-step * arrowScrollFraction)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) {
		a.page.ScrollBy(a.page.Viewport() * pageScrollFraction)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		a.page.ScrollBy(-a.page.Viewport() * pageScrollFraction)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		a.page.ScrollTo(0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnd) {
		a.page.ScrollTo(a.page.MaxScroll())
	}
	for i, k := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3} {
		if inpututil.IsKeyJustPressed(k) {
			a.page.ScrollToSection(phase.All()[i])
		}
	}
	a.page.Step()
	a.phases.Observe(a.page.Ratios())

	mx, my := ebiten.CursorPosition()
	a.cursor.MoveTo(float64(mx)/a.ratio(), float64(my)/a.ratio())
	a.cursor.Hover = a.buttonHovered
	a.cursor.Pressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	a.cursor.Step()

	a.ctrl.Pump()
	return nil
}

// updateFocus reports window focus changes as page visibility.
func (a *app) updateFocus() {
	focused := ebiten.IsFocused()
	if focused == a.focused {
		return
	}
	a.focused = focused
	a.ctrl.Send(game.VisibilityChanged{Visible: focused})
	a.chime.SetMuted(!focused)
}

func (a *app) updateButton() {
	x, y, w, h := a.buttonRect()
	mx, my := ebiten.CursorPosition()
	lx, ly := float64(mx)/a.ratio(), float64(my)/a.ratio()
	a.buttonHovered = lx >= x && lx <= x+w && ly >= y && ly <= y+h

	if a.buttonHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		a.buttonPressed = true
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if a.buttonPressed && a.buttonHovered {
			a.ctrl.Toggle()
		}
		a.buttonPressed = false
	}
}

func (a *app) buttonRect() (x, y, w, h float64) {
	return buttonX, a.dims.Height - buttonHeight - buttonMargin, buttonWidth, buttonHeight
}

func (a *app) ratio() float64 {
	if a.dims.Ratio <= 0 {
		return 1
	}
	return a.dims.Ratio
}

func (a *app) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	a.surface.DrawTo(screen)

	a.drawSections(screen)
	a.drawNav(screen)
	a.drawCursor(screen)
	a.drawButton(screen)
	a.drawStatus(screen)
}

// Layout reports the backing buffer size so the offscreen surface blits 1:1.
// A change in window size or pixel ratio becomes a resize signal.
func (a *app) Layout(outsideWidth, outsideHeight int) (int, int) {
	d := surface.NewDimensions(float64(outsideWidth), float64(outsideHeight),
		deviceScale(), a.cfg.Loop.MaxPixelRatio)

	if a.ctrl == nil {
		a.start(d)
	} else if outsideWidth != a.outsideW || outsideHeight != a.outsideH || d.Ratio != a.dims.Ratio {
		a.ctrl.Send(game.Resize{Width: d.Width, Height: d.Height, Ratio: d.Ratio})
	}
	if outsideHeight != a.outsideH {
		a.page.SetViewport(d.Height)
	}
	a.outsideW, a.outsideH = outsideWidth, outsideHeight
	a.dims = d

	return max(d.BackingWidth, 1), max(d.BackingHeight, 1)
}

func deviceScale() float64 {
	if m := ebiten.Monitor(); m != nil {
		return m.DeviceScaleFactor()
	}
	return 1
}

func (a *app) close() {
	if err := a.sink.Close(); err != nil {
		a.logger.Error("closing telemetry", "error", err)
	}
	a.chime.Close()
}

func pickConfig() (string, error) {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Backdrop Config"),
		zenity.FileFilters{{
			Name:     "YAML",
			Patterns: []string{"*.yaml", "*.yml"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil
		}
		return "", err
	}
	return filename, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	pick := flag.Bool("pick-config", false, "Choose the config file with a file dialog")
	chimeOn := flag.Bool("chime", false, "Play a chime when the active section changes")
	perfOut := flag.String("perf-out", "", "Output directory for frames.csv and a config snapshot")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = time-based)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	level, err := parseLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	path := *configPath
	if *pick {
		picked, err := pickConfig()
		if err != nil {
			slog.Error("config dialog failed", "error", err)
			os.Exit(1)
		}
		if picked != "" {
			path = picked
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	out, err := telemetry.NewOutputManager(*perfOut)
	if err != nil {
		slog.Error("failed to open telemetry output", "error", err)
		os.Exit(1)
	}
	if err := out.WriteConfig(cfg); err != nil {
		slog.Warn("config snapshot not written", "error", err)
	}
	sink := telemetry.NewSink(cfg.Telemetry.Window, out, logger)

	var chime *audio.Chime
	if *chimeOn {
		chime = audio.New(-1)
		if err := chime.Init(); err != nil {
			slog.Warn("audio unavailable, chime disabled", "error", err)
			chime = nil
		}
	}

	a := newApp(cfg, *seed, chime, sink, logger)
	defer a.close()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetRunnableOnUnfocused(true)

	slog.Info("starting backdrop",
		"config", path,
		"seed", *seed,
		"chime", chime != nil,
		"perf_out", out.Dir(),
	)
	if err := ebiten.RunGame(a); err != nil && !errors.Is(err, ebiten.Termination) {
		slog.Error("backdrop exited", "error", err)
		os.Exit(1)
	}
}
