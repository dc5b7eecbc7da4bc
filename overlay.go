package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/phase-backdrop/internal/game"
	"github.com/iburimskiy/phase-backdrop/internal/phase"
)

const (
	navHeight     = 32
	navItemWidth  = 120
	headingOffset = 96
	cursorRadius  = 10
	fpsWindow     = 60
)

var (
	backgroundColor = color.RGBA{R: 10, G: 10, B: 15, A: 255}
	navColor        = color.RGBA{R: 14, G: 14, B: 22, A: 200}
	navSolidColor   = color.RGBA{R: 14, G: 14, B: 22, A: 240}
)

// drawSections fades in each section's top edge once it starts transitioning
// and prints its heading once the section has been revealed.
func (a *app) drawSections(screen *ebiten.Image) {
	r := float32(a.ratio())
	scrollY := a.page.Scroll().Y
	viewport := a.page.Viewport()

	for _, s := range a.page.Sections() {
		top := s.Top - scrollY
		if top+s.Height < 0 || top > viewport {
			continue
		}
		fade := a.page.Transition(s.Phase)
		if fade <= 0 {
			continue
		}
		stroke := phase.Palette[s.Phase].Stroke
		stroke.A = uint8(float64(stroke.A) * fade)
		vector.StrokeLine(screen, 0, float32(top)*r, float32(a.dims.Width)*r, float32(top)*r, r, stroke, false)

		if !a.page.Revealed(s.Phase) {
			continue
		}
		heading := fmt.Sprintf("%s  //  section %d", s.Phase.Label(), int(s.Phase)+1)
		ebitenutil.DebugPrintAt(screen, heading, int(40*r), int(float32(top+headingOffset)*r))
	}
}

// drawNav draws the top bar while it is visible. It turns solid once the page
// has scrolled and underlines the active phase.
func (a *app) drawNav(screen *ebiten.Image) {
	if !a.page.NavVisible() {
		return
	}
	r := float32(a.ratio())
	bg := navColor
	if a.page.Scrolled() {
		bg = navSolidColor
	}
	vector.DrawFilledRect(screen, 0, 0, float32(a.dims.Width)*r, navHeight*r, bg, false)

	active := a.phases.Current()
	for i, p := range phase.All() {
		x := float32(20+i*navItemWidth) * r
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d %s", i+1, p.Label()), int(x), int(8*r))
		if p == active {
			vector.StrokeLine(screen, x, (navHeight-4)*r, x+float32(navItemWidth-30)*r, (navHeight-4)*r, 2*r, phase.Palette[p].Stroke, false)
		}
	}
	if a.page.ResumeVisible() {
		ebitenutil.DebugPrintAt(screen, "Home: back to top", int((float32(a.dims.Width)-140)*r), int(8*r))
	}
}

func (a *app) drawCursor(screen *ebiten.Image) {
	r := float32(a.ratio())
	stroke := phase.Palette[a.phases.Current()].Stroke
	radius := float32(cursorRadius*a.cursor.Scale()) * r
	vector.StrokeCircle(screen, float32(a.cursor.X)*r, float32(a.cursor.Y)*r, radius, r, stroke, true)
}

func (a *app) drawButton(screen *ebiten.Image) {
	r := float32(a.ratio())
	x, y, w, h := a.buttonRect()

	var bgColor color.Color
	if a.buttonPressed {
		bgColor = color.RGBA{R: 40, G: 40, B: 60, A: 255}
	} else if a.buttonHovered {
		bgColor = color.RGBA{R: 55, G: 55, B: 80, A: 255}
	} else {
		bgColor = color.RGBA{R: 30, G: 30, B: 45, A: 230}
	}
	vector.DrawFilledRect(screen, float32(x)*r, float32(y)*r, float32(w)*r, float32(h)*r, bgColor, false)
	vector.StrokeRect(screen, float32(x)*r, float32(y)*r, float32(w)*r, float32(h)*r, r, phase.Palette[a.phases.Current()].Stroke, false)

	text := "Pause"
	if a.ctrl.State() == game.Paused {
		text = "Resume"
	}
	textWidth := float32(len(text) * 6) // debug font glyph width
	ebitenutil.DebugPrintAt(screen, text, int(float32(x)*r+(float32(w)*r-textWidth)/2), int(float32(y)*r+(float32(h)*r-16)/2))
}

func (a *app) drawStatus(screen *ebiten.Image) {
	r := a.ratio()
	stats := a.ctrl.Stats()
	status := fmt.Sprintf("%s particles | %s links | %.0f fps | load %.0f%% | %s | %s | up %s",
		humanize.Comma(int64(a.ctrl.Count())),
		humanize.Comma(int64(stats.Links)),
		game.AverageFPS(a.ctrl.Recent(fpsWindow)),
		game.LoadFactor(stats)*100,
		a.ctrl.Phase(),
		a.ctrl.State(),
		game.FormatDuration(time.Since(a.started)),
	)
	if a.lastErr != nil {
		status += " | Error: " + a.lastErr.Error()
	}
	x := int((buttonX + buttonWidth + 16) * r)
	y := int((a.dims.Height-buttonMargin-buttonHeight/2)*r) - 8
	ebitenutil.DebugPrintAt(screen, status, x, y)

	help := "wheel/arrows scroll  1-3 jump  P pause  Q quit"
	ebitenutil.DebugPrintAt(screen, help, x, y-16)
}
