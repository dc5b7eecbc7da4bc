// Package page models the scrolling portfolio page the backdrop sits behind:
// stacked phase sections, scroll bookkeeping, navbar chrome flags, smooth
// anchor scrolling and the cursor follower.
package page

import (
	"math"

	"github.com/iburimskiy/phase-backdrop/internal/config"
	"github.com/iburimskiy/phase-backdrop/internal/phase"
)

// Chrome thresholds in surface units.
const (
	scrolledOffset = 40
	navPinnedAbove = 120
	resumeOffset   = 200

	// snapDistance ends a smooth scroll once it is this close to its target.
	snapDistance = 0.5

	// fadeDone snaps a section fade-in to fully shown.
	fadeDone = 0.99
)

// Section is one phase block of the page.
type Section struct {
	Phase  phase.Phase
	Top    float64
	Height float64
}

// ScrollState tracks the scroll position and its direction.
type ScrollState struct {
	Y     float64
	LastY float64
	Down  bool
}

// Page is the page layout plus its scroll position. Section heights are
// multiples of the viewport height and follow it on SetViewport.
type Page struct {
	sections    []Section
	heights     []float64
	viewport    float64
	revealRatio float64
	fadeRatio   float64
	easing      float64

	scroll    ScrollState
	target    float64
	smoothing bool
	revealed  map[phase.Phase]bool
	fading    map[phase.Phase]bool
	fade      map[phase.Phase]float64
}

// New lays the sections out top to bottom in phase order.
func New(cfg config.PageConfig, viewportHeight float64) *Page {
	p := &Page{
		viewport:    viewportHeight,
		revealRatio: cfg.RevealRatio,
		fadeRatio:   cfg.TransitionRatio,
		easing:      cfg.Easing,
		revealed:    make(map[phase.Phase]bool),
		fading:      make(map[phase.Phase]bool),
		fade:        make(map[phase.Phase]float64),
	}
	if p.easing <= 0 || p.easing > 1 {
		p.easing = 0.18
	}

	for i, ph := range phase.All() {
		h := 0.0
		if i < len(cfg.SectionHeights) {
			h = cfg.SectionHeights[i]
		}
		p.heights = append(p.heights, h)
		p.sections = append(p.sections, Section{Phase: ph})
	}
	p.layout()
	p.updateReveal()
	return p
}

func (p *Page) layout() {
	top := 0.0
	for i := range p.sections {
		h := p.heights[i] * p.viewport
		p.sections[i].Top = top
		p.sections[i].Height = h
		top += h
	}
}

// Sections returns the layout.
func (p *Page) Sections() []Section {
	return p.sections
}

// TotalHeight is the page length.
func (p *Page) TotalHeight() float64 {
	if len(p.sections) == 0 {
		return 0
	}
	last := p.sections[len(p.sections)-1]
	return last.Top + last.Height
}

// MaxScroll is the largest scroll offset that keeps the viewport on the page.
func (p *Page) MaxScroll() float64 {
	return math.Max(0, p.TotalHeight()-p.viewport)
}

// SetViewport changes the viewport height, lays the sections out again and
// re-clamps the scroll position.
func (p *Page) SetViewport(h float64) {
	p.viewport = math.Max(0, h)
	p.layout()
	p.setY(p.scroll.Y)
	p.target = p.clamp(p.target)
}

// Viewport returns the viewport height.
func (p *Page) Viewport() float64 {
	return p.viewport
}

// Scroll returns the scroll state.
func (p *Page) Scroll() ScrollState {
	return p.scroll
}

// ScrollBy scrolls by dy. A user scroll cancels any smooth scroll.
func (p *Page) ScrollBy(dy float64) {
	p.smoothing = false
	p.setY(p.scroll.Y + dy)
}

// ScrollTo jumps to y.
func (p *Page) ScrollTo(y float64) {
	p.smoothing = false
	p.setY(y)
}

// ScrollToSection starts a smooth scroll that lands the section's top at the
// top of the viewport.
func (p *Page) ScrollToSection(ph phase.Phase) {
	for _, s := range p.sections {
		if s.Phase == ph {
			p.target = p.clamp(s.Top)
			p.smoothing = true
			return
		}
	}
}

// Step advances section fade-ins and a smooth scroll by one frame. It reports
// whether a smooth scroll is in progress.
func (p *Page) Step() bool {
	for ph := range p.fading {
		f := p.fade[ph] + (1-p.fade[ph])*p.easing
		if f >= fadeDone {
			f = 1
		}
		p.fade[ph] = f
	}
	if !p.smoothing {
		return false
	}
	dist := p.target - p.scroll.Y
	if math.Abs(dist) <= snapDistance {
		p.setY(p.target)
		p.smoothing = false
		return false
	}
	p.setY(p.scroll.Y + dist*p.easing)
	return true
}

func (p *Page) clamp(y float64) float64 {
	return math.Min(math.Max(y, 0), p.MaxScroll())
}

func (p *Page) setY(y float64) {
	y = p.clamp(y)
	p.scroll.LastY = p.scroll.Y
	p.scroll.Down = y > p.scroll.Y
	p.scroll.Y = y
	p.updateReveal()
}

// Ratios returns the share of each section currently inside the viewport.
func (p *Page) Ratios() map[phase.Phase]float64 {
	out := make(map[phase.Phase]float64, len(p.sections))
	for _, s := range p.sections {
		out[s.Phase] = p.ratio(s)
	}
	return out
}

func (p *Page) ratio(s Section) float64 {
	if s.Height <= 0 {
		return 0
	}
	top := math.Max(s.Top, p.scroll.Y)
	bottom := math.Min(s.Top+s.Height, p.scroll.Y+p.viewport)
	if bottom <= top {
		return 0
	}
	return (bottom - top) / s.Height
}

func (p *Page) updateReveal() {
	for _, s := range p.sections {
		r := p.ratio(s)
		if r <= 0 {
			continue
		}
		if r >= p.revealRatio {
			p.revealed[s.Phase] = true
		}
		if r >= p.fadeRatio {
			p.fading[s.Phase] = true
		}
	}
}

// Revealed reports whether the section has ever been sufficiently visible.
func (p *Page) Revealed(ph phase.Phase) bool {
	return p.revealed[ph]
}

// Transition returns how far the section has faded in, from 0 to 1. The fade
// starts once the section crosses the transition ratio and never reverses.
func (p *Page) Transition(ph phase.Phase) float64 {
	return p.fade[ph]
}

// Scrolled reports whether the page has left the very top.
func (p *Page) Scrolled() bool {
	return p.scroll.Y > scrolledOffset
}

// NavVisible reports whether the navbar shows: always near the top,
// otherwise hidden while scrolling down.
func (p *Page) NavVisible() bool {
	if p.scroll.Y < navPinnedAbove {
		return true
	}
	return !p.scroll.Down
}

// ResumeVisible reports whether the resume shortcut shows.
func (p *Page) ResumeVisible() bool {
	return p.scroll.Y > resumeOffset
}
