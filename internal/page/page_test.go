package page

import (
	"math"
	"testing"

	"github.com/iburimskiy/phase-backdrop/internal/config"
	"github.com/iburimskiy/phase-backdrop/internal/phase"
)

func testConfig() config.PageConfig {
	return config.PageConfig{
		SectionHeights:  []float64{1.25, 1.25, 1.25},
		RevealRatio:     0.2,
		TransitionRatio: 0.3,
		ScrollStep:      60,
		Easing:          0.18,
	}
}

func TestLayout(t *testing.T) {
	p := New(testConfig(), 800)
	if p.TotalHeight() != 3000 {
		t.Errorf("expected total 3000, got %g", p.TotalHeight())
	}
	if p.MaxScroll() != 2200 {
		t.Errorf("expected max scroll 2200, got %g", p.MaxScroll())
	}
	if s := p.Sections()[2]; s.Phase != phase.Gamer || s.Top != 2000 {
		t.Errorf("expected gamer at 2000, got %s at %g", s.Phase, s.Top)
	}
}

func TestRatios(t *testing.T) {
	p := New(testConfig(), 800)

	r := p.Ratios()
	if r[phase.Designer] != 0.8 || r[phase.Developer] != 0 {
		t.Errorf("expected designer 0.8 developer 0, got %v", r)
	}

	p.ScrollTo(700)
	r = p.Ratios()
	if math.Abs(r[phase.Designer]-0.3) > 1e-9 || math.Abs(r[phase.Developer]-0.5) > 1e-9 {
		t.Errorf("expected 0.3 / 0.5 split, got %v", r)
	}
}

func TestScrollClamps(t *testing.T) {
	p := New(testConfig(), 800)
	p.ScrollBy(-100)
	if p.Scroll().Y != 0 {
		t.Errorf("expected clamp to 0, got %g", p.Scroll().Y)
	}
	p.ScrollBy(1e6)
	if p.Scroll().Y != 2200 {
		t.Errorf("expected clamp to 2200, got %g", p.Scroll().Y)
	}

	// Sections follow the viewport: 3 x 500 with a 400 viewport.
	p.SetViewport(400)
	if p.TotalHeight() != 1500 {
		t.Errorf("expected relayout to 1500, got %g", p.TotalHeight())
	}
	if p.Scroll().Y != 1100 {
		t.Errorf("expected re-clamp to 1100, got %g", p.Scroll().Y)
	}
}

func TestChromeFlags(t *testing.T) {
	p := New(testConfig(), 800)
	if p.Scrolled() || !p.NavVisible() || p.ResumeVisible() {
		t.Error("expected pristine chrome at the top")
	}

	p.ScrollBy(100)
	if !p.Scrolled() {
		t.Error("expected scrolled past 40")
	}
	if !p.NavVisible() {
		t.Error("expected navbar pinned above 120")
	}

	p.ScrollBy(200)
	if p.NavVisible() {
		t.Error("expected navbar hidden while scrolling down")
	}
	if !p.ResumeVisible() {
		t.Error("expected resume visible past 200")
	}

	p.ScrollBy(-10)
	if !p.NavVisible() {
		t.Error("expected navbar back when scrolling up")
	}
}

func TestSmoothScrollConverges(t *testing.T) {
	p := New(testConfig(), 800)
	p.ScrollToSection(phase.Gamer)

	steps := 0
	for p.Step() {
		steps++
		if steps > 1000 {
			t.Fatal("smooth scroll did not converge")
		}
	}
	if p.Scroll().Y != 2000 {
		t.Errorf("expected to land on 2000, got %g", p.Scroll().Y)
	}
	if steps < 2 {
		t.Errorf("expected an eased approach, got %d steps", steps)
	}
}

func TestUserScrollCancelsSmoothScroll(t *testing.T) {
	p := New(testConfig(), 800)
	p.ScrollToSection(phase.Gamer)
	p.Step()
	p.ScrollBy(-10)
	if p.Step() {
		t.Error("expected smooth scroll canceled by user scroll")
	}
}

func TestRevealIsSticky(t *testing.T) {
	p := New(testConfig(), 800)
	if p.Revealed(phase.Developer) {
		t.Fatal("developer should not be revealed at the top")
	}
	p.ScrollTo(700)
	if !p.Revealed(phase.Developer) {
		t.Fatal("expected developer revealed at 0.5 visibility")
	}
	p.ScrollTo(0)
	if !p.Revealed(phase.Developer) {
		t.Error("expected reveal to persist")
	}
}

func TestTransitionFadesInAndStays(t *testing.T) {
	p := New(testConfig(), 800)

	// 0.2 visible: revealed but still short of the transition ratio
	p.ScrollTo(400)
	p.Step()
	if !p.Revealed(phase.Developer) {
		t.Fatal("expected developer revealed at 0.2 visibility")
	}
	if got := p.Transition(phase.Developer); got != 0 {
		t.Fatalf("expected no fade below 0.3 visibility, got %g", got)
	}

	p.ScrollTo(500)
	p.Step()
	if got := p.Transition(phase.Developer); math.Abs(got-0.18) > 1e-9 {
		t.Errorf("expected first fade step 0.18, got %g", got)
	}

	p.ScrollTo(0)
	for i := 0; i < 100; i++ {
		p.Step()
	}
	if got := p.Transition(phase.Developer); got != 1 {
		t.Errorf("expected fade to finish after scrolling away, got %g", got)
	}
	if got := p.Transition(phase.Gamer); got != 0 {
		t.Errorf("expected gamer untouched, got %g", got)
	}
}

func TestPageDrivesPhaseManager(t *testing.T) {
	p := New(testConfig(), 800)
	m := phase.NewManager(phase.DefaultThreshold)

	var changes []phase.Change
	m.Subscribe(func(c phase.Change) { changes = append(changes, c) })

	for _, y := range []float64{0, 400, 900, 1500, 1700, 2200} {
		p.ScrollTo(y)
		m.Observe(p.Ratios())
	}

	want := []phase.Change{
		{From: phase.Designer, To: phase.Developer},
		{From: phase.Developer, To: phase.Gamer},
	}
	if len(changes) != len(want) {
		t.Fatalf("expected %d changes, got %+v", len(want), changes)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("change %d: expected %+v, got %+v", i, want[i], changes[i])
		}
	}
}

func TestCursorEases(t *testing.T) {
	c := Cursor{}
	c.MoveTo(100, 50)
	c.Step()
	if math.Abs(c.X-18) > 1e-9 || math.Abs(c.Y-9) > 1e-9 {
		t.Errorf("expected (18, 9), got (%g, %g)", c.X, c.Y)
	}
}

func TestCursorScale(t *testing.T) {
	tests := []struct {
		hover, pressed bool
		want           float64
	}{
		{false, false, 1},
		{true, false, 1.5},
		{false, true, 0.75},
		{true, true, 0.75},
	}
	for _, tt := range tests {
		c := Cursor{Hover: tt.hover, Pressed: tt.pressed}
		if got := c.Scale(); got != tt.want {
			t.Errorf("hover=%v pressed=%v: expected %g, got %g", tt.hover, tt.pressed, tt.want, got)
		}
	}
}
