package phase

import (
	"slices"
	"sync"
)

// DefaultThreshold is the visible ratio a section needs to take over.
const DefaultThreshold = 0.55

// Section ties a page section to the phase it activates.
type Section struct {
	Phase     Phase
	Threshold float64
}

// Change is emitted when the dominant section switches phase.
type Change struct {
	From, To Phase
}

// Manager picks the dominant phase from section visibility ratios.
type Manager struct {
	mu        sync.Mutex
	sections  []Section
	current   Phase
	listeners []func(Change)
}

// NewManager returns a manager starting on Designer with one section per
// phase at the given threshold.
func NewManager(threshold float64) *Manager {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	sections := make([]Section, 0, phaseCount)
	for _, p := range All() {
		sections = append(sections, Section{Phase: p, Threshold: threshold})
	}
	return &Manager{sections: sections, current: Designer}
}

// Subscribe registers fn for every future change.
func (m *Manager) Subscribe(fn func(Change)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Current returns the active phase.
func (m *Manager) Current() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Observe takes the visible ratio per phase and activates the most visible
// section when it clears its threshold. Ties go to the earlier section.
func (m *Manager) Observe(ratios map[Phase]float64) (Change, bool) {
	m.mu.Lock()

	var best *Section
	highest := 0.0
	for i := range m.sections {
		s := &m.sections[i]
		if r := ratios[s.Phase]; r > highest {
			highest = r
			best = s
		}
	}

	if best == nil || highest < best.Threshold || best.Phase == m.current {
		m.mu.Unlock()
		return Change{}, false
	}

	change := Change{From: m.current, To: best.Phase}
	m.current = best.Phase
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(change)
	}
	return change, true
}
