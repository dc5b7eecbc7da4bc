package game

import (
	"sync"
	"time"
)

// TimeProvider supplies the loop's notion of now.
type TimeProvider interface {
	Now() time.Time
}

// monotonicTimeProvider reads the wall clock; time.Now carries a monotonic
// reading so deltas survive wall clock jumps.
type monotonicTimeProvider struct{}

// NewMonotonicTimeProvider returns the real clock.
func NewMonotonicTimeProvider() TimeProvider {
	return monotonicTimeProvider{}
}

func (monotonicTimeProvider) Now() time.Time {
	return time.Now()
}

// MockTimeProvider is a clock that only moves when told to. Tests and the
// headless run use it to make ticks reproducible.
type MockTimeProvider struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockTimeProvider returns a clock stopped at start.
func NewMockTimeProvider(start time.Time) *MockTimeProvider {
	return &MockTimeProvider{now: start}
}

func (m *MockTimeProvider) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d.
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}
