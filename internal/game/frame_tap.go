package game

import "sync"

// frameTap records the last N tick stats into a ring buffer so the overlay
// and telemetry can read recent frame timing without touching the loop.
type frameTap struct {
	buffer    []TickStats
	nextIndex int
	filled    int
	mu        sync.RWMutex
}

func newFrameTap(ringSize int) *frameTap {
	if ringSize < 1 {
		ringSize = 1
	}
	return &frameTap{
		buffer: make([]TickStats, ringSize),
	}
}

func (t *frameTap) record(s TickStats) {
	t.mu.Lock()
	t.buffer[t.nextIndex] = s
	t.nextIndex++
	if t.nextIndex >= len(t.buffer) {
		t.nextIndex = 0
	}
	if t.filled < len(t.buffer) {
		t.filled++
	}
	t.mu.Unlock()
}

// snapshot returns up to the last n stats (most recent last).
func (t *frameTap) snapshot(n int) []TickStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > t.filled {
		n = t.filled
	}
	out := make([]TickStats, 0, n)
	// Walk backwards from nextIndex - 1
	idx := t.nextIndex - 1
	if idx < 0 {
		idx = len(t.buffer) - 1
	}
	for i := 0; i < n; i++ {
		out = append(out, t.buffer[idx])
		idx--
		if idx < 0 {
			idx = len(t.buffer) - 1
		}
	}
	// reverse to chronological order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
