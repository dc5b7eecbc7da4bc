package game

import "sync"

// Signal is an out-of-band input to the render loop. Signals are queued by
// any goroutine and applied by the loop between ticks, never during one.
type Signal interface {
	signal()
}

// Resize reports a new viewport size in logical units and the device pixel
// ratio. Trigger: host window/terminal resize. Debounced before it applies.
type Resize struct {
	Width, Height float64
	Ratio         float64
}

// VisibilityChanged reports whether the page is shown.
// Trigger: window focus, terminal focus. Pauses or resumes the loop.
type VisibilityChanged struct {
	Visible bool
}

// PhaseChanged carries a phase transition from the phase manager. Keys are
// validated when applied; unknown keys are dropped.
type PhaseChanged struct {
	From, To string
}

func (Resize) signal()            {}
func (VisibilityChanged) signal() {}
func (PhaseChanged) signal()      {}

// SignalQueue is a FIFO of pending signals.
// Thread-Safety:
//   - Push: any goroutine
//   - Drain: single consumer (the loop)
type SignalQueue struct {
	mu      sync.Mutex
	pending []Signal
	spare   []Signal
}

// NewSignalQueue returns an empty queue.
func NewSignalQueue() *SignalQueue {
	return &SignalQueue{}
}

// Push appends a signal.
func (q *SignalQueue) Push(s Signal) {
	q.mu.Lock()
	q.pending = append(q.pending, s)
	q.mu.Unlock()
}

// Drain returns every pending signal in arrival order. The returned slice is
// only valid until the next Drain.
func (q *SignalQueue) Drain() []Signal {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return nil
	}
	out := q.pending
	q.pending = q.spare[:0]
	q.spare = out
	return out
}

// Len returns the number of queued signals.
func (q *SignalQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
