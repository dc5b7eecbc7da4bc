package game

import "time"

// Debouncer coalesces bursts of triggers into one delivery of the last value
// once no trigger has arrived for the quiet period.
type Debouncer[T any] struct {
	delay    time.Duration
	pending  bool
	value    T
	deadline time.Time
}

// NewDebouncer returns a debouncer with the given quiet period.
func NewDebouncer[T any](delay time.Duration) *Debouncer[T] {
	return &Debouncer[T]{delay: delay}
}

// Trigger replaces any pending value and restarts the quiet period.
func (d *Debouncer[T]) Trigger(now time.Time, v T) {
	d.value = v
	d.deadline = now.Add(d.delay)
	d.pending = true
}

// Poll returns the pending value once the quiet period has elapsed.
func (d *Debouncer[T]) Poll(now time.Time) (T, bool) {
	var zero T
	if !d.pending || now.Before(d.deadline) {
		return zero, false
	}
	v := d.value
	d.pending = false
	d.value = zero
	return v, true
}

// Pending reports whether a value is waiting.
func (d *Debouncer[T]) Pending() bool {
	return d.pending
}
