package game

import "time"

// FrameID identifies a requested frame callback. Zero is never issued.
type FrameID uint64

type frameRequest struct {
	id FrameID
	cb func(now time.Time)
}

// FrameScheduler runs callbacks once per display refresh, the way a browser
// services animation frame requests: callbacks requested during Fire wait for
// the next Fire.
type FrameScheduler struct {
	next    FrameID
	pending []frameRequest
	firing  []frameRequest
}

// NewFrameScheduler returns an idle scheduler.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{}
}

// Request queues cb for the next Fire.
func (s *FrameScheduler) Request(cb func(now time.Time)) FrameID {
	s.next++
	s.pending = append(s.pending, frameRequest{id: s.next, cb: cb})
	return s.next
}

// Cancel drops a request that has not run yet. Unknown ids are ignored.
func (s *FrameScheduler) Cancel(id FrameID) {
	if id == 0 {
		return
	}
	for i := range s.pending {
		if s.pending[i].id == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
	for i := range s.firing {
		if s.firing[i].id == id {
			s.firing[i].cb = nil
			return
		}
	}
}

// Fire runs every callback requested before the call and returns how many ran.
func (s *FrameScheduler) Fire(now time.Time) int {
	if len(s.pending) == 0 {
		return 0
	}
	s.firing, s.pending = s.pending, s.firing[:0]

	ran := 0
	for i := range s.firing {
		if cb := s.firing[i].cb; cb != nil {
			s.firing[i].cb = nil
			cb(now)
			ran++
		}
	}
	s.firing = s.firing[:0]
	return ran
}

// Pending returns the number of callbacks waiting for the next Fire.
func (s *FrameScheduler) Pending() int {
	return len(s.pending)
}
