package player

import "sync"

// Scheduler coalesces paint requests. Any number of Request calls between two
// Flush calls result in a single paint of the most recently requested index.
type Scheduler struct {
	paint func(index int)

	mu      sync.Mutex
	pending bool
	index   int
}

func NewScheduler(paint func(index int)) *Scheduler {
	return &Scheduler{paint: paint}
}

// Request schedules a paint of index on the next Flush, replacing any
// request not yet flushed.
func (s *Scheduler) Request(index int) {
	s.mu.Lock()
	s.pending = true
	s.index = index
	s.mu.Unlock()
}

// Pending returns the index waiting to be painted.
func (s *Scheduler) Pending() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index, s.pending
}

// Flush paints the pending request, if any, and reports whether it did.
func (s *Scheduler) Flush() bool {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return false
	}
	s.pending = false
	index := s.index
	s.mu.Unlock()

	s.paint(index)
	return true
}

// Drop discards the pending request.
func (s *Scheduler) Drop() {
	s.mu.Lock()
	s.pending = false
	s.mu.Unlock()
}
