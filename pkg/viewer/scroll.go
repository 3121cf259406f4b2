package viewer

import "math"

// scroller tracks the vertical offset of a container that is screens
// viewport heights tall, scrolled inside a viewport of height h.
type scroller struct {
	screens float64
	h       float64
	offset  float64
}

func (s *scroller) max() float64 {
	return math.Max(0, (s.screens-1)*s.h)
}

func (s *scroller) setViewport(h int) {
	// keep the same progress across a resize
	p := s.progress()
	s.h = float64(h)
	s.offset = p * s.max()
}

func (s *scroller) by(dy float64) {
	s.to(s.offset + dy)
}

func (s *scroller) to(offset float64) {
	s.offset = math.Max(0, math.Min(s.max(), offset))
}

func (s *scroller) top() {
	s.offset = 0
}

func (s *scroller) bottom() {
	s.offset = s.max()
}

// progress is the offset normalised to [0,1], the position of the sticky
// viewport within its container.
func (s *scroller) progress() float64 {
	m := s.max()
	if m == 0 {
		return 0
	}
	return s.offset / m
}
