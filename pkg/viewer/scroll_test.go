package viewer

import (
	"math"
	"testing"
)

func TestScroller(t *testing.T) {
	s := scroller{screens: 4}
	s.setViewport(100)

	testCases := []struct {
		name string
		move func()
		want float64
	}{
		{"start", func() {}, 0},
		{"half", func() { s.by(150) }, 0.5},
		{"past end", func() { s.by(1000) }, 1},
		{"past start", func() { s.by(-1000) }, 0},
		{"bottom", s.bottom, 1},
		{"top", s.top, 0},
		{"to", func() { s.to(100) }, 1.0 / 3},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.move()
			if got := s.progress(); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("progress = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestScrollerResizeKeepsProgress(t *testing.T) {
	s := scroller{screens: 4}
	s.setViewport(100)
	s.by(150)
	s.setViewport(400)
	if got := s.progress(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("progress after resize = %v, want 0.5", got)
	}
	if s.offset != 600 {
		t.Errorf("offset after resize = %v, want 600", s.offset)
	}
}

func TestScrollerSingleScreen(t *testing.T) {
	s := scroller{screens: 1}
	s.setViewport(100)
	s.by(50)
	if s.progress() != 0 {
		t.Errorf("single screen page scrolled to %v", s.progress())
	}
}
