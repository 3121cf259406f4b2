package player

import (
	"math"

	"github.com/charmbracelet/harmonica"

	cfg "github.com/1F47E/go-scrollreel/pkg/config"
)

// Smoother follows a target scroll progress with a damped spring so frame
// changes do not jump with every wheel notch.
type Smoother struct {
	spring    harmonica.Spring
	restDelta float64

	pos, vel float64
}

// NewSmoother returns a smoother stepped fps times per second using the
// spring constants of the hero animation.
func NewSmoother(fps int) *Smoother {
	// angular frequency and damping ratio of a mass-spring-damper
	freq := math.Sqrt(cfg.SpringStiffness / cfg.SpringMass)
	ratio := cfg.SpringDamping / (2 * math.Sqrt(cfg.SpringStiffness*cfg.SpringMass))
	return &Smoother{
		spring:    harmonica.NewSpring(harmonica.FPS(fps), freq, ratio),
		restDelta: cfg.SpringRestDelta,
	}
}

// Update advances the spring one step towards target and returns the
// smoothed value. Once within the rest delta the value snaps to target.
func (s *Smoother) Update(target float64) float64 {
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, target)
	if math.Abs(target-s.pos) < s.restDelta && math.Abs(s.vel) < s.restDelta {
		s.pos, s.vel = target, 0
	}
	return s.pos
}

// Reset places the spring at rest on v.
func (s *Smoother) Reset(v float64) {
	s.pos, s.vel = v, 0
}

func (s *Smoother) Value() float64 {
	return s.pos
}

// Settled reports whether the spring rests on target.
func (s *Smoother) Settled(target float64) bool {
	return s.pos == target && s.vel == 0
}
