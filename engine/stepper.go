// Package engine runs the fixed-step accumulator and the display frame loop
package engine

import "math"

// Stepper converts variable frame time into whole fixed simulation steps
// Not safe for concurrent use; owned by the frame loop
type Stepper struct {
	step      float64
	maxFrame  float64
	tolerance float64

	acc   float64
	total uint64
}

// NewStepper creates an accumulator for the given fixed step and per-frame ceiling
func NewStepper(step, maxFrame, tolerance float64) *Stepper {
	return &Stepper{
		step:      step,
		maxFrame:  maxFrame,
		tolerance: tolerance,
	}
}

// Advance feeds one frame's dt and runs fn once per whole fixed step
// dt is clamped to [0, maxFrame]; returns the number of steps run
func (s *Stepper) Advance(dt float64, fn func(step float64)) int {
	if math.IsNaN(dt) || dt < 0 {
		dt = 0
	}
	if dt > s.maxFrame {
		dt = s.maxFrame
	}

	s.acc += dt
	n := 0
	for s.acc+s.tolerance >= s.step {
		if fn != nil {
			fn(s.step)
		}
		s.acc -= s.step
		n++
	}
	if s.acc < 0 {
		s.acc = 0
	}
	s.total += uint64(n)
	return n
}

// Alpha is the leftover fraction of a step, for render interpolation
func (s *Stepper) Alpha() float64 {
	return s.acc / s.step
}

// Step returns the fixed step length
func (s *Stepper) Step() float64 {
	return s.step
}

// Total returns the number of steps run since creation or Reset
func (s *Stepper) Total() uint64 {
	return s.total
}

// Reset drops accumulated time
func (s *Stepper) Reset() {
	s.acc = 0
	s.total = 0
}
