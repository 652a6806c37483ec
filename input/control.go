// Package input merges keyboard, touch and gamepad signals into one control vector per frame
package input

import "github.com/lixenwraith/dusk-circuit/vmath"

// ControlVector is the merged driver input for one frame
type ControlVector struct {
	Throttle float64 // [0,1]
	Brake    float64 // [0,1]
	Steer    float64 // [-1,1], positive turns right
	Reset    bool    // true only on the frame the reset control goes down
}

// Contribution is one source's raw, unclamped share of the control vector
// ResetHeld is a level, not an edge; the aggregator derives the edge
type Contribution struct {
	Throttle  float64
	Brake     float64
	Steer     float64
	ResetHeld bool
}

// Source is anything that can be sampled for a contribution once per frame
type Source interface {
	Contribution() Contribution
}

// merge sums contributions and clamps each axis to its range
func merge(parts ...Contribution) (ControlVector, bool) {
	var sum Contribution
	for _, p := range parts {
		sum.Throttle += p.Throttle
		sum.Brake += p.Brake
		sum.Steer += p.Steer
		sum.ResetHeld = sum.ResetHeld || p.ResetHeld
	}
	return ControlVector{
		Throttle: vmath.Clamp01(sum.Throttle),
		Brake:    vmath.Clamp01(sum.Brake),
		Steer:    vmath.Clamp(sum.Steer, -1, 1),
	}, sum.ResetHeld
}
