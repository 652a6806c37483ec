package vehicle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/dusk-circuit/input"
	"github.com/lixenwraith/dusk-circuit/parameter"
	"github.com/lixenwraith/dusk-circuit/physics"
	"github.com/lixenwraith/dusk-circuit/vmath"
)

// Autopilot steers toward a sample ahead of the car's progress index
// It is an input source; demo mode and tests plug it into the aggregator
type Autopilot struct {
	samples []mgl64.Vec3
	body    func() *physics.RigidBody
	index   func() int

	TargetSpeed float64
	LookAhead   int
	SteerGain   float64
	AccelScale  float64
	MinCorrect  float64
}

// NewAutopilot follows samples using the car returned by body and the progress index returned by index
func NewAutopilot(samples []mgl64.Vec3, body func() *physics.RigidBody, index func() int) *Autopilot {
	return &Autopilot{
		samples:     samples,
		body:        body,
		index:       index,
		TargetSpeed: parameter.AutopilotTargetSpeed,
		LookAhead:   parameter.AutopilotLookAhead,
		SteerGain:   parameter.AutopilotSteerGain,
		AccelScale:  parameter.AutopilotAccelScale,
		MinCorrect:  parameter.AutopilotMinCorrect,
	}
}

// Contribution chases the velocity that would carry the car to the look-ahead sample at TargetSpeed
func (a *Autopilot) Contribution() input.Contribution {
	n := len(a.samples)
	if n == 0 || a.body == nil || a.index == nil {
		return input.Contribution{}
	}
	b := a.body()
	if b == nil {
		return input.Contribution{}
	}

	target := a.samples[vmath.WrapIndex(a.index()+a.LookAhead, n)]
	dx := target[0] - b.Position[0]
	dz := target[2] - b.Position[2]
	dl := math.Hypot(dx, dz)
	if dl == 0 {
		dl = 1
	}

	// Velocity error toward the desired velocity
	ex := dx/dl*a.TargetSpeed - b.Velocity[0]
	ez := dz/dl*a.TargetSpeed - b.Velocity[2]
	mag := math.Hypot(ex, ez)

	want := math.Atan2(dx, dz)
	if mag > a.MinCorrect {
		want = math.Atan2(ex, ez)
	}
	e := vmath.WrapAngle(want - b.Yaw())

	c := input.Contribution{Steer: vmath.Clamp(e*a.SteerGain, -1, 1)}
	if math.Abs(e) < math.Pi/2 {
		c.Throttle = vmath.Clamp01(mag / a.AccelScale)
	}
	return c
}
