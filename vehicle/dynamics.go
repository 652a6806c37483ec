// Package vehicle implements the arcade control law that drives a rigid body from player input
package vehicle

import (
	"math"

	"github.com/lixenwraith/dusk-circuit/input"
	"github.com/lixenwraith/dusk-circuit/parameter"
	"github.com/lixenwraith/dusk-circuit/physics"
	"github.com/lixenwraith/dusk-circuit/track"
	"github.com/lixenwraith/dusk-circuit/vmath"
)

// Smoothed is the damped control state applied to the body
type Smoothed struct {
	Drive float64 // [-1,1], throttle minus brake
	Steer float64 // [-1,1]
}

// Dynamics owns the smoothed control of one car and edits its body each fixed step
// A detached Dynamics is a no-op
type Dynamics struct {
	body     *physics.RigidBody
	start    track.Pose
	smoothed Smoothed
	control  input.ControlVector
	onReset  []func()
}

// NewDynamics creates an engine that resets bodies to start
func NewDynamics(start track.Pose) *Dynamics {
	return &Dynamics{start: start}
}

// Attach binds the body to control; the body keeps its current pose
func (d *Dynamics) Attach(b *physics.RigidBody) {
	d.body = b
}

// Detach releases the body and clears control state
func (d *Dynamics) Detach() {
	d.body = nil
	d.smoothed = Smoothed{}
	d.control = input.ControlVector{}
}

func (d *Dynamics) Body() *physics.RigidBody {
	return d.body
}

// OnReset registers a listener called after every reset
func (d *Dynamics) OnReset(fn func()) {
	if fn != nil {
		d.onReset = append(d.onReset, fn)
	}
}

// Reset teleports the body to the start pose with all motion and smoothing cleared
func (d *Dynamics) Reset() {
	if d.body == nil {
		return
	}
	pos := d.start.Position
	pos[1] = d.body.HalfHeight
	d.body.Teleport(pos, d.start.Yaw)
	d.smoothed = Smoothed{}
	d.control = input.ControlVector{}
	for _, fn := range d.onReset {
		fn()
	}
}

// Control latches the frame's input; a reset edge is applied immediately
// so it is never lost on frames that run no fixed steps
func (d *Dynamics) Control(in input.ControlVector) {
	if d.body == nil {
		return
	}
	if in.Reset {
		d.Reset()
	}
	in.Reset = false
	d.control = in
}

// Smoothed returns the current damped control
func (d *Dynamics) Smoothed() Smoothed {
	return d.smoothed
}

// Step applies the control law for one fixed step; forces are consumed by the next world step
func (d *Dynamics) Step(dt float64) {
	b := d.body
	if b == nil || dt <= 0 {
		return
	}
	in := d.control

	target := vmath.Clamp(in.Throttle-in.Brake, -1, 1)
	d.smoothed.Drive = vmath.Damp(d.smoothed.Drive, target, parameter.DriveDampRate, dt)
	d.smoothed.Steer = vmath.Damp(d.smoothed.Steer, in.Steer, parameter.SteerDampRate, dt)

	forward := b.Forward()
	speed := b.Speed()
	drive := d.smoothed.Drive
	switch {
	case drive > parameter.DriveEpsilon && speed < parameter.MaxSpeed:
		b.ApplyForce(forward.Mul(parameter.EngineForce * drive))
	case drive < -parameter.DriveEpsilon && speed < parameter.MaxSpeed*parameter.ReverseSpeedRatio:
		b.ApplyForce(forward.Mul(parameter.EngineForce * drive))
	}

	if in.Brake > parameter.BrakeDeadzone && ForwardSpeed(b) > parameter.BrakeMinForwardSpeed {
		k := math.Max(parameter.BrakeMinFactor, 1-parameter.BrakeDecayPerFrame*in.Brake*dt*parameter.ReferenceFrameRate)
		b.Velocity[0] *= k
		b.Velocity[2] *= k
	}

	w := b.AngularVelocity
	w[1] = YawRate(d.smoothed.Steer, speed)
	w[0] *= parameter.TiltDamping
	w[2] *= parameter.TiltDamping
	b.AngularVelocity = w

	drag := math.Pow(parameter.DragPerFrame, dt*parameter.ReferenceFrameRate)
	b.Velocity[0] *= drag
	b.Velocity[2] *= drag
}

// YawRate is the yaw angular velocity commanded by steer at speed
func YawRate(steer, speed float64) float64 {
	return steer * (parameter.SteerBaseRate + speed*parameter.SteerSpeedGain)
}

// ForwardSpeed is horizontal velocity projected on the heading
func ForwardSpeed(b *physics.RigidBody) float64 {
	f := vmath.Flatten(b.Forward())
	if l := f.Len(); l > 0 {
		f = f.Mul(1 / l)
	}
	return vmath.Flatten(b.Velocity).Dot(f)
}

// LateralSlip is the absolute sideways velocity in the body frame
func LateralSlip(b *physics.RigidBody) float64 {
	return math.Abs(b.LocalVelocity()[0])
}

// SpeedMph is the body-frame forward speed in mph; sideways slide does not count
func SpeedMph(b *physics.RigidBody) float64 {
	return math.Abs(b.LocalVelocity()[2]) * parameter.MetersPerSecondToMph
}

// Gear maps speed to a display gear 1..6
func Gear(mph float64) int {
	for i, limit := range parameter.GearThresholdsMph {
		if mph < limit {
			return i + 1
		}
	}
	return len(parameter.GearThresholdsMph) + 1
}
