package vehicle

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/dusk-circuit/input"
	"github.com/lixenwraith/dusk-circuit/parameter"
	"github.com/lixenwraith/dusk-circuit/physics"
	"github.com/lixenwraith/dusk-circuit/track"
)

const dt = parameter.FixedStep

type rig struct {
	world *physics.World
	body  *physics.RigidBody
	dyn   *Dynamics
}

func newRig(t *testing.T, start track.Pose) *rig {
	t.Helper()
	table := physics.NewMaterialTable(physics.ContactMaterial{})
	world, err := physics.NewWorld(table, table.Material(parameter.MaterialGround), parameter.Gravity)
	require.NoError(t, err)

	body := physics.NewRigidBody(parameter.VehicleMass, parameter.VehicleRadius, parameter.VehicleHalfHeight,
		table.Material(parameter.MaterialCar))
	require.NoError(t, world.AddBody(body))

	d := NewDynamics(start)
	d.Attach(body)
	d.Reset()
	return &rig{world: world, body: body, dyn: d}
}

func (r *rig) step(in input.ControlVector) {
	r.dyn.Control(in)
	r.dyn.Step(dt)
	r.world.Step(dt)
}

func horizontalSpeed(b *physics.RigidBody) float64 {
	return math.Hypot(b.Velocity[0], b.Velocity[2])
}

func TestFullThrottleIsMonotonicThenHoldsMaxSpeed(t *testing.T) {
	r := newRig(t, track.Pose{})

	prev := 0.0
	reached := -1
	for k := 0; k < 12*60; k++ {
		r.step(input.ControlVector{Throttle: 1})
		sp := horizontalSpeed(r.body)
		if reached < 0 {
			require.GreaterOrEqual(t, sp, prev-1e-9, "speed dropped at step %d", k)
			if sp >= parameter.MaxSpeed {
				reached = k
			}
		} else {
			assert.InDelta(t, parameter.MaxSpeed, sp, 0.5, "step %d", k)
		}
		prev = sp
	}
	require.Positive(t, reached)
	assert.Less(t, reached, 300)
	assert.InDelta(t, parameter.VehicleHalfHeight, r.body.Position[1], 1e-9, "car stays on the ground")
}

func TestZeroSteerKeepsHeading(t *testing.T) {
	r := newRig(t, track.Pose{Yaw: 0.4})
	for k := 0; k < 120; k++ {
		r.step(input.ControlVector{Throttle: 1})
	}
	assert.Equal(t, 0.0, r.body.AngularVelocity[1])
	assert.InDelta(t, 0.4, r.body.Yaw(), 1e-9)
}

func TestYawRate(t *testing.T) {
	assert.InDelta(t, 2.0, YawRate(1, 0), 1e-12)
	assert.InDelta(t, 2.9, YawRate(1, 45), 1e-12)
	assert.InDelta(t, -1.45, YawRate(-0.5, 45), 1e-12)
	assert.Equal(t, 0.0, YawRate(0, 30))
}

func TestSteerSmoothing(t *testing.T) {
	r := newRig(t, track.Pose{})
	r.step(input.ControlVector{Steer: 1})
	want := 1 - math.Exp(-parameter.SteerDampRate*dt)
	assert.InDelta(t, want, r.dyn.Smoothed().Steer, 1e-12)
	assert.InDelta(t, YawRate(want, 0), r.body.AngularVelocity[1], 1e-9)
}

func TestResetIsIdempotent(t *testing.T) {
	start := track.Pose{Position: mgl64.Vec3{5, 0, -3}, Yaw: 1.1}
	r := newRig(t, start)
	calls := 0
	r.dyn.OnReset(func() { calls++ })

	for k := 0; k < 90; k++ {
		r.step(input.ControlVector{Throttle: 1, Steer: 0.6})
	}
	require.Greater(t, horizontalSpeed(r.body), 1.0)

	r.dyn.Reset()
	first := *r.body
	r.dyn.Reset()

	assert.Equal(t, first.Position, r.body.Position)
	assert.Equal(t, first.Orientation, r.body.Orientation)
	assert.Equal(t, mgl64.Vec3{5, parameter.VehicleHalfHeight, -3}, r.body.Position)
	assert.Equal(t, mgl64.Vec3{}, r.body.Velocity)
	assert.Equal(t, mgl64.Vec3{}, r.body.AngularVelocity)
	assert.Equal(t, Smoothed{}, r.dyn.Smoothed())
	assert.InDelta(t, 1.1, r.body.Yaw(), 1e-9)
	assert.Equal(t, 2, calls)
}

func TestResetEdgeAppliesWithoutSteps(t *testing.T) {
	r := newRig(t, track.Pose{})
	for k := 0; k < 30; k++ {
		r.step(input.ControlVector{Throttle: 1})
	}
	r.dyn.Control(input.ControlVector{Reset: true, Throttle: 1})
	assert.Equal(t, mgl64.Vec3{}, r.body.Velocity)
	assert.Equal(t, Smoothed{}, r.dyn.Smoothed())
}

func TestBrakeOnlyWhenMovingForward(t *testing.T) {
	r := newRig(t, track.Pose{})
	drag := math.Pow(parameter.DragPerFrame, dt*parameter.ReferenceFrameRate)

	r.body.Velocity = mgl64.Vec3{0, 0, 10}
	r.dyn.Control(input.ControlVector{Brake: 1})
	r.dyn.Step(dt)
	assert.InDelta(t, 10*(1-parameter.BrakeDecayPerFrame)*drag, r.body.Velocity[2], 1e-9)

	r.body.Velocity = mgl64.Vec3{0, 0, -10}
	r.dyn.Step(dt)
	assert.InDelta(t, -10*drag, r.body.Velocity[2], 1e-9, "reversing is not braked")

	r.body.Velocity = mgl64.Vec3{0, 0, 10}
	r.dyn.Control(input.ControlVector{Brake: 0.05})
	r.dyn.Step(dt)
	assert.InDelta(t, 10*drag, r.body.Velocity[2], 1e-9, "inside deadzone")
}

func TestReverseSpeedCap(t *testing.T) {
	r := newRig(t, track.Pose{})
	for k := 0; k < 20*60; k++ {
		r.step(input.ControlVector{Brake: 1})
	}
	assert.Less(t, r.body.Velocity[2], 0.0)
	assert.InDelta(t, parameter.MaxSpeed*parameter.ReverseSpeedRatio, horizontalSpeed(r.body), 0.5)
}

func TestDetachedIsNoOp(t *testing.T) {
	d := NewDynamics(track.Pose{})
	assert.NotPanics(t, func() {
		d.Control(input.ControlVector{Throttle: 1, Reset: true})
		d.Step(dt)
		d.Reset()
	})
	assert.Nil(t, d.Body())
	assert.Equal(t, Smoothed{}, d.Smoothed())
}

func TestGear(t *testing.T) {
	tests := []struct {
		mph  float64
		want int
	}{
		{0, 1}, {13.9, 1}, {14, 2}, {27.9, 2}, {28, 3}, {46, 4}, {65, 4}, {66, 5}, {91.9, 5}, {92, 6}, {150, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Gear(tt.mph), "mph %.1f", tt.mph)
	}
}

func TestLateralSlip(t *testing.T) {
	b := physics.NewRigidBody(1, 1, 1, nil)
	b.Teleport(mgl64.Vec3{}, math.Pi/2)
	b.Velocity = mgl64.Vec3{0, 0, 4}
	assert.InDelta(t, 4, LateralSlip(b), 1e-9)
	assert.InDelta(t, 0, ForwardSpeed(b), 1e-9)
}

func TestSpeedMphIgnoresSlide(t *testing.T) {
	b := physics.NewRigidBody(1, 1, 1, nil)
	b.Teleport(mgl64.Vec3{}, math.Pi/2)

	b.Velocity = mgl64.Vec3{0, 0, 10}
	assert.InDelta(t, 0, SpeedMph(b), 1e-9, "pure sideways slide")

	b.Velocity = mgl64.Vec3{10, 0, 0}
	assert.InDelta(t, 10*parameter.MetersPerSecondToMph, SpeedMph(b), 1e-9)

	b.Velocity = mgl64.Vec3{-10, 0, 5}
	assert.InDelta(t, 10*parameter.MetersPerSecondToMph, SpeedMph(b), 1e-9, "reverse reads positive")
}

func TestAutopilotSteersTowardLookAhead(t *testing.T) {
	samples := make([]mgl64.Vec3, 32)
	for i := range samples {
		samples[i] = mgl64.Vec3{float64(i), 0, float64(i) * 10}
	}
	body := physics.NewRigidBody(1, 1, 1, nil)
	ap := NewAutopilot(samples, func() *physics.RigidBody { return body }, func() int { return 0 })

	c := ap.Contribution()
	assert.Greater(t, c.Steer, 0.0, "target is to the right")
	assert.Equal(t, 1.0, c.Throttle)

	body.Teleport(mgl64.Vec3{}, math.Pi)
	c = ap.Contribution()
	assert.Equal(t, 0.0, c.Throttle, "facing away")

	none := NewAutopilot(samples, func() *physics.RigidBody { return nil }, func() int { return 0 })
	assert.Equal(t, input.Contribution{}, none.Contribution())
}
