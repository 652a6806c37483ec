package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/dusk-circuit/vmath"
)

var unitZ = mgl64.Vec3{0, 0, 1}

// RigidBody is a dynamic body with no built-in damping that never sleeps
// Collision shape is a vertical capsule approximation: Radius in XZ, HalfHeight above ground
type RigidBody struct {
	Mass            float64
	Position        mgl64.Vec3
	Orientation     mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
	Radius          float64
	HalfHeight      float64
	Material        *Material

	force mgl64.Vec3
}

// NewRigidBody creates a body at the origin; mat must come from the world's MaterialTable
func NewRigidBody(mass, radius, halfHeight float64, mat *Material) *RigidBody {
	return &RigidBody{
		Mass:        mass,
		Orientation: mgl64.QuatIdent(),
		Radius:      radius,
		HalfHeight:  halfHeight,
		Material:    mat,
	}
}

// ApplyForce accumulates a world-space force at the center of mass until the next step
func (b *RigidBody) ApplyForce(f mgl64.Vec3) {
	b.force = b.force.Add(f)
}

// Force returns the force accumulated for the next step
func (b *RigidBody) Force() mgl64.Vec3 {
	return b.force
}

// Forward is the body's local +Z axis in world space
func (b *RigidBody) Forward() mgl64.Vec3 {
	return b.Orientation.Rotate(unitZ)
}

// Yaw returns the heading of the forward axis, 0 facing +Z
func (b *RigidBody) Yaw() float64 {
	return vmath.Heading(b.Forward())
}

// Speed is the linear velocity magnitude
func (b *RigidBody) Speed() float64 {
	return b.Velocity.Len()
}

// LocalVelocity expresses the linear velocity in the body frame
// X is lateral (positive to the right of travel), Z is forward
func (b *RigidBody) LocalVelocity() mgl64.Vec3 {
	return b.Orientation.Inverse().Rotate(b.Velocity)
}

// Teleport places the body at pos facing yaw and clears all motion
func (b *RigidBody) Teleport(pos mgl64.Vec3, yaw float64) {
	b.Position = pos
	b.Orientation = vmath.YawRotation(yaw)
	b.Velocity = mgl64.Vec3{}
	b.AngularVelocity = mgl64.Vec3{}
	b.force = mgl64.Vec3{}
}

// integrate advances velocity, position and orientation by dt under gravity
func (b *RigidBody) integrate(gravity mgl64.Vec3, dt float64) {
	if b.Mass > 0 {
		b.Velocity = b.Velocity.Add(b.force.Mul(dt / b.Mass))
	}
	b.Velocity = b.Velocity.Add(gravity.Mul(dt))
	b.Position = b.Position.Add(b.Velocity.Mul(dt))

	// Exact rotation about the instantaneous axis
	if w := b.AngularVelocity.Len(); w > 0 {
		axis := b.AngularVelocity.Mul(1 / w)
		b.Orientation = mgl64.QuatRotate(w*dt, axis).Mul(b.Orientation).Normalize()
	}

	b.force = mgl64.Vec3{}
}
