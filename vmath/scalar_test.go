package vmath

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestDampConvergesIndependentOfStepSize(t *testing.T) {
	// One 0.1s step and ten 0.01s steps land on the same value
	one := Damp(0, 1, 8.5, 0.1)

	many := 0.0
	for i := 0; i < 10; i++ {
		many = Damp(many, 1, 8.5, 0.01)
	}

	assert.InDelta(t, one, many, 1e-12)
	assert.InDelta(t, 1-math.Exp(-0.85), one, 1e-12)
}

func TestDampTauSnapsOnZero(t *testing.T) {
	assert.Equal(t, 3.0, DampTau(1, 3, 0, 0.016))
}

func TestStepToward(t *testing.T) {
	tests := []struct {
		name             string
		cur, target, max float64
		want             float64
	}{
		{"within cap", 0.1, 0.15, 0.1, 0.15},
		{"capped up", 0, 1, 0.2, 0.2},
		{"capped down", 1, 0, 0.25, 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, StepToward(tt.cur, tt.target, tt.max), 1e-12)
		})
	}
}

func TestWrapAngle(t *testing.T) {
	assert.InDelta(t, 0.0, WrapAngle(2*math.Pi), 1e-12)
	assert.InDelta(t, -math.Pi/2, WrapAngle(3*math.Pi/2), 1e-12)
	assert.InDelta(t, math.Pi/2, WrapAngle(-3*math.Pi/2), 1e-12)
}

func TestRingDelta(t *testing.T) {
	n := 320
	assert.Equal(t, 1, RingDelta(319, 0, n))
	assert.Equal(t, -1, RingDelta(0, 319, n))
	assert.Equal(t, 5, RingDelta(10, 15, n))
	assert.Equal(t, -160, RingDelta(0, 160, n))
	assert.Equal(t, 3, WrapIndex(-317, n))
}

func TestHeadingRoundTrip(t *testing.T) {
	for _, yaw := range []float64{-2.5, -0.4, 0, 0.805, 3} {
		dir := HeadingDir(yaw)
		assert.InDelta(t, yaw, Heading(dir), 1e-12)

		rotated := YawRotation(yaw).Rotate(mgl64.Vec3{0, 0, 1})
		assert.InDelta(t, dir[0], rotated[0], 1e-12)
		assert.InDelta(t, dir[2], rotated[2], 1e-12)
	}

	left := LeftOf(mgl64.Vec3{0, 0, 1})
	assert.InDelta(t, -1.0, left[0], 1e-12)
}
