package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ground-plane helpers; Y is up, the track lives in XZ

// FlatDistSq returns the squared XZ distance between two points
func FlatDistSq(a, b mgl64.Vec3) float64 {
	dx := a[0] - b[0]
	dz := a[2] - b[2]
	return dx*dx + dz*dz
}

func FlatDist(a, b mgl64.Vec3) float64 {
	return math.Sqrt(FlatDistSq(a, b))
}

// Flatten drops the vertical component
func Flatten(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0], 0, v[2]}
}

// Heading returns the yaw of a direction, 0 facing +Z and positive toward +X
func Heading(dir mgl64.Vec3) float64 {
	return math.Atan2(dir[0], dir[2])
}

// HeadingDir is the unit XZ direction for a yaw angle
func HeadingDir(yaw float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(yaw), 0, math.Cos(yaw)}
}

// LeftOf returns the horizontal left normal of a forward direction
func LeftOf(forward mgl64.Vec3) mgl64.Vec3 {
	n := mgl64.Vec3{-forward[2], 0, forward[0]}
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return n
}

// YawRotation builds the quaternion for a rotation about +Y
func YawRotation(yaw float64) mgl64.Quat {
	return mgl64.QuatRotate(yaw, mgl64.Vec3{0, 1, 0})
}
