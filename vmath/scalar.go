package vmath

import "math"

// Damp moves current toward target with frame-rate independent exponential smoothing
// lambda is the convergence rate in 1/s
func Damp(current, target, lambda, dt float64) float64 {
	return current + (target-current)*(1-math.Exp(-lambda*dt))
}

// DampTau is Damp expressed with a time constant instead of a rate
// Non-positive tau snaps to target
func DampTau(current, target, tau, dt float64) float64 {
	if tau <= 0 {
		return target
	}
	return Damp(current, target, 1/tau, dt)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// StepToward moves current toward target by at most maxDelta
func StepToward(current, target, maxDelta float64) float64 {
	d := target - current
	if d > maxDelta {
		return current + maxDelta
	}
	if d < -maxDelta {
		return current - maxDelta
	}
	return target
}

// WrapAngle maps an angle in radians into [-Pi, Pi)
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// WrapIndex maps i onto a ring of n slots
func WrapIndex(i, n int) int {
	return ((i % n) + n) % n
}

// RingDelta returns the shortest signed step count from one ring slot to another
// Result lies in [-n/2, n/2)
func RingDelta(from, to, n int) int {
	return WrapIndex(to-from+n/2, n) - n/2
}
