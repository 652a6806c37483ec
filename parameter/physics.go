package parameter

import "time"

// Simulation timing
const (
	// FixedStep is the physics integration interval in seconds
	FixedStep = 1.0 / 60.0

	// MaxFrameDt caps a single frame's contribution to the accumulator
	MaxFrameDt = 0.05

	// StepTolerance absorbs float drift when frame dt equals FixedStep
	StepTolerance = 1e-9

	// ReferenceFrameRate normalizes per-frame decay factors
	ReferenceFrameRate = 60.0

	// FrameInterval is the display cadence of the terminal loop
	FrameInterval = 16 * time.Millisecond
)

// World
const (
	Gravity = 9.82 // m/s²
)

// Material names shared between bodies and the contact table
const (
	MaterialGround = "ground"
	MaterialCar    = "car"
	MaterialRail   = "rail"
)

// FrameIntervalLow is the display cadence of the low quality tier
const FrameIntervalLow = 33 * time.Millisecond
