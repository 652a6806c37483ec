package parameter

// Chassis
const (
	VehicleMass = 950.0 // kg

	// VehicleHalfHeight is the chassis box half extent above the ground plane
	VehicleHalfHeight = 0.3

	// VehicleRadius is the horizontal collision radius against rails
	VehicleRadius = 0.85
)

// Drive model
const (
	EngineForce = 15000.0 // N, ~15.8 m/s² at VehicleMass

	// MaxSpeed gates forward drive force, m/s (~100 mph)
	MaxSpeed = 45.0

	// ReverseSpeedRatio caps reverse drive as a fraction of MaxSpeed
	ReverseSpeedRatio = 0.6

	// DriveEpsilon is the smoothed drive magnitude below which no force is applied
	DriveEpsilon = 0.01
)

// Input smoothing rates, 1/s
const (
	DriveDampRate = 8.5
	SteerDampRate = 10.5
)

// Braking decays horizontal velocity directly, normalized to ReferenceFrameRate
const (
	BrakeDeadzone        = 0.1
	BrakeMinForwardSpeed = 0.5
	BrakeDecayPerFrame   = 0.08
	BrakeMinFactor       = 0.9
)

// Steering sets yaw rate directly: steer * (SteerBaseRate + speed*SteerSpeedGain)
const (
	SteerBaseRate  = 2.0  // rad/s
	SteerSpeedGain = 0.02 // rad/s per m/s
)

// Stabilization and passive drag, per reference frame
const (
	TiltDamping  = 0.85
	DragPerFrame = 0.998
)

// MetersPerSecondToMph converts simulation speed to HUD units
const MetersPerSecondToMph = 2.23693629

// GearThresholdsMph are upper speed bounds of gears 1..5; anything faster is top gear
var GearThresholdsMph = [...]float64{14, 28, 46, 66, 92}

// Autopilot defaults for demo mode
const (
	AutopilotTargetSpeed = 15.0 // m/s
	AutopilotLookAhead   = 8    // samples
	AutopilotSteerGain   = 6.0
	AutopilotAccelScale  = 6.0 // m/s velocity error for full throttle
	AutopilotMinCorrect  = 0.5 // m/s, below this steer at the look-ahead point
)
