package parameter

import "time"

// Audio hardware settings
const (
	AudioSampleRate     = 48000
	AudioBufferDuration = 100 * time.Millisecond
)

// Engine voice
const (
	EngineIdleRPM       = 900.0
	EngineRPMRange      = 6900.0
	EngineMaxMph        = 160.0
	EngineThrottleBase  = 0.85
	EngineThrottleGain  = 0.25
	EngineWobbleRate    = 9.0 // rad/s
	EngineWobbleBase    = 0.96
	EngineWobbleDepth   = 0.03
	EngineHarmonicRatio = 2.01
	EngineGainBase      = 0.01
	EngineGainThrottle  = 0.12
	EngineGainSpeed     = 0.035
)

// Skid noise
const (
	SkidSlipThreshold = 3.2  // m/s lateral
	SkidSlipRange     = 10.5 // m/s
	SkidFullSpeedMph  = 40.0
	SkidGainMax       = 0.32
	SkidBandBase      = 250.0 // Hz
	SkidBandRange     = 2600.0
	SkidBandQ         = 0.8
)

// Activity gate: below all of these the voices fade out
const (
	AudioActiveMph      = 1.0
	AudioActiveThrottle = 0.04
	AudioActiveSlip     = 6.0
)

// Ramp time constants, seconds
const (
	RampFrequency = 0.03
	RampEngine    = 0.05
	RampSkid      = 0.06
	RampBand      = 0.08
	RampRelease   = 0.08
)

// AudioRampCap bounds the gain change of a single update
const AudioRampCap = 0.05

// Voice startup frequencies before the first update lands
const (
	EngineStartHz = 80.0
	SkidStartHz   = 1200.0
)

// MasterVolume scales the mixed output
const MasterVolume = 0.8
