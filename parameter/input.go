package parameter

import "time"

// Terminals report presses and repeats but no releases
const (
	// KeyHoldInitial keeps a fresh press alive until the OS key repeat starts
	KeyHoldInitial = 550 * time.Millisecond

	// KeyHoldRepeat keeps a repeating key alive between repeat events
	KeyHoldRepeat = 120 * time.Millisecond
)

// Touch mapping, normalized screen coordinates
const (
	TouchSteerScale = 0.95
	TouchNeutralY   = 0.6
	TouchPedalScale = 0.9
)

// Gamepad
const (
	GamepadDeadzone = 0.08
)
