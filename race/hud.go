package race

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// FrameContext is one display frame handed to Update
type FrameContext struct {
	Dt  float64 // wall seconds since the previous frame, unclamped
	Now time.Time
}

// HudState is the presentation snapshot of a session
type HudState struct {
	SpeedMph float64
	Gear     int
	Lap      int
	LapTime  float64
	LastLap  float64
	BestLap  float64
	Progress int // nearest sample index
	Position mgl64.Vec3
	Spawned  bool
}
