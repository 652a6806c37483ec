// Package event carries race notifications from the frame goroutine to background consumers
package event

import "time"

// Type identifies an event
type Type uint8

const (
	// LapCompleted fires when the tracker counts a lap
	// Trigger: progress tracker crossing
	// Consumers: record store, telemetry
	// Payload: *LapCompletedPayload
	LapCompleted Type = iota + 1

	// VehicleReset fires on every reset, manual or at spawn
	// Consumers: telemetry
	// Payload: *VehicleResetPayload
	VehicleReset

	// AudioUnlocked fires once the audio gate opens
	// Payload: nil
	AudioUnlocked

	// SessionEnded fires from Dispose
	// Payload: *SessionEndedPayload
	SessionEnded
)

func (t Type) String() string {
	switch t {
	case LapCompleted:
		return "lap_completed"
	case VehicleReset:
		return "vehicle_reset"
	case AudioUnlocked:
		return "audio_unlocked"
	case SessionEnded:
		return "session_ended"
	}
	return "unknown"
}

// Event is one queued notification
type Event struct {
	Type    Type
	Frame   uint64
	Payload any
}

// LapCompletedPayload describes a finished lap
type LapCompletedPayload struct {
	Session string
	Car     string
	Quality string
	Lap     int
	Time    float64
	Splits  []float64
	Best    bool
	At      time.Time
}

type VehicleResetPayload struct {
	Session string
	Lap     int
	At      time.Time
}

type SessionEndedPayload struct {
	Session  string
	Laps     int
	BestLap  float64
	Duration float64
	Steps    uint64
}
