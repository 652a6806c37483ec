package parameter

import "github.com/go-gl/mathgl/mgl64"

// Centerline sampling
const (
	TrackSampleCount       = 320
	TrackMinSamples        = 16
	TrackMinControlPoints  = 4
	DenseSamplesPerSegment = 64
	CatmullRomAlpha        = 0.5 // centripetal
	CatmullRomMinKnot      = 1e-4

	// TrackMinExtent is the smallest control point spread, in meters, that yields a usable loop
	TrackMinExtent = 1e-6
)

// Road and rails
const (
	TrackWidth    = 8.2
	RailMargin    = 0.62
	RailThickness = 0.45
	RailHeight    = 0.6
	RailStride    = 7
	RailMinLength = 1.5

	// RailMinRadiusFactor skips rails where the turning radius is below factor*offset
	RailMinRadiusFactor = 2.0
)

// Progress search
const (
	ProgressWindow = 48

	// Lap crossing bands as fractions of the sample count
	LapExitBand  = 0.85
	LapEntryBand = 0.15

	// LapMinProgress is the fraction of a loop that must be driven before a crossing counts
	LapMinProgress = 0.5
)

// DefaultControlPoints is the built-in circuit
var DefaultControlPoints = []mgl64.Vec3{
	{0, 0, 0},
	{0, 0, 80},
	{45, 0, 125},
	{110, 0, 92},
	{92, 0, 20},
	{52, 0, -35},
	{-18, 0, -42},
	{-65, 0, 5},
	{-52, 0, 60},
}
