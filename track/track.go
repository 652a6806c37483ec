// Package track builds the closed racing line and answers spatial queries against it
package track

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/peterstace/simplefeatures/geom"

	"github.com/lixenwraith/dusk-circuit/parameter"
	"github.com/lixenwraith/dusk-circuit/vmath"
)

var (
	ErrTooFewPoints  = errors.New("track needs at least 4 control points")
	ErrTooFewSamples = errors.New("track sample count too small")
	ErrDegenerate    = errors.New("track centerline has zero length")
)

// Pose is a ground position and heading
type Pose struct {
	Position mgl64.Vec3
	Yaw      float64
}

// Track is an immutable closed centerline sampled at even arc length
// All slices are indexed by sample and shared read-only
type Track struct {
	Samples  []mgl64.Vec3
	Tangents []mgl64.Vec3
	Normals  []mgl64.Vec3 // left of travel, horizontal
	Length   float64

	window    int
	clearance []float64
	outline   geom.LineString
}

// New samples a centripetal Catmull-Rom loop through points into n samples
func New(points []mgl64.Vec3, n int) (*Track, error) {
	if len(points) < parameter.TrackMinControlPoints {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(points))
	}
	if n < parameter.TrackMinSamples {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewSamples, n)
	}

	if controlExtent(points) < parameter.TrackMinExtent {
		return nil, ErrDegenerate
	}

	dense := densePolyline(points, parameter.DenseSamplesPerSegment, parameter.CatmullRomAlpha)
	samples, length := resample(dense, n)
	// Coincident points still leave rounding residue in the blended spline
	if math.IsNaN(length) || length < parameter.TrackMinExtent*float64(len(points)) {
		return nil, ErrDegenerate
	}

	t := &Track{
		Samples:  samples,
		Tangents: make([]mgl64.Vec3, n),
		Normals:  make([]mgl64.Vec3, n),
		Length:   length,
		window:   parameter.ProgressWindow,
	}

	for i := range samples {
		prev := samples[vmath.WrapIndex(i-1, n)]
		next := samples[vmath.WrapIndex(i+1, n)]
		tan := vmath.Flatten(next.Sub(prev))
		if l := tan.Len(); l > 0 {
			tan = tan.Mul(1 / l)
		}
		t.Tangents[i] = tan
		t.Normals[i] = vmath.LeftOf(tan)
	}

	t.clearance = t.buildClearance()

	outline, err := buildOutline(samples)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerate, err)
	}
	t.outline = outline
	return t, nil
}

// controlExtent is the largest distance of any control point from the first
func controlExtent(points []mgl64.Vec3) float64 {
	var d float64
	for _, p := range points[1:] {
		d = max(d, p.Sub(points[0]).Len())
	}
	return d
}

// Len returns the sample count
func (t *Track) Len() int {
	return len(t.Samples)
}

// Start is the start/finish pose at sample 0, heading toward sample 1
func (t *Track) Start() Pose {
	p := t.Samples[0]
	return Pose{
		Position: p,
		Yaw:      vmath.Heading(t.Samples[1].Sub(p)),
	}
}

// Spacing returns the smallest and largest gap between consecutive samples
func (t *Track) Spacing() (lo, hi float64) {
	n := t.Len()
	lo = math.Inf(1)
	for i := 0; i < n; i++ {
		d := t.Samples[(i+1)%n].Sub(t.Samples[i]).Len()
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

// TurnRadius estimates the local radius of curvature at sample i
// Straight sections return +Inf
func (t *Track) TurnRadius(i int) float64 {
	n := t.Len()
	a := t.Samples[vmath.WrapIndex(i-1, n)]
	b := t.Samples[vmath.WrapIndex(i, n)]
	c := t.Samples[vmath.WrapIndex(i+1, n)]

	turn := math.Abs(vmath.WrapAngle(vmath.Heading(c.Sub(b)) - vmath.Heading(b.Sub(a))))
	if turn < 1e-9 {
		return math.Inf(1)
	}
	arc := 0.5 * (vmath.FlatDist(a, b) + vmath.FlatDist(b, c))
	return arc / turn
}
