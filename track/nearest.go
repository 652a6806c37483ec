package track

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/dusk-circuit/vmath"
)

// inWindow reports whether j lies within the search window around h on the ring
func (t *Track) inWindow(h, j int) bool {
	d := vmath.WrapIndex(j-h, t.Len())
	return d <= t.window || d >= t.Len()-t.window
}

// buildClearance records, per sample, the XZ distance to the closest sample outside its window
// A window that already covers the loop gets +Inf
func (t *Track) buildClearance() []float64 {
	n := t.Len()
	clear := make([]float64, n)
	for h := 0; h < n; h++ {
		best := math.Inf(1)
		for j := 0; j < n; j++ {
			if t.inWindow(h, j) {
				continue
			}
			if d := vmath.FlatDistSq(t.Samples[h], t.Samples[j]); d < best {
				best = d
			}
		}
		clear[h] = math.Sqrt(best)
	}
	return clear
}

// Nearest returns the sample closest to pos in the ground plane
// The search scans a window around hint and widens to the whole loop
// whenever the window cannot prove its answer; ties resolve to the lowest index
func (t *Track) Nearest(pos mgl64.Vec3, hint int) int {
	n := t.Len()
	h := vmath.WrapIndex(hint, n)

	best := -1
	bestD := math.Inf(1)
	for k := -t.window; k <= t.window; k++ {
		i := vmath.WrapIndex(h+k, n)
		d := vmath.FlatDistSq(t.Samples[i], pos)
		if d < bestD || (d == bestD && i < best) {
			bestD = d
			best = i
		}
	}

	// Every sample outside the window is at least clearance-|pos-S[h]| away
	if t.clearance[h]-vmath.FlatDist(t.Samples[h], pos) > math.Sqrt(bestD) {
		return best
	}
	return t.NearestExhaustive(pos)
}

// NearestExhaustive scans every sample
func (t *Track) NearestExhaustive(pos mgl64.Vec3) int {
	best := 0
	bestD := math.Inf(1)
	for i, s := range t.Samples {
		if d := vmath.FlatDistSq(s, pos); d < bestD {
			bestD = d
			best = i
		}
	}
	return best
}
