// Package progress tracks a car's position along a closed track and counts laps
package progress

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/dusk-circuit/parameter"
	"github.com/lixenwraith/dusk-circuit/vmath"
)

// Locator finds the sample nearest to a position, searching around hint first
type Locator interface {
	Nearest(pos mgl64.Vec3, hint int) int
	Len() int
}

// LapState is the tracker's published state
type LapState struct {
	Lap               int     // current lap, starts at 1
	LapTime           float64 // seconds into the current lap
	LastProgressIndex int     // always in [0, N)
	LastLap           float64 // duration of the previous lap, 0 before the first
	BestLap           float64 // 0 before the first
}

// Lap describes one completed lap
type Lap struct {
	Number int
	Time   float64
	Splits []float64 // section durations, summing to Time
	Best   bool
}

// Tracker turns positions into lap state
// A lap counts only when the car crosses from the exit band into the entry band
// having driven at least half a loop forward since the last count
type Tracker struct {
	loc Locator
	n   int

	state    LapState
	progress int

	sections    int
	nextSection int
	splitMark   float64
	splits      []float64

	onLap []func(Lap)
}

// NewTracker creates a tracker at sample 0, lap 1
func NewTracker(loc Locator) *Tracker {
	t := &Tracker{
		loc:      loc,
		n:        loc.Len(),
		sections: parameter.LapSplitSections,
	}
	t.Reset()
	return t
}

// OnLap registers a listener for completed laps
func (t *Tracker) OnLap(fn func(Lap)) {
	if fn != nil {
		t.onLap = append(t.onLap, fn)
	}
}

// Reset returns to lap 1 at sample 0; best lap survives
func (t *Tracker) Reset() {
	best := t.state.BestLap
	t.state = LapState{Lap: 1, BestLap: best}
	t.progress = 0
	t.nextSection = 1
	t.splitMark = 0
	t.splits = t.splits[:0]
}

// State returns the last published state
func (t *Tracker) State() LapState {
	return t.state
}

// Progress is the signed sample count driven since the last lap
func (t *Tracker) Progress() int {
	return t.progress
}

// Update locates pos, advances the lap timer by dt and counts a lap on a valid crossing
func (t *Tracker) Update(pos mgl64.Vec3, dt float64) LapState {
	if t.n == 0 {
		return t.state
	}
	last := t.state.LastProgressIndex
	idx := t.loc.Nearest(pos, last)

	t.progress += vmath.RingDelta(last, idx, t.n)
	if dt > 0 {
		t.state.LapTime += dt
	}
	t.markSplits()

	n := float64(t.n)
	if float64(last) > parameter.LapExitBand*n &&
		float64(idx) < parameter.LapEntryBand*n &&
		float64(t.progress) >= parameter.LapMinProgress*n {
		t.completeLap()
	}

	t.state.LastProgressIndex = idx
	return t.state
}

// markSplits closes every section whose boundary the progress has passed
func (t *Tracker) markSplits() {
	for t.nextSection < t.sections && t.progress*t.sections >= t.nextSection*t.n {
		t.splits = append(t.splits, t.state.LapTime-t.splitMark)
		t.splitMark = t.state.LapTime
		t.nextSection++
	}
}

func (t *Tracker) completeLap() {
	lapTime := t.state.LapTime
	splits := make([]float64, 0, t.sections)
	splits = append(splits, t.splits...)
	for len(splits) < t.sections-1 {
		splits = append(splits, 0)
	}
	splits = append(splits, lapTime-t.splitMark)

	best := t.state.BestLap == 0 || lapTime < t.state.BestLap
	if best {
		t.state.BestLap = lapTime
	}
	lap := Lap{Number: t.state.Lap, Time: lapTime, Splits: splits, Best: best}

	t.state.Lap++
	t.state.LastLap = lapTime
	t.state.LapTime = 0
	t.progress -= t.n
	t.nextSection = 1
	t.splitMark = 0
	t.splits = t.splits[:0]

	for _, fn := range t.onLap {
		fn(lap)
	}
}
