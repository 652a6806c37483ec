package progress

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/dusk-circuit/parameter"
	"github.com/lixenwraith/dusk-circuit/track"
)

// indexLocator treats X as the sample index directly
type indexLocator struct{ n int }

func (l indexLocator) Len() int { return l.n }
func (l indexLocator) Nearest(pos mgl64.Vec3, _ int) int {
	i := int(math.Round(pos[0])) % l.n
	if i < 0 {
		i += l.n
	}
	return i
}

func at(i int) mgl64.Vec3 { return mgl64.Vec3{float64(i), 0, 0} }

const n = 100

func driveForward(tr *Tracker, from, to, stride int, dt float64) {
	for i := from; i <= to; i += stride {
		tr.Update(at(i), dt)
	}
}

func TestForwardLapCounts(t *testing.T) {
	tr := NewTracker(indexLocator{n})
	var laps []Lap
	tr.OnLap(func(l Lap) { laps = append(laps, l) })

	driveForward(tr, 1, 99, 1, 0.1)
	require.Equal(t, 1, tr.State().Lap)

	st := tr.Update(at(100), 0.1)
	assert.Equal(t, 2, st.Lap)
	assert.Equal(t, 0.0, st.LapTime)
	assert.Equal(t, 0, st.LastProgressIndex)
	assert.InDelta(t, 10.0, st.LastLap, 1e-9)
	assert.InDelta(t, 10.0, st.BestLap, 1e-9)

	require.Len(t, laps, 1)
	assert.Equal(t, 1, laps[0].Number)
	assert.True(t, laps[0].Best)
	require.Len(t, laps[0].Splits, parameter.LapSplitSections)
	sum := 0.0
	for _, s := range laps[0].Splits {
		assert.InDelta(t, 2.5, s, 1e-9)
		sum += s
	}
	assert.InDelta(t, laps[0].Time, sum, 1e-9)
}

func TestOscillationAcrossStartNeverCounts(t *testing.T) {
	tr := NewTracker(indexLocator{n})
	for k := 0; k < 200; k++ {
		tr.Update(at(99), 1.0/60)
		tr.Update(at(0), 1.0/60)
		tr.Update(at(1), 1.0/60)
	}
	st := tr.State()
	assert.Equal(t, 1, st.Lap)
	assert.InDelta(t, 600.0/60, st.LapTime, 1e-6, "timer runs regardless")
}

func TestBackingOverLineNeverCounts(t *testing.T) {
	tr := NewTracker(indexLocator{n})
	// Reverse a full loop, then drive forward across the line
	for i := 99; i >= 0; i-- {
		tr.Update(at(i), 0.1)
	}
	assert.Equal(t, 1, tr.State().Lap)
	assert.Equal(t, -n, tr.Progress())

	driveForward(tr, 90, 99, 1, 0.1)
	tr.Update(at(0), 0.1)
	assert.Equal(t, 1, tr.State().Lap, "the reversed loop must be driven back first")
}

func TestShortcutAcrossBandsDoesNotCount(t *testing.T) {
	tr := NewTracker(indexLocator{n})
	driveForward(tr, 1, 40, 1, 0.1)
	// Jump straight into the exit band, which is a backward move on the ring
	tr.Update(at(90), 0.1)
	tr.Update(at(5), 0.1)
	assert.Equal(t, 1, tr.State().Lap)
}

func TestIndexAlwaysInRange(t *testing.T) {
	tr := NewTracker(indexLocator{n})
	for i := -350; i < 350; i += 7 {
		st := tr.Update(at(i), 0.01)
		assert.GreaterOrEqual(t, st.LastProgressIndex, 0)
		assert.Less(t, st.LastProgressIndex, n)
	}
}

func TestResetKeepsBestLap(t *testing.T) {
	tr := NewTracker(indexLocator{n})
	driveForward(tr, 1, 100, 1, 0.1)
	require.Equal(t, 2, tr.State().Lap)

	driveForward(tr, 1, 50, 1, 0.1)
	tr.Reset()
	st := tr.State()
	assert.Equal(t, 1, st.Lap)
	assert.Equal(t, 0.0, st.LapTime)
	assert.Equal(t, 0, st.LastProgressIndex)
	assert.Equal(t, 0, tr.Progress())
	assert.InDelta(t, 10.0, st.BestLap, 1e-9)
}

func TestSecondLapBestFlag(t *testing.T) {
	tr := NewTracker(indexLocator{n})
	var laps []Lap
	tr.OnLap(func(l Lap) { laps = append(laps, l) })

	driveForward(tr, 1, 100, 1, 0.1)
	driveForward(tr, 1, 100, 1, 0.2)
	driveForward(tr, 2, 100, 2, 0.1)

	require.Len(t, laps, 3)
	assert.False(t, laps[1].Best)
	assert.True(t, laps[2].Best)
	assert.InDelta(t, 5.0, tr.State().BestLap, 1e-9)
}

func TestTrackerOnRealTrack(t *testing.T) {
	tk, err := track.New(parameter.DefaultControlPoints, parameter.TrackSampleCount)
	require.NoError(t, err)
	tr := NewTracker(tk)

	// Ride the centerline twice at a fixed offset to the left
	for lap := 0; lap < 2; lap++ {
		for i := 1; i <= tk.Len(); i++ {
			j := i % tk.Len()
			pos := tk.Samples[j].Add(tk.Normals[j].Mul(1.0))
			st := tr.Update(pos, 1.0/60)
			assert.Equal(t, j, st.LastProgressIndex)
		}
	}
	assert.Equal(t, 3, tr.State().Lap)
}
