package track

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/dusk-circuit/parameter"
	"github.com/lixenwraith/dusk-circuit/vmath"
)

// Rail is an oriented box collider along the road edge
type Rail struct {
	Center        mgl64.Vec3
	Along         mgl64.Vec3 // unit, horizontal
	Across        mgl64.Vec3 // unit, horizontal, left of Along
	HalfLength    float64
	HalfThickness float64
	HalfHeight    float64
}

// Rails places a collider over every stride-sample chord on both road edges
// Chords near corners tighter than the rail offset are left open; the inner
// rail would otherwise cut across the driving line
func (t *Track) Rails(width float64) []Rail {
	n := t.Len()
	stride := parameter.RailStride
	offset := width*0.5 + parameter.RailMargin
	minRadius := offset * parameter.RailMinRadiusFactor

	tight := make([]bool, n)
	for i := 0; i < n; i++ {
		tight[i] = t.TurnRadius(i) < minRadius
	}

	rails := make([]Rail, 0, 2*(n/stride+1))
	for i := 0; i < n; i += stride {
		if nearTight(tight, i-stride, i+2*stride) {
			continue
		}

		p := t.Samples[i]
		chord := vmath.Flatten(t.Samples[(i+stride)%n].Sub(p))
		length := chord.Len()
		if length < 1e-6 {
			continue
		}
		along := chord.Mul(1 / length)
		across := vmath.LeftOf(along)
		mid := p.Add(chord.Mul(0.5))

		for _, side := range [2]float64{1, -1} {
			center := mid.Add(across.Mul(offset * side))
			center[1] = parameter.RailHeight * 0.5
			rails = append(rails, Rail{
				Center:        center,
				Along:         along,
				Across:        across,
				HalfLength:    0.5 * max(length, parameter.RailMinLength),
				HalfThickness: 0.5 * parameter.RailThickness,
				HalfHeight:    0.5 * parameter.RailHeight,
			})
		}
	}
	return rails
}

// nearTight reports whether any sample in [from, to) is flagged
func nearTight(tight []bool, from, to int) bool {
	n := len(tight)
	for k := from; k < to; k++ {
		if tight[vmath.WrapIndex(k, n)] {
			return true
		}
	}
	return false
}
