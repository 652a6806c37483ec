package track

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/peterstace/simplefeatures/geom"
)

// Outline returns the centerline as a closed XZ line string
func (t *Track) Outline() geom.LineString {
	return t.outline
}

func buildOutline(samples []mgl64.Vec3) (geom.LineString, error) {
	coords := make([]float64, 0, 2*(len(samples)+1))
	for _, s := range samples {
		coords = append(coords, s[0], s[2])
	}
	coords = append(coords, samples[0][0], samples[0][2])
	ls, err := geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
	if err != nil {
		return geom.LineString{}, fmt.Errorf("outline: %w", err)
	}
	return ls, nil
}

// Projection maps world XZ into a w×h cell grid, preserving aspect
type Projection struct {
	minX, minZ float64
	scale      float64
	offX, offY float64
	w, h       int
}

// Project builds a projection that fits the track outline into a w×h grid
// Cells are treated as twice as tall as they are wide
func (t *Track) Project(w, h int) Projection {
	lo, hi, ok := t.Outline().Envelope().MinMaxXYs()
	if !ok || w < 2 || h < 2 {
		return Projection{w: w, h: h}
	}

	spanX := hi.X - lo.X
	spanZ := (hi.Y - lo.Y) * 0.5
	sx := float64(w-1) / max(spanX, 1e-9)
	sz := float64(h-1) / max(spanZ, 1e-9)
	scale := min(sx, sz)

	return Projection{
		minX:  lo.X,
		minZ:  lo.Y,
		scale: scale,
		offX:  (float64(w-1) - spanX*scale) * 0.5,
		offY:  (float64(h-1) - spanZ*scale) * 0.5,
		w:     w,
		h:     h,
	}
}

// Cell returns the grid cell of a world point; +Z is drawn upward
func (p Projection) Cell(pos mgl64.Vec3) (x, y int) {
	if p.scale == 0 {
		return 0, 0
	}
	fx := p.offX + (pos[0]-p.minX)*p.scale
	fy := p.offY + (pos[2]-p.minZ)*0.5*p.scale
	x = clampCell(int(fx+0.5), p.w)
	y = clampCell(p.h-1-int(fy+0.5), p.h)
	return x, y
}

func clampCell(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
