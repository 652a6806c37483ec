package track

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/dusk-circuit/parameter"
)

// knot advances a centripetal parameter by |b-a|^alpha
func knot(t float64, a, b mgl64.Vec3, alpha float64) float64 {
	d := math.Pow(b.Sub(a).Len(), alpha)
	return t + math.Max(d, parameter.CatmullRomMinKnot)
}

// blend interpolates a at ta to b at tb, evaluated at t
func blend(a, b mgl64.Vec3, ta, tb, t float64) mgl64.Vec3 {
	d := tb - ta
	if d < 1e-9 {
		return a
	}
	return a.Mul((tb - t) / d).Add(b.Mul((t - ta) / d))
}

// catmullRom evaluates the segment p1→p2 at u in [0,1) using the Barry-Goldman pyramid
func catmullRom(p0, p1, p2, p3 mgl64.Vec3, u, alpha float64) mgl64.Vec3 {
	t0 := 0.0
	t1 := knot(t0, p0, p1, alpha)
	t2 := knot(t1, p1, p2, alpha)
	t3 := knot(t2, p2, p3, alpha)
	t := t1 + (t2-t1)*u

	a1 := blend(p0, p1, t0, t1, t)
	a2 := blend(p1, p2, t1, t2, t)
	a3 := blend(p2, p3, t2, t3, t)
	b1 := blend(a1, a2, t0, t2, t)
	b2 := blend(a2, a3, t1, t3, t)
	return blend(b1, b2, t1, t2, t)
}

// densePolyline walks the closed spline through points, returning a polyline whose last vertex repeats the first
func densePolyline(points []mgl64.Vec3, perSegment int, alpha float64) []mgl64.Vec3 {
	m := len(points)
	dense := make([]mgl64.Vec3, 0, m*perSegment+1)
	for i := 0; i < m; i++ {
		p0 := points[(i-1+m)%m]
		p1 := points[i]
		p2 := points[(i+1)%m]
		p3 := points[(i+2)%m]
		for k := 0; k < perSegment; k++ {
			dense = append(dense, catmullRom(p0, p1, p2, p3, float64(k)/float64(perSegment), alpha))
		}
	}
	return append(dense, dense[0])
}

// resample places n points at equal arc length along a closed polyline
func resample(dense []mgl64.Vec3, n int) ([]mgl64.Vec3, float64) {
	cum := make([]float64, len(dense))
	for i := 1; i < len(dense); i++ {
		cum[i] = cum[i-1] + dense[i].Sub(dense[i-1]).Len()
	}
	total := cum[len(cum)-1]

	out := make([]mgl64.Vec3, n)
	j := 0
	for i := 0; i < n; i++ {
		s := total * float64(i) / float64(n)
		for j+1 < len(cum)-1 && cum[j+1] < s {
			j++
		}
		seg := cum[j+1] - cum[j]
		f := 0.0
		if seg > 0 {
			f = (s - cum[j]) / seg
		}
		out[i] = dense[j].Add(dense[j+1].Sub(dense[j]).Mul(f))
	}
	return out, total
}
