package audio

import (
	"math"
	"math/rand"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/dusk-circuit/parameter"
	"github.com/lixenwraith/dusk-circuit/status"
)

// params are written by the frame goroutine and read by the speaker callback
type params struct {
	engineHz   status.AtomicFloat
	harmonicHz status.AtomicFloat
	engineGain status.AtomicFloat
	skidGain   status.AtomicFloat
	bandHz     status.AtomicFloat
}

// glide interpolates a parameter across one buffer to avoid zipper noise
type glide struct {
	from, to float64
}

func (g *glide) begin(target float64) {
	g.from = g.to
	g.to = target
}

func (g *glide) at(i, n int) float64 {
	return g.from + (g.to-g.from)*float64(i)/float64(n)
}

// engineVoice is a sawtooth plus a triangle at a near-octave, sharing one gain
type engineVoice struct {
	p      *params
	rate   float64
	phase1 float64
	phase2 float64
	gain   glide
}

func newEngineVoice(p *params, rate beep.SampleRate) *engineVoice {
	return &engineVoice{p: p, rate: float64(rate)}
}

func (v *engineVoice) Stream(samples [][2]float64) (int, bool) {
	hz1 := v.p.engineHz.Get()
	hz2 := v.p.harmonicHz.Get()
	v.gain.begin(v.p.engineGain.Get())

	n := len(samples)
	for i := range samples {
		saw := 2*v.phase1 - 1
		tri := 1 - 4*math.Abs(v.phase2-0.5)
		s := (saw + tri) * 0.5 * v.gain.at(i, n)
		samples[i][0] = s
		samples[i][1] = s

		v.phase1 += hz1 / v.rate
		v.phase1 -= math.Floor(v.phase1)
		v.phase2 += hz2 / v.rate
		v.phase2 -= math.Floor(v.phase2)
	}
	return n, true
}

func (v *engineVoice) Err() error { return nil }

// biquad is a constant peak-gain bandpass
type biquad struct {
	b0, b2, a1, a2 float64
	x1, x2, y1, y2 float64
}

func (f *biquad) tune(center, q, rate float64) {
	center = math.Min(center, rate*0.45)
	w0 := 2 * math.Pi * center / rate
	alpha := math.Sin(w0) / (2 * q)
	a0 := 1 + alpha
	f.b0 = alpha / a0
	f.b2 = -alpha / a0
	f.a1 = -2 * math.Cos(w0) / a0
	f.a2 = (1 - alpha) / a0
}

func (f *biquad) process(x float64) float64 {
	y := f.b0*x + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}

// skidVoice is white noise through a swept bandpass
type skidVoice struct {
	p      *params
	rate   float64
	rng    *rand.Rand
	filter biquad
	gain   glide
}

func newSkidVoice(p *params, rate beep.SampleRate, seed int64) *skidVoice {
	return &skidVoice{p: p, rate: float64(rate), rng: rand.New(rand.NewSource(seed))}
}

func (v *skidVoice) Stream(samples [][2]float64) (int, bool) {
	v.filter.tune(v.p.bandHz.Get(), parameter.SkidBandQ, v.rate)
	v.gain.begin(v.p.skidGain.Get())

	n := len(samples)
	for i := range samples {
		s := v.filter.process(v.rng.Float64()*2-1) * v.gain.at(i, n)
		samples[i][0] = s
		samples[i][1] = s
	}
	return n, true
}

func (v *skidVoice) Err() error { return nil }
