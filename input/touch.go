package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/dusk-circuit/parameter"
	"github.com/lixenwraith/dusk-circuit/vmath"
)

// Touch maps a pointer drag to steer and pedals
// Horizontal position steers; above TouchNeutralY is throttle, below is brake
type Touch struct {
	active                 bool
	steer, throttle, brake float64
	width, height          int
}

// SetBounds updates the surface size used to normalize positions
func (t *Touch) SetBounds(w, h int) {
	t.width, t.height = w, h
}

// HandleMouse consumes a mouse event; returns true if the gesture changed
func (t *Touch) HandleMouse(ev *tcell.EventMouse) bool {
	if ev == nil {
		return false
	}
	if ev.Buttons()&tcell.Button1 == 0 {
		if !t.active {
			return false
		}
		t.Clear()
		return true
	}
	x, y := ev.Position()
	t.Drag(float64(x)/float64(max(1, t.width)), float64(y)/float64(max(1, t.height)))
	return true
}

// Drag applies a contact at normalized coordinates in [0,1]
func (t *Touch) Drag(x, y float64) {
	t.active = true
	t.steer = vmath.Clamp((x-0.5)*2, -1, 1) * parameter.TouchSteerScale

	v := (parameter.TouchNeutralY - y) * 2
	t.throttle = vmath.Clamp01(max(0, v)) * parameter.TouchPedalScale
	t.brake = vmath.Clamp01(max(0, -v)) * parameter.TouchPedalScale
}

// Clear lifts the contact
func (t *Touch) Clear() {
	t.active = false
	t.steer, t.throttle, t.brake = 0, 0, 0
}

func (t *Touch) Active() bool {
	return t.active
}

func (t *Touch) Contribution() Contribution {
	return Contribution{Throttle: t.throttle, Brake: t.brake, Steer: t.steer}
}
