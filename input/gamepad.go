package input

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/lixenwraith/dusk-circuit/parameter"
)

// ErrNoGamepad is returned when the joystick layer cannot start
var ErrNoGamepad = errors.New("gamepad unavailable")

// PadState is one poll of a gamepad, axes normalized to library ranges
type PadState struct {
	LeftX        float64 // [-1,1]
	LeftTrigger  float64 // [-1,1], -1 released
	RightTrigger float64 // [-1,1], -1 released
	ResetButton  bool
}

// PadPoller returns the current pad state and whether any pad is connected
type PadPoller func() (PadState, bool)

// Gamepad samples the first connected gamepad
// Right trigger is throttle, left trigger is brake, left stick steers, Y resets
type Gamepad struct {
	poll     PadPoller
	deadzone float64
	close    func()
}

// NewGamepad wraps a poller; used directly by tests and alternate backends
func NewGamepad(poll PadPoller) *Gamepad {
	return &Gamepad{poll: poll, deadzone: parameter.GamepadDeadzone}
}

// OpenGamepad starts the joystick layer; must run on the thread that owns the frame loop
func OpenGamepad() (*Gamepad, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGamepad, err)
	}
	g := NewGamepad(pollGLFW)
	g.close = glfw.Terminate
	return g, nil
}

func pollGLFW() (PadState, bool) {
	for j := glfw.Joystick1; j <= glfw.JoystickLast; j++ {
		if !j.IsGamepad() {
			continue
		}
		st := j.GetGamepadState()
		if st == nil {
			continue
		}
		return PadState{
			LeftX:        float64(st.Axes[glfw.AxisLeftX]),
			LeftTrigger:  float64(st.Axes[glfw.AxisLeftTrigger]),
			RightTrigger: float64(st.Axes[glfw.AxisRightTrigger]),
			ResetButton:  st.Buttons[glfw.ButtonY] == glfw.Press,
		}, true
	}
	return PadState{}, false
}

// Contribution polls the pad; a missing pad contributes nothing
func (g *Gamepad) Contribution() Contribution {
	if g == nil || g.poll == nil {
		return Contribution{}
	}
	st, ok := g.poll()
	if !ok {
		return Contribution{}
	}
	steer := st.LeftX
	if math.Abs(steer) < g.deadzone {
		steer = 0
	}
	return Contribution{
		Throttle:  trigger(st.RightTrigger),
		Brake:     trigger(st.LeftTrigger),
		Steer:     steer,
		ResetHeld: st.ResetButton,
	}
}

// trigger maps [-1,1] rest-to-full into [0,1]
func trigger(v float64) float64 {
	return max(0, min(1, (v+1)/2))
}

// Close releases the joystick layer
func (g *Gamepad) Close() {
	if g == nil || g.close == nil {
		return
	}
	g.close()
	g.close = nil
}
