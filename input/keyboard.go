package input

import (
	"time"

	"github.com/lixenwraith/dusk-circuit/parameter"
)

type keyState struct {
	down      bool
	pressedAt time.Time
	lastSeen  time.Time
	repeating bool
}

// Keyboard tracks held driving keys from press and repeat events
// A key stays held until its repeat stream stops, an opposing key is pressed, or Clear
// Owned by the frame goroutine
type Keyboard struct {
	now     func() time.Time
	initial time.Duration
	repeat  time.Duration
	keys    [keyCount]keyState
}

// NewKeyboard creates a keyboard using now as its clock; nil means time.Now
func NewKeyboard(now func() time.Time, initial, repeat time.Duration) *Keyboard {
	if now == nil {
		now = time.Now
	}
	if initial <= 0 {
		initial = parameter.KeyHoldInitial
	}
	if repeat <= 0 {
		repeat = parameter.KeyHoldRepeat
	}
	return &Keyboard{now: now, initial: initial, repeat: repeat}
}

// Press records a press or an auto-repeat of key
func (k *Keyboard) Press(key Key) {
	if key == KeyNone || key >= keyCount {
		return
	}
	now := k.now()
	st := &k.keys[key]
	if k.held(st, now) {
		st.repeating = true
	} else {
		st.down = true
		st.pressedAt = now
		st.repeating = false
	}
	st.lastSeen = now

	for _, o := range opposing[key] {
		k.keys[o] = keyState{}
	}
}

// Release drops key immediately, for backends that report key-up
func (k *Keyboard) Release(key Key) {
	if key == KeyNone || key >= keyCount {
		return
	}
	k.keys[key] = keyState{}
}

// Clear releases every key
func (k *Keyboard) Clear() {
	k.keys = [keyCount]keyState{}
}

// Held reports whether key is down now
func (k *Keyboard) Held(key Key) bool {
	if key == KeyNone || key >= keyCount {
		return false
	}
	return k.held(&k.keys[key], k.now())
}

func (k *Keyboard) held(st *keyState, now time.Time) bool {
	if !st.down {
		return false
	}
	timeout := k.initial
	if st.repeating {
		timeout = k.repeat
	}
	if now.Sub(st.lastSeen) > timeout {
		*st = keyState{}
		return false
	}
	return true
}

func axis(on bool) float64 {
	if on {
		return 1
	}
	return 0
}

// Contribution reports WASD and arrow keys; either binding of a direction counts once
func (k *Keyboard) Contribution() Contribution {
	right := k.Held(KeyD) || k.Held(KeyRight)
	left := k.Held(KeyA) || k.Held(KeyLeft)
	return Contribution{
		Throttle:  axis(k.Held(KeyW) || k.Held(KeyUp)),
		Brake:     axis(k.Held(KeyS) || k.Held(KeyDown)),
		Steer:     axis(right) - axis(left),
		ResetHeld: k.Held(KeyR),
	}
}
