package input

import (
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
)

var errNoScreen = errors.New("no screen to lock")

// Aggregator merges every input source into one ControlVector per frame
// All methods run on the frame goroutine
type Aggregator struct {
	keyboard *Keyboard
	touch    *Touch
	pad      *Gamepad
	extra    []Source

	locker     Locker
	locked     bool
	lockFailed bool

	onInteract func()
	log        zerolog.Logger

	resetHeld bool
	closed    bool
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithGamepad adds a gamepad source
func WithGamepad(g *Gamepad) Option {
	return func(a *Aggregator) { a.pad = g }
}

// WithLocker requests pointer capture on the first interaction
func WithLocker(l Locker) Option {
	return func(a *Aggregator) { a.locker = l }
}

// WithSource adds an arbitrary contribution source, such as an autopilot
func WithSource(s Source) Option {
	return func(a *Aggregator) {
		if s != nil {
			a.extra = append(a.extra, s)
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(a *Aggregator) { a.log = l }
}

// WithClock overrides the keyboard hold clock
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.keyboard.now = now }
}

// WithKeyHold sets the press and repeat hold windows; zero keeps the defaults
func WithKeyHold(initial, repeat time.Duration) Option {
	return func(a *Aggregator) {
		if initial > 0 {
			a.keyboard.initial = initial
		}
		if repeat > 0 {
			a.keyboard.repeat = repeat
		}
	}
}

// WithInteract registers a callback fired on every key press or pointer contact
func WithInteract(fn func()) Option {
	return func(a *Aggregator) { a.onInteract = fn }
}

// NewAggregator creates an aggregator with keyboard and touch always attached
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		keyboard: NewKeyboard(nil, 0, 0),
		touch:    &Touch{},
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// HandleEvent routes a terminal event; returns true if it was consumed
func (a *Aggregator) HandleEvent(ev tcell.Event) bool {
	if a.closed {
		return false
	}
	switch e := ev.(type) {
	case *tcell.EventKey:
		k, ok := KeyFromEvent(e)
		if !ok {
			return false
		}
		a.keyboard.Press(k)
		a.interact()
		return true
	case *tcell.EventMouse:
		if !a.touch.HandleMouse(e) {
			return false
		}
		if a.touch.Active() {
			a.interact()
		}
		return true
	case *tcell.EventResize:
		w, h := e.Size()
		a.touch.SetBounds(w, h)
		return false
	case *tcell.EventFocus:
		if !e.Focused {
			a.ClearAll()
		}
		return true
	}
	return false
}

func (a *Aggregator) interact() {
	if a.locker != nil && !a.locked && !a.lockFailed {
		if err := a.locker.Lock(); err != nil {
			a.lockFailed = true
			a.log.Warn().Err(err).Msg("Input lock unavailable, continuing unlocked")
		} else {
			a.locked = true
		}
	}
	if a.onInteract != nil {
		a.onInteract()
	}
}

// Read samples all sources and returns the merged control
// Reset is true only on the first frame the reset control is held
func (a *Aggregator) Read() ControlVector {
	if a.closed {
		return ControlVector{}
	}
	parts := make([]Contribution, 0, 3+len(a.extra))
	parts = append(parts, a.keyboard.Contribution(), a.touch.Contribution())
	if a.pad != nil {
		parts = append(parts, a.pad.Contribution())
	}
	for _, s := range a.extra {
		parts = append(parts, s.Contribution())
	}

	cv, held := merge(parts...)
	cv.Reset = held && !a.resetHeld
	a.resetHeld = held
	return cv
}

// ClearAll releases held keys and lifts any touch
func (a *Aggregator) ClearAll() {
	a.keyboard.Clear()
	a.touch.Clear()
}

// Keyboard exposes the keyboard source for backends with real key-up events
func (a *Aggregator) Keyboard() *Keyboard {
	return a.keyboard
}

// Close detaches every source; later Reads return a zero vector
func (a *Aggregator) Close() {
	if a.closed {
		return
	}
	a.closed = true
	a.ClearAll()
	a.pad.Close()
	a.pad = nil
	a.extra = nil
	a.onInteract = nil
}
