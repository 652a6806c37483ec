package input

import "github.com/gdamore/tcell/v2"

// Key is a driving control key, independent of layout
type Key uint8

const (
	KeyNone Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyR
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	keyCount
)

// specialKeys maps non-rune terminal keys
var specialKeys = map[tcell.Key]Key{
	tcell.KeyUp:    KeyUp,
	tcell.KeyDown:  KeyDown,
	tcell.KeyLeft:  KeyLeft,
	tcell.KeyRight: KeyRight,
}

// runeKeys maps printable keys, both cases
var runeKeys = map[rune]Key{
	'w': KeyW, 'W': KeyW,
	'a': KeyA, 'A': KeyA,
	's': KeyS, 'S': KeyS,
	'd': KeyD, 'D': KeyD,
	'r': KeyR, 'R': KeyR,
}

// opposing lists keys released when a key is pressed; terminals never report key-up
var opposing = [keyCount][]Key{
	KeyA:     {KeyD, KeyRight},
	KeyLeft:  {KeyD, KeyRight},
	KeyD:     {KeyA, KeyLeft},
	KeyRight: {KeyA, KeyLeft},
	KeyW:     {KeyS, KeyDown},
	KeyUp:    {KeyS, KeyDown},
	KeyS:     {KeyW, KeyUp},
	KeyDown:  {KeyW, KeyUp},
}

// KeyFromEvent translates a terminal key event
func KeyFromEvent(ev *tcell.EventKey) (Key, bool) {
	if ev == nil {
		return KeyNone, false
	}
	if ev.Key() == tcell.KeyRune {
		k, ok := runeKeys[ev.Rune()]
		return k, ok
	}
	k, ok := specialKeys[ev.Key()]
	return k, ok
}
