package input

import (
	"github.com/gdamore/tcell/v2"
)

// Locker captures the pointer for the play surface
// In a terminal this is mouse reporting plus focus events
type Locker interface {
	Lock() error
}

// ScreenLocker enables mouse and focus reporting on a tcell screen
type ScreenLocker struct {
	Screen tcell.Screen
}

func (l ScreenLocker) Lock() error {
	if l.Screen == nil {
		return errNoScreen
	}
	l.Screen.EnableMouse(tcell.MouseDragEvents)
	l.Screen.EnableFocus()
	return nil
}
