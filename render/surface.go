// Package render draws the race HUD, minimap and status overlay onto a tcell screen
package render

import (
	"github.com/gdamore/tcell/v2"
)

// Surface is a clipped drawing target over a tcell screen
type Surface struct {
	screen        tcell.Screen
	width, height int
}

// NewSurface wraps screen at its current size
func NewSurface(screen tcell.Screen) Surface {
	w, h := screen.Size()
	return Surface{screen: screen, width: w, height: h}
}

func (s Surface) Size() (int, int) {
	return s.width, s.height
}

func (s Surface) inBounds(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

// Set draws one rune; out of bounds cells are dropped
func (s Surface) Set(x, y int, r rune, style tcell.Style) {
	if !s.inBounds(x, y) {
		return
	}
	s.screen.SetContent(x, y, r, nil, style)
}

// Text draws str left to right from x, clipped at the right edge; returns the next column
func (s Surface) Text(x, y int, str string, style tcell.Style) int {
	for _, r := range str {
		s.Set(x, y, r, style)
		x++
	}
	return x
}

// Fill paints a row span with r
func (s Surface) Fill(x, y, w int, r rune, style tcell.Style) {
	for i := 0; i < w; i++ {
		s.Set(x+i, y, r, style)
	}
}
