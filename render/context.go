package render

import "github.com/lixenwraith/dusk-circuit/race"

// Context is the frame state handed to layers, passed by value
type Context struct {
	Hud   race.HudState
	Frame uint64

	ScreenWidth  int
	ScreenHeight int
}
