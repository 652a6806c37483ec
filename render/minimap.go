package render

import (
	"github.com/lixenwraith/dusk-circuit/parameter"
	"github.com/lixenwraith/dusk-circuit/track"
)

// Minimap draws the track outline in the top-right corner with the car at its progress sample
type Minimap struct {
	track   *track.Track
	visible bool

	// projection cache, rebuilt on size change
	w, h int
	proj track.Projection
}

func NewMinimap(t *track.Track, visible bool) *Minimap {
	return &Minimap{track: t, visible: visible}
}

func (m *Minimap) IsVisible() bool {
	return m.visible && m.track != nil
}

// SetVisible toggles drawing at runtime
func (m *Minimap) SetVisible(v bool) {
	m.visible = v
}

func (m *Minimap) Render(ctx Context, s Surface) {
	sw, sh := s.Size()
	w := min(parameter.MinimapWidth, sw)
	h := min(parameter.MinimapHeight, sh-parameter.HUDRow-1)
	if w < 2 || h < 2 {
		return
	}
	if w != m.w || h != m.h {
		m.w, m.h = w, h
		m.proj = m.track.Project(w, h)
	}

	ox := sw - w
	oy := parameter.HUDRow + 1
	for _, p := range m.track.Samples {
		x, y := m.proj.Cell(p)
		s.Set(ox+x, oy+y, '·', StyleTrack)
	}
	x, y := m.proj.Cell(m.track.Start().Position)
	s.Set(ox+x, oy+y, '#', StyleStart)

	if !ctx.Hud.Spawned {
		return
	}
	idx := ctx.Hud.Progress
	if idx < 0 || idx >= m.track.Len() {
		return
	}
	x, y = m.proj.Cell(m.track.Samples[idx])
	s.Set(ox+x, oy+y, '@', StyleCar)
}
