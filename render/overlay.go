package render

import (
	"github.com/lixenwraith/dusk-circuit/parameter"
	"github.com/lixenwraith/dusk-circuit/status"
)

// StatusOverlay lists registry metrics along the bottom rows
type StatusOverlay struct {
	registry *status.Registry
	visible  bool
}

func NewStatusOverlay(r *status.Registry, visible bool) *StatusOverlay {
	return &StatusOverlay{registry: r, visible: visible}
}

func (o *StatusOverlay) IsVisible() bool {
	return o.visible && o.registry != nil
}

func (o *StatusOverlay) SetVisible(v bool) {
	o.visible = v
}

func (o *StatusOverlay) Render(_ Context, s Surface) {
	w, h := s.Size()
	top := h - parameter.StatusRows
	if top < 1 {
		return
	}

	x, y := 0, top
	for _, e := range o.registry.Snapshot() {
		n := len(e.Key) + len(e.Value) + 3
		if x+n > w {
			x = 0
			y++
			if y >= h {
				return
			}
		}
		x = s.Text(x, y, e.Key, StyleStatusKey)
		x = s.Text(x, y, "="+e.Value, StyleStatusVal)
		x += 2
	}
}
