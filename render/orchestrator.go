package render

import "github.com/gdamore/tcell/v2"

type layerEntry struct {
	layer    Layer
	priority Priority
}

// Orchestrator draws registered layers in priority order each frame
type Orchestrator struct {
	screen tcell.Screen
	layers []layerEntry
}

func NewOrchestrator(screen tcell.Screen) *Orchestrator {
	return &Orchestrator{
		screen: screen,
		layers: make([]layerEntry, 0, 8),
	}
}

// Register adds a layer at priority, keeping insertion order within a priority
func (o *Orchestrator) Register(l Layer, p Priority) {
	entry := layerEntry{layer: l, priority: p}

	pos := len(o.layers)
	for i, e := range o.layers {
		if p < e.priority {
			pos = i
			break
		}
	}

	o.layers = append(o.layers, layerEntry{})
	copy(o.layers[pos+1:], o.layers[pos:])
	o.layers[pos] = entry
}

// Len returns the registered layer count
func (o *Orchestrator) Len() int {
	return len(o.layers)
}

// Resize syncs the terminal after a size change
func (o *Orchestrator) Resize() {
	o.screen.Sync()
}

// RenderFrame clears, draws every visible layer and shows the result
func (o *Orchestrator) RenderFrame(ctx Context) {
	o.screen.Clear()
	s := NewSurface(o.screen)
	ctx.ScreenWidth, ctx.ScreenHeight = s.Size()

	for _, e := range o.layers {
		if vt, ok := e.layer.(VisibilityToggle); ok && !vt.IsVisible() {
			continue
		}
		e.layer.Render(ctx, s)
	}

	o.screen.Show()
}
