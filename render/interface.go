package render

// Layer is one drawable part of the race screen
type Layer interface {
	Render(ctx Context, s Surface)
}

// VisibilityToggle is optionally implemented for runtime enable/disable
type VisibilityToggle interface {
	IsVisible() bool
}
