package render

// Priority determines draw order; lower values draw first
type Priority int

const (
	PriorityBackground Priority = iota
	PriorityMinimap
	PriorityHUD
	PriorityOverlay
	PriorityDebug
)
