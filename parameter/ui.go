package parameter

// HUD layout in terminal cells
const (
	MinimapWidth  = 32
	MinimapHeight = 14
	HUDRow        = 0
	StatusRows    = 2
)

// Lap split sections persisted with each lap record
const LapSplitSections = 4
