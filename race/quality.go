package race

import (
	"time"

	"github.com/lixenwraith/dusk-circuit/config"
	"github.com/lixenwraith/dusk-circuit/parameter"
)

// Profile is what a quality tier turns on in the terminal
type Profile struct {
	Quality       string
	FrameInterval time.Duration
	Minimap       bool
	StatusOverlay bool
}

// ProfileFor maps a quality tier to its display profile; unknown tiers are high
func ProfileFor(quality string) Profile {
	p := config.Preferences{Quality: quality}
	switch q := p.NormalizedQuality(); q {
	case config.QualityLow:
		return Profile{Quality: q, FrameInterval: parameter.FrameIntervalLow}
	case config.QualityMedium:
		return Profile{Quality: q, FrameInterval: parameter.FrameInterval, Minimap: true}
	default:
		return Profile{Quality: q, FrameInterval: parameter.FrameInterval, Minimap: true, StatusOverlay: true}
	}
}
