package render

import (
	"fmt"
	"math"

	"github.com/lixenwraith/dusk-circuit/parameter"
)

// HUD is the top status bar: speed, gear, lap and timing
type HUD struct{}

func (HUD) Render(ctx Context, s Surface) {
	w, _ := s.Size()
	row := parameter.HUDRow
	s.Fill(0, row, w, ' ', StyleHUD)

	h := ctx.Hud
	x := s.Text(1, row, "SPD ", StyleHUD)
	x = s.Text(x, row, fmt.Sprintf("%3.0f", h.SpeedMph), StyleHUDValue)
	x = s.Text(x, row, " mph  GEAR ", StyleHUD)
	x = s.Text(x, row, fmt.Sprintf("%d", h.Gear), StyleHUDValue)
	x = s.Text(x, row, "  LAP ", StyleHUD)
	x = s.Text(x, row, fmt.Sprintf("%d", h.Lap), StyleHUDValue)
	x = s.Text(x, row, "  TIME ", StyleHUD)
	x = s.Text(x, row, FormatLapTime(h.LapTime), StyleHUDValue)
	if h.LastLap > 0 {
		x = s.Text(x, row, "  LAST ", StyleHUD)
		x = s.Text(x, row, FormatLapTime(h.LastLap), StyleHUDValue)
	}
	if h.BestLap > 0 {
		x = s.Text(x, row, "  BEST ", StyleHUD)
		s.Text(x, row, FormatLapTime(h.BestLap), StyleBest)
	}
}

// FormatLapTime renders seconds as m:ss.cc
func FormatLapTime(sec float64) string {
	if sec < 0 || math.IsNaN(sec) {
		sec = 0
	}
	cs := int64(math.Round(sec * 100))
	return fmt.Sprintf("%d:%02d.%02d", cs/6000, (cs/100)%60, cs%100)
}
