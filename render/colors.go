package render

import "github.com/gdamore/tcell/v2"

var (
	StyleHUD       = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	StyleHUDValue  = StyleHUD.Foreground(tcell.ColorYellow).Bold(true)
	StyleBest      = StyleHUD.Foreground(tcell.ColorLime)
	StyleTrack     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	StyleStart     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	StyleCar       = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	StyleStatusKey = tcell.StyleDefault.Foreground(tcell.ColorDarkCyan)
	StyleStatusVal = tcell.StyleDefault.Foreground(tcell.ColorSilver)
)
