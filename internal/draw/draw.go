// Package draw renders the game onto an ANSI terminal through a
// diff-rendered cell canvas.
package draw

import "github.com/tomz197/gestris/internal/tetris"

// Block characters for drawing.
const (
	BlockFull  = '█'
	BlockLight = '░'
	BlockEmpty = ' '
	Dot        = '·'
)

// Color is a foreground color.
type Color uint8

const (
	ColorDefault Color = iota
	ColorCyan
	ColorBlue
	ColorOrange
	ColorYellow
	ColorGreen
	ColorMagenta
	ColorRed
	ColorGray
	ColorWhite
)

var colorSGR = [...]string{
	ColorDefault: "\033[0m",
	ColorCyan:    "\033[96m",
	ColorBlue:    "\033[94m",
	ColorOrange:  "\033[38;5;208m",
	ColorYellow:  "\033[93m",
	ColorGreen:   "\033[92m",
	ColorMagenta: "\033[95m",
	ColorRed:     "\033[91m",
	ColorGray:    "\033[90m",
	ColorWhite:   "\033[97;1m",
}

// SGR returns the escape sequence that selects c.
func (c Color) SGR() string {
	if int(c) >= len(colorSGR) {
		return colorSGR[ColorDefault]
	}
	return colorSGR[c]
}

// TileColor returns the color of block id.
func TileColor(id int) Color {
	switch id {
	case tetris.IDI:
		return ColorCyan
	case tetris.IDJ:
		return ColorBlue
	case tetris.IDL:
		return ColorOrange
	case tetris.IDO:
		return ColorYellow
	case tetris.IDS:
		return ColorGreen
	case tetris.IDT:
		return ColorMagenta
	case tetris.IDZ:
		return ColorRed
	}
	return ColorDefault
}
