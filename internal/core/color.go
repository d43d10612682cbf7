package core

// Color is the foreground colour of a screen cell.
// The platform maps each value to an ANSI 256-colour code.
type Color uint8

// Screen colours. Tile colours of the game map onto the first block.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorYellow
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
	ColorBrightRed
	ColorBrightGreen
	ColorBrightBlue
	ColorBrightYellow
	ColorBrightMagenta
	ColorBrightWhite
	colorCount
)

var ansiCodes = [colorCount]string{
	ColorDefault:       "",
	ColorRed:           "1",
	ColorGreen:         "2",
	ColorBlue:          "4",
	ColorYellow:        "3",
	ColorMagenta:       "5",
	ColorCyan:          "6",
	ColorWhite:         "7",
	ColorOrange:        "208",
	ColorGray:          "245",
	ColorBrightRed:     "9",
	ColorBrightGreen:   "10",
	ColorBrightBlue:    "12",
	ColorBrightYellow:  "11",
	ColorBrightMagenta: "13",
	ColorBrightWhite:   "15",
}

// ANSI returns the 256-colour code, or "" for the terminal default.
func (c Color) ANSI() string {
	if c >= colorCount {
		return ""
	}
	return ansiCodes[c]
}

// Bright returns the highlighted variant used for selection and effects.
func (c Color) Bright() Color {
	switch c {
	case ColorRed:
		return ColorBrightRed
	case ColorGreen:
		return ColorBrightGreen
	case ColorBlue:
		return ColorBrightBlue
	case ColorYellow:
		return ColorBrightYellow
	case ColorMagenta:
		return ColorBrightMagenta
	case ColorWhite, ColorGray, ColorDefault:
		return ColorBrightWhite
	default:
		return c
	}
}
