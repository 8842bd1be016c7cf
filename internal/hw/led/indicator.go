package led

// Color is one entry of the fixed indicator palette.
type Color int

const (
	Off Color = iota
	Red
	Green
	Blue
	Yellow
	Cyan
	Magenta
	White
)

var colorNames = [...]string{
	Off:     "off",
	Red:     "red",
	Green:   "green",
	Blue:    "blue",
	Yellow:  "yellow",
	Cyan:    "cyan",
	Magenta: "magenta",
	White:   "white",
}

func (c Color) String() string {
	if c < 0 || int(c) >= len(colorNames) {
		return "unknown"
	}
	return colorNames[c]
}

// channels returns which of the red, green and blue dies are lit.
func (c Color) channels() (r, g, b bool) {
	switch c {
	case Red:
		return true, false, false
	case Green:
		return false, true, false
	case Blue:
		return false, false, true
	case Yellow:
		return true, true, false
	case Cyan:
		return false, true, true
	case Magenta:
		return true, false, true
	case White:
		return true, true, true
	default:
		return false, false, false
	}
}

// Indicator is the high-level interface used by the rest of the application.
// It represents an abstract status light, regardless of how it's wired.
type Indicator interface {
	// SetColor lights the indicator with a palette color.
	SetColor(c Color) error
}
